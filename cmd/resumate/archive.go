package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hyunjookim/resumate/pkg/analyzer"
	"github.com/hyunjookim/resumate/pkg/experience"
	"github.com/hyunjookim/resumate/pkg/logger"
	"github.com/hyunjookim/resumate/pkg/markdown"
	"github.com/hyunjookim/resumate/pkg/presenter"
	"github.com/hyunjookim/resumate/pkg/prompts"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <experience>",
	Short: "Produce the final structured version of an experience",
	Long: `Archive converts a refined document into a structured, resume-ready
record:

  --prompt    print the structuring instruction for the external agent
  --content   write the archived version from the agent's JSON reply

Without --content a minimal archived version is built directly from the
refined document. That fallback is best-effort and never fails: fields it
cannot determine are simply omitted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showPrompt, _ := cmd.Flags().GetBool("prompt")
		contentJSON, _ := cmd.Flags().GetString("content")

		repo := experience.NewRepository(projectRoot())
		exp, err := repo.FindOne(args[0])
		if err != nil {
			presenter.Error(err, "Failed to locate experience")
			os.Exit(1)
		}

		refined, err := repo.Version(exp.Name, experience.VersionRefined)
		if err != nil {
			presenter.Error(err, "Failed to read refined version")
			os.Exit(1)
		}

		analysis := analyzer.AnalyzeRefined(refined, exp.Date.Format("2006-01-02"))
		logger.G(cmd.Context()).WithField("experience", exp.Name).
			WithField("answers", analysis.AnswerCount()).Debug("archiving")

		switch {
		case showPrompt:
			prompt, err := prompts.BuildArchivePrompt(analysis, exp.Name)
			if err != nil {
				presenter.Error(err, "Failed to build archive prompt")
				os.Exit(1)
			}
			fmt.Println(prompt)
		case contentJSON != "":
			err = archiveStructured(repo, exp, analysis, contentJSON)
		default:
			err = archiveFallback(repo, exp, analysis)
		}

		if err != nil {
			presenter.Error(err, "Failed to archive experience")
			os.Exit(1)
		}
	},
}

func init() {
	archiveCmd.Flags().Bool("prompt", false, "Print the structuring instruction")
	archiveCmd.Flags().String("content", "", "Structured JSON from the agent")
}

func archiveStructured(repo *experience.Repository, exp *experience.Experience, analysis analyzer.ArchiveAnalysis, raw string) error {
	content, err := prompts.ValidateStructuredArchiveContent([]byte(raw))
	if err != nil {
		return errors.Wrap(err, "invalid archive content JSON")
	}

	meta := markdown.Meta{
		"title": content.Title,
		"date":  analysis.Date,
		"completeness": map[string]interface{}{
			"score":       content.Completeness.Score,
			"suggestions": content.Completeness.Suggestions,
		},
	}

	if content.Duration != nil {
		meta["duration"] = map[string]interface{}{
			"start": content.Duration.Start,
			"end":   content.Duration.End,
		}
	}
	if content.Project != nil {
		meta["project"] = *content.Project
	}
	if len(content.Technologies) > 0 {
		techs := make([]string, len(content.Technologies))
		for i, tech := range content.Technologies {
			techs[i] = tech.Normalized
		}
		meta["technologies"] = techs
	}
	if len(content.Achievements) > 0 {
		achievements := make([]string, len(content.Achievements))
		for i, achievement := range content.Achievements {
			achievements[i] = achievement.ResumeReady
		}
		meta["achievements"] = achievements
	}
	if content.Learnings != nil {
		meta["learnings"] = *content.Learnings
	}
	if content.Reflections != nil {
		meta["reflections"] = *content.Reflections
	}

	body := renderArchivedBody(content)
	doc, err := markdown.Serialize(body, meta)
	if err != nil {
		return err
	}
	if err := repo.AddArchived(exp.Name, doc); err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Archived %s (completeness %d/100)", exp.Name, content.Completeness.Score))
	for _, suggestion := range content.Completeness.Suggestions {
		presenter.Info("  - " + suggestion)
	}
	if content.AIComments != "" {
		presenter.Separator()
		presenter.Info(content.AIComments)
	}
	return nil
}

func renderArchivedBody(content *prompts.ArchiveContent) string {
	var sb strings.Builder
	sb.WriteString("# " + content.Title + "\n")

	if content.Duration != nil {
		sb.WriteString(fmt.Sprintf("\n%s ~ %s (%s)\n", content.Duration.Start, content.Duration.End, content.Duration.Interpretation))
	}

	if len(content.Achievements) > 0 {
		sb.WriteString("\n## 성과\n\n")
		for _, achievement := range content.Achievements {
			sb.WriteString("- " + achievement.ResumeReady + "\n")
		}
	}

	if content.Learnings != nil {
		sb.WriteString("\n## 배운 점\n\n" + *content.Learnings + "\n")
	}
	if content.Reflections != nil {
		sb.WriteString("\n## 회고\n\n" + *content.Reflections + "\n")
	}

	if len(content.QASummary) > 0 {
		sb.WriteString("\n## Q&A 요약\n")
		for _, qa := range content.QASummary {
			sb.WriteString(fmt.Sprintf("\n**Q**: %s\n\n**A**: %s\n", qa.Question, qa.Answer))
			if qa.Interpretation != "" {
				sb.WriteString("\n> " + qa.Interpretation + "\n")
			}
		}
	}

	return sb.String()
}

// archiveFallback builds the archived version without AI interpretation.
// It extracts what the deterministic analyzers can see and omits the rest;
// by policy it produces a document for any input.
func archiveFallback(repo *experience.Repository, exp *experience.Experience, analysis analyzer.ArchiveAnalysis) error {
	title := analysis.Title
	if title == "" {
		title = exp.Slug
	}

	duration := analysis.Metadata.GetMap("duration")
	achievements := analysis.Metadata.GetStringSlice("achievements")
	technologies := analysis.Metadata.GetStringSlice("technologies")

	assessment := analyzer.CalculateCompleteness(analyzer.CompletenessFields{
		Title:         title,
		DurationStart: duration.GetString("start"),
		DurationEnd:   duration.GetString("end"),
		Achievements:  achievements,
		Technologies:  technologies,
		Learnings:     analysis.Metadata.GetString("learnings"),
		Project:       analysis.Metadata.GetString("project"),
		Reflections:   analysis.Metadata.GetString("reflections"),
	})

	meta := markdown.Meta{
		"title": title,
		"date":  analysis.Date,
		"completeness": map[string]interface{}{
			"score":       assessment.Score,
			"suggestions": assessment.Suggestions,
		},
	}

	if duration != nil {
		meta["duration"] = duration
	}
	if len(technologies) > 0 {
		meta["technologies"] = technologies
	}
	if len(achievements) > 0 {
		meta["achievements"] = achievements
	}
	if project := analysis.Metadata.GetString("project"); project != "" {
		meta["project"] = project
	}
	if learnings := analysis.Metadata.GetString("learnings"); learnings != "" {
		meta["learnings"] = learnings
	}
	if reflections := analysis.Metadata.GetString("reflections"); reflections != "" {
		meta["reflections"] = reflections
	}

	var sb strings.Builder
	sb.WriteString("# " + title + "\n")
	if analysis.OriginalContent != "" {
		sb.WriteString("\n" + analysis.OriginalContent + "\n")
	}

	var answered []markdown.QAPair
	for _, pair := range analysis.QAPairs {
		if pair.Answered() {
			answered = append(answered, pair)
		}
	}
	if len(answered) > 0 {
		sb.WriteString("\n## Q&A 요약\n")
		for _, pair := range answered {
			sb.WriteString(fmt.Sprintf("\n**Q**: %s\n\n**A**: %s\n", pair.Question, *pair.Answer))
		}
	}

	doc, err := markdown.Serialize(sb.String(), meta)
	if err != nil {
		return err
	}
	if err := repo.AddArchived(exp.Name, doc); err != nil {
		return err
	}

	presenter.Warning("Archived without AI interpretation; fields that could not be extracted were omitted")
	presenter.Success(fmt.Sprintf("Archived %s (completeness %d/100)", exp.Name, assessment.Score))
	for _, suggestion := range assessment.Suggestions {
		presenter.Info("  - " + suggestion)
	}
	return nil
}
