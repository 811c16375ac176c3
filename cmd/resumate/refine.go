package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hyunjookim/resumate/pkg/analyzer"
	"github.com/hyunjookim/resumate/pkg/experience"
	"github.com/hyunjookim/resumate/pkg/logger"
	"github.com/hyunjookim/resumate/pkg/markdown"
	"github.com/hyunjookim/resumate/pkg/presenter"
	"github.com/hyunjookim/resumate/pkg/prompts"
)

var refineCmd = &cobra.Command{
	Use:   "refine <experience>",
	Short: "Refine a draft through AI-assisted question rounds",
	Long: `Refine works in rounds with the external agent:

  --prompt     print the question-generation instruction for the agent
  --questions  append the agent's questions (JSON array) to the document
  --deep       request another question round even if fields look covered
  --complete   finish refinement, dropping unanswered questions

The experience argument accepts a directory name, a date (2024-06, 2024-06-15),
a slug keyword or free text.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showPrompt, _ := cmd.Flags().GetBool("prompt")
		questionsJSON, _ := cmd.Flags().GetString("questions")
		deep, _ := cmd.Flags().GetBool("deep")
		complete, _ := cmd.Flags().GetBool("complete")

		repo := experience.NewRepository(projectRoot())
		exp, err := repo.FindOne(args[0])
		if err != nil {
			presenter.Error(err, "Failed to locate experience")
			os.Exit(1)
		}

		logger.G(cmd.Context()).WithField("experience", exp.Name).Debug("refining")

		// An explicit --prompt wins over every other flag; it is also the
		// default action. --deep forces another round either way.
		switch {
		case showPrompt:
			err = printRefinePrompt(repo, exp, deep)
		case questionsJSON != "":
			err = appendQuestions(repo, exp, questionsJSON)
		case complete:
			err = completeRefinement(repo, exp)
		default:
			err = printRefinePrompt(repo, exp, deep)
		}

		if err != nil {
			presenter.Error(err, "Failed to refine experience")
			os.Exit(1)
		}
	},
}

func init() {
	refineCmd.Flags().Bool("prompt", false, "Print the question-generation instruction")
	refineCmd.Flags().String("questions", "", "JSON array of questions from the agent")
	refineCmd.Flags().Bool("deep", false, "Force another question round")
	refineCmd.Flags().Bool("complete", false, "Finish refinement")
}

// workingDocument reads the version refinement operates on: refined when
// it exists, otherwise the draft.
func workingDocument(repo *experience.Repository, exp *experience.Experience) (markdown.Document, bool, error) {
	kind := experience.VersionDraft
	refined := exp.Has(experience.VersionRefined)
	if refined {
		kind = experience.VersionRefined
	}

	content, err := repo.Version(exp.Name, kind)
	if err != nil {
		return markdown.Document{}, false, err
	}

	doc, err := markdown.Parse(kind.Filename(), content)
	if err != nil {
		return markdown.Document{}, false, err
	}
	return doc, refined, nil
}

func printRefinePrompt(repo *experience.Repository, exp *experience.Experience, deep bool) error {
	doc, _, err := workingDocument(repo, exp)
	if err != nil {
		return err
	}

	// Only the free text before any Q&A block feeds the detectors
	body := doc.Body
	if section, ok := markdown.ExtractQASection(doc.Body); ok {
		body = section.Before
	}

	analysis := analyzer.AnalyzeDraft(body, doc.Meta)
	if deep {
		analysis.Sufficient = false
	}

	out, err := prompts.BuildRefinePrompt(analysis, body, exp.Name)
	if err != nil {
		return err
	}

	if out.Status == prompts.StatusSufficient {
		presenter.Success("Draft already covers every field, nothing to ask")
		presenter.Info("Use --deep to request another round anyway, or run 'resumate archive'")
		return nil
	}

	fmt.Println(out.Prompt)
	return nil
}

func appendQuestions(repo *experience.Repository, exp *experience.Experience, raw string) error {
	questions, err := prompts.ValidateDynamicQuestions([]byte(raw))
	if err != nil {
		return errors.Wrap(err, "invalid questions JSON")
	}
	if len(questions) == 0 {
		presenter.Info("No questions to add")
		return nil
	}

	doc, refined, err := workingDocument(repo, exp)
	if err != nil {
		return err
	}

	before := doc.Body
	var pairs []markdown.QAPair
	if section, ok := markdown.ExtractQASection(doc.Body); ok {
		before = section.Before
		pairs = markdown.ParseQAPairs(section.Block)
	}

	for _, q := range questions {
		pairs = append(pairs, markdown.QAPair{Question: q.Question})
	}

	body := markdown.SerializeQASection(before, pairs)
	content, err := markdown.Serialize(body, doc.Meta)
	if err != nil {
		return err
	}

	if refined {
		err = repo.UpdateRefined(exp.Name, content)
	} else {
		err = repo.AddRefined(exp.Name, content)
	}
	if err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Added %d question(s) to %s/refined.md", len(questions), exp.Name))
	presenter.Info("Answer them under each **A**: marker, then run 'resumate refine --complete' or 'resumate archive'")
	return nil
}

func completeRefinement(repo *experience.Repository, exp *experience.Experience) error {
	if !exp.Has(experience.VersionRefined) {
		return &experience.NotFoundError{Name: exp.Name, Version: experience.VersionRefined}
	}

	doc, _, err := workingDocument(repo, exp)
	if err != nil {
		return err
	}

	section, ok := markdown.ExtractQASection(doc.Body)
	if !ok {
		presenter.Info("No question rounds recorded; document is ready to archive")
		return nil
	}

	pairs := markdown.ParseQAPairs(section.Block)
	var answered []markdown.QAPair
	signal := false
	for _, pair := range pairs {
		if !pair.Answered() {
			continue
		}
		answered = append(answered, pair)
		if analyzer.HasCompletionSignal(*pair.Answer) {
			signal = true
		}
	}

	body := section.Before
	if len(answered) > 0 {
		body = markdown.SerializeQASection(section.Before, answered)
	}
	content, err := markdown.Serialize(body, doc.Meta)
	if err != nil {
		return err
	}
	if err := repo.UpdateRefined(exp.Name, content); err != nil {
		return err
	}

	dropped := len(pairs) - len(answered)
	presenter.Success(fmt.Sprintf("Refinement complete: %d answer(s) kept, %d unanswered question(s) dropped", len(answered), dropped))
	if signal {
		presenter.Info("A completion signal was found in the answers")
	}
	presenter.Info("Run 'resumate archive' to produce the final structured version")
	return nil
}
