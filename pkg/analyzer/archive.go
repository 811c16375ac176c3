package analyzer

import (
	"strings"

	"github.com/hyunjookim/resumate/pkg/markdown"
)

// ArchiveAnalysis is the deterministic read of a refined document before
// the archive step. It never fails: whatever could not be extracted is
// simply empty.
type ArchiveAnalysis struct {
	Title           string            `json:"title"`
	Date            string            `json:"date"`
	OriginalContent string            `json:"originalContent"`
	QAPairs         []markdown.QAPair `json:"qaPairs"`
	Language        Language          `json:"language"`
	ExperienceType  ExperienceType    `json:"experienceType"`
	Metadata        markdown.Meta     `json:"-"`
}

// AnswerCount returns how many Q&A pairs carry a real answer.
func (a ArchiveAnalysis) AnswerCount() int {
	count := 0
	for _, pair := range a.QAPairs {
		if pair.Answered() {
			count++
		}
	}
	return count
}

// AnalyzeRefined extracts everything the archive step can determine
// without AI help: title (frontmatter wins over heading extraction), the
// Q&A pairs, and language/type classification of the non-Q&A body. A
// document without a Q&A section is treated as all original content with
// an empty pair list. Unparseable frontmatter degrades to an empty
// metadata map rather than an error; archiving is best-effort by design.
func AnalyzeRefined(content, date string) ArchiveAnalysis {
	doc, err := markdown.Parse("refined", content)
	if err != nil {
		doc = markdown.Document{Meta: markdown.Meta{}, Body: stripUnparseableFrontmatter(content)}
	}

	analysis := ArchiveAnalysis{
		Date:     date,
		Metadata: doc.Meta,
	}

	original := doc.Body
	if section, ok := markdown.ExtractQASection(doc.Body); ok {
		original = section.Before
		analysis.QAPairs = markdown.ParseQAPairs(section.Block)
	}
	analysis.OriginalContent = strings.TrimSpace(original)

	analysis.Title = doc.Meta.GetString("title")
	if analysis.Title == "" {
		analysis.Title = markdown.ExtractTitle(analysis.OriginalContent)
	}

	analysis.Language = DetectLanguage(analysis.OriginalContent)
	analysis.ExperienceType = DetectExperienceType(analysis.OriginalContent)

	return analysis
}

// stripUnparseableFrontmatter drops a leading `---` block whose YAML did
// not parse so the body heuristics still get clean text.
func stripUnparseableFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

// completionSignals are matched as case-insensitive substrings anywhere in
// an answer. Known to be blunt: an answer containing the English word
// "enough" counts as a completion request.
var completionSignals = []string{
	"done", "finished", "enough", "sufficient",
	"충분해", "충분합니다", "완료", "끝", "그만",
}

// HasCompletionSignal reports whether free text contains any completion
// signal word.
func HasCompletionSignal(text string) bool {
	lowered := strings.ToLower(text)
	for _, signal := range completionSignals {
		if strings.Contains(lowered, signal) {
			return true
		}
	}
	return false
}
