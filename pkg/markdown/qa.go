package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// QASectionHeader delimits the refinement Q&A block inside a document body.
	QASectionHeader = "## 추가 질문"

	// AnswerPlaceholder is the literal text left under an unanswered question.
	AnswerPlaceholder = "여기에 답변을 작성해주세요"
)

// QAPair is one question/answer entry in the Q&A section. Answer is nil
// while the question is unanswered (missing or still the placeholder).
type QAPair struct {
	Question string
	Answer   *string
}

// Answered reports whether the pair has a real answer.
func (p QAPair) Answered() bool {
	return p.Answer != nil
}

// QASection is the split of a body around the Q&A block.
type QASection struct {
	Before string // content before the separator, trimmed
	Block  string // content after the header line, trimmed
}

var (
	questionPattern = regexp.MustCompile(`(?m)^### Q: (.+)$`)
	answerPattern   = regexp.MustCompile(`(?s)\*\*A\*\*:\s*(.*)`)
)

// ExtractQASection looks for a body-level `---` separator followed by the
// Q&A header. Absence of either is not an error; ok is false and the
// caller treats the document as having no Q&A yet.
func ExtractQASection(body string) (QASection, bool) {
	lines := strings.Split(body, "\n")

	sepIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == frontmatterDelimiter {
			sepIdx = i
			break
		}
	}
	if sepIdx == -1 {
		return QASection{}, false
	}

	headerIdx := -1
	for i := sepIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == QASectionHeader {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return QASection{}, false
	}

	return QASection{
		Before: strings.TrimSpace(strings.Join(lines[:sepIdx], "\n")),
		Block:  strings.TrimSpace(strings.Join(lines[headerIdx+1:], "\n")),
	}, true
}

// ParseQAPairs splits a Q&A block into ordered pairs. Each `### Q:` line
// starts a question; the `**A**:` text that follows (up to the next
// question or end of block) is its answer. Placeholder answers are
// normalized to unanswered.
func ParseQAPairs(block string) []QAPair {
	matches := questionPattern.FindAllStringSubmatchIndex(block, -1)
	if matches == nil {
		return nil
	}

	pairs := make([]QAPair, 0, len(matches))
	for i, m := range matches {
		question := strings.TrimSpace(block[m[2]:m[3]])

		segEnd := len(block)
		if i+1 < len(matches) {
			segEnd = matches[i+1][0]
		}
		segment := block[m[1]:segEnd]

		pairs = append(pairs, QAPair{
			Question: question,
			Answer:   parseAnswer(segment),
		})
	}

	return pairs
}

func parseAnswer(segment string) *string {
	m := answerPattern.FindStringSubmatch(segment)
	if m == nil {
		return nil
	}

	answer := strings.TrimSpace(m[1])
	answer = strings.Trim(answer, "_")
	answer = strings.TrimSpace(answer)

	if answer == "" || answer == AnswerPlaceholder {
		return nil
	}
	return &answer
}

// SerializeQASection renders a body with an appended Q&A block. Unanswered
// pairs get the placeholder so the user can fill them in place.
func SerializeQASection(before string, pairs []QAPair) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(before))
	sb.WriteString("\n\n")
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n\n")
	sb.WriteString(QASectionHeader)
	sb.WriteString("\n")

	for _, pair := range pairs {
		answer := AnswerPlaceholder
		if pair.Answer != nil {
			answer = *pair.Answer
		}
		sb.WriteString(fmt.Sprintf("\n### Q: %s\n\n**A**: %s\n", pair.Question, answer))
	}

	return sb.String()
}
