package prompts

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/hyunjookim/resumate/pkg/analyzer"
)

// DynamicQuestion is one follow-up question returned by the collaborator
// during refinement.
type DynamicQuestion struct {
	Field    string `json:"field"`
	Question string `json:"question"`
	Reason   string `json:"reason"`
}

// ValidateDynamicQuestions is the sole gate on the refine reply. It
// rejects malformed JSON, a non-array top level, more questions than the
// cap, and items missing field or question; every rejection names the
// failing constraint.
func ValidateDynamicQuestions(raw []byte) ([]DynamicQuestion, error) {
	var questions []DynamicQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, errors.Wrap(err, "reply is not a JSON array of questions")
	}

	if len(questions) > maxQuestions {
		return nil, errors.Errorf("reply contains %d questions, maximum is %d", len(questions), maxQuestions)
	}

	for i, q := range questions {
		if q.Field == "" {
			return nil, errors.Errorf("question %d: missing \"field\"", i+1)
		}
		if q.Question == "" {
			return nil, errors.Errorf("question %d: missing \"question\"", i+1)
		}
	}

	return questions, nil
}

// Duration is the collaborator's interpretation of a natural-language
// period as an ISO date range.
type Duration struct {
	Original       string `json:"original"`
	Start          string `json:"start"`
	End            string `json:"end"`
	Interpretation string `json:"interpretation"`
}

// Technology pairs a source spelling with its canonical name.
type Technology struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
}

// Achievement pairs a source phrase with its resume-ready rewrite.
type Achievement struct {
	Original    string `json:"original"`
	ResumeReady string `json:"resumeReady"`
}

// QASummary is one annotated question/answer pair.
type QASummary struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Interpretation string `json:"interpretation"`
}

// Completeness is the collaborator's copy of the weighted assessment.
type Completeness struct {
	Score       int                            `json:"score"`
	Breakdown   map[string]analyzer.FieldScore `json:"breakdown"`
	Suggestions []string                       `json:"suggestions"`
}

// ArchiveContent is the structured document returned by the collaborator
// for archiving. Duration and Project stay nil when unknown.
type ArchiveContent struct {
	Title        string        `json:"title"`
	Duration     *Duration     `json:"duration"`
	Project      *string       `json:"project"`
	Technologies []Technology  `json:"technologies"`
	Achievements []Achievement `json:"achievements"`
	Learnings    *string       `json:"learnings"`
	Reflections  *string       `json:"reflections"`
	QASummary    []QASummary   `json:"qaSummary"`
	Completeness Completeness  `json:"completeness"`
	AIComments   string        `json:"aiComments"`
}

// ValidateStructuredArchiveContent is the sole gate on the archive reply.
// Rejections name the failing field. Optional fields get defaults: nil
// duration/project, empty lists, empty comments.
func ValidateStructuredArchiveContent(raw []byte) (*ArchiveContent, error) {
	var content ArchiveContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, errors.Wrap(err, "reply is not a JSON archive object")
	}

	if content.Title == "" {
		return nil, errors.New("missing \"title\"")
	}
	if content.Completeness.Score < 0 || content.Completeness.Score > 100 {
		return nil, errors.Errorf("\"completeness.score\" %d is outside [0,100]", content.Completeness.Score)
	}

	if content.Duration != nil {
		if content.Duration.Start == "" || content.Duration.End == "" {
			return nil, errors.New("\"duration\" must carry both \"start\" and \"end\" or be null")
		}
	}

	if content.Technologies == nil {
		content.Technologies = []Technology{}
	}
	if content.Achievements == nil {
		content.Achievements = []Achievement{}
	}
	if content.QASummary == nil {
		content.QASummary = []QASummary{}
	}
	if content.Completeness.Suggestions == nil {
		content.Completeness.Suggestions = []string{}
	}

	return &content, nil
}
