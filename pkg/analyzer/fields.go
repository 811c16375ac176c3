// Package analyzer implements the deterministic heuristics that decide
// what a diary-style experience note already contains: per-field presence
// detection, language and experience-type classification, and the weighted
// completeness score used when archiving.
//
// The detectors are data-driven pattern tables, not NLP. They exist to
// tell the external AI collaborator what not to re-ask; the judgment calls
// stay on the other side of the process boundary.
package analyzer

import (
	"regexp"

	"github.com/hyunjookim/resumate/pkg/markdown"
)

// Field is one of the six resume-relevant semantic fields detected in drafts.
type Field string

const (
	FieldDuration     Field = "duration"
	FieldAchievements Field = "achievements"
	FieldLearnings    Field = "learnings"
	FieldProject      Field = "project"
	FieldTechnologies Field = "technologies"
	FieldReflections  Field = "reflections"
)

// Fields enumerates all detectable fields in their canonical order.
// Suggestion and prompt rendering follow this order.
var Fields = []Field{
	FieldDuration,
	FieldAchievements,
	FieldLearnings,
	FieldProject,
	FieldTechnologies,
	FieldReflections,
}

// FieldDetection records one detected field with its confidence and the
// body excerpt that triggered the match.
type FieldDetection struct {
	Field      Field   `json:"field"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence,omitempty"`
}

const (
	metadataConfidence = 0.9
	bodyConfidence     = 0.7
	// PresenceThreshold is the minimum confidence for a field to count as present.
	PresenceThreshold = 0.5
	// evidenceContext is how many runes around a body match are kept as evidence.
	evidenceContext = 10
)

// fieldRule is the detection policy for one field: frontmatter key aliases
// checked first, then body regexes in order.
type fieldRule struct {
	metaKeys []string
	patterns []*regexp.Regexp
}

var fieldRules = map[Field]fieldRule{
	FieldDuration: {
		metaKeys: []string{"duration", "date", "start_date", "end_date", "period"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\d{4}년\s*\d{1,2}월부터`),
			regexp.MustCompile(`\d{1,2}월(부터|에서)\s*\d{1,2}월까지`),
			regexp.MustCompile(`\d{4}-\d{2}(-\d{2})?\s*(~|→|-)\s*\d{4}-\d{2}(-\d{2})?`),
			regexp.MustCompile(`\d+\s*(개월|주|년)\s*(동안|간)?`),
			regexp.MustCompile(`(?i)(from|since)\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s*\d{4}`),
			regexp.MustCompile(`(?i)for\s+\d+\s+(months?|weeks?|years?)`),
		},
	},
	FieldAchievements: {
		metaKeys: []string{"achievements", "results", "impact"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\d+(\.\d+)?%`),
			regexp.MustCompile(`\d+(\.\d+)?배`),
			regexp.MustCompile(`(성과|개선|달성|절감|향상|단축)(했|하였|을|를)?`),
			regexp.MustCompile(`(?i)(improved|reduced|increased|achieved|saved|optimized)`),
		},
	},
	FieldLearnings: {
		metaKeys: []string{"learnings", "lessons"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(배웠|배운\s*점|학습했|깨달았|깨달은|익혔)`),
			regexp.MustCompile(`(?i)(learned|learnings?|takeaway|lessons?)`),
		},
	},
	FieldProject: {
		metaKeys: []string{"project", "company", "role", "team"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(프로젝트|서비스|시스템)(를|을)?\s*(개발|구축|진행|운영|리뉴얼)`),
			regexp.MustCompile(`(?i)(project|built|developed|launched|shipped)`),
		},
	},
	FieldTechnologies: {
		metaKeys: []string{"technologies", "tech_stack", "stack", "tools"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(react|typescript|javascript|python|golang|java|kotlin|swift|node\.?js|spring|django|flask|kubernetes|docker|terraform|aws|gcp|azure|postgresql|mysql|mongodb|redis|kafka|graphql|elasticsearch)`),
			regexp.MustCompile(`기술\s*스택`),
		},
	},
	FieldReflections: {
		metaKeys: []string{"reflections", "retrospective"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(아쉬웠|아쉬운\s*점|다음에는|돌아보(면|니)|회고)`),
			regexp.MustCompile(`(?i)(in hindsight|next time|retrospect|would have done)`),
		},
	},
}

// DetectField checks the frontmatter aliases for the field first, then the
// ordered body patterns. A metadata hit yields confidence 0.9; a body match
// yields 0.7 with a short excerpt as evidence. ok is false when nothing
// matched.
func DetectField(field Field, body string, meta markdown.Meta) (FieldDetection, bool) {
	rule, known := fieldRules[field]
	if !known {
		return FieldDetection{}, false
	}

	for _, key := range rule.metaKeys {
		if meta.Has(key) {
			return FieldDetection{
				Field:      field,
				Confidence: metadataConfidence,
				Evidence:   key,
			}, true
		}
	}

	for _, pattern := range rule.patterns {
		loc := pattern.FindStringIndex(body)
		if loc == nil {
			continue
		}
		return FieldDetection{
			Field:      field,
			Confidence: bodyConfidence,
			Evidence:   excerpt(body, loc[0], loc[1]),
		}, true
	}

	return FieldDetection{}, false
}

// excerpt returns the matched text with up to evidenceContext runes of
// surrounding context on each side.
func excerpt(body string, start, end int) string {
	runes := []rune(body)
	// byte offsets → rune offsets
	rstart := len([]rune(body[:start]))
	rend := len([]rune(body[:end]))

	from := rstart - evidenceContext
	if from < 0 {
		from = 0
	}
	to := rend + evidenceContext
	if to > len(runes) {
		to = len(runes)
	}

	return string(runes[from:to])
}

// DraftAnalysis is the outcome of analyzing a draft body plus frontmatter.
type DraftAnalysis struct {
	Detections     []FieldDetection `json:"detections"`
	PresentFields  []Field          `json:"presentFields"`
	MissingFields  []Field          `json:"missingFields"`
	Sufficient     bool             `json:"sufficient"`
	Language       Language         `json:"language"`
	ExperienceType ExperienceType   `json:"experienceType"`
}

// AnalyzeDraft runs all field detectors plus language and experience-type
// classification over a draft.
func AnalyzeDraft(body string, meta markdown.Meta) DraftAnalysis {
	analysis := DraftAnalysis{
		Language:       DetectLanguage(body),
		ExperienceType: DetectExperienceType(body),
	}

	for _, field := range Fields {
		detection, ok := DetectField(field, body, meta)
		if ok && detection.Confidence >= PresenceThreshold {
			analysis.Detections = append(analysis.Detections, detection)
			analysis.PresentFields = append(analysis.PresentFields, field)
		} else {
			analysis.MissingFields = append(analysis.MissingFields, field)
		}
	}

	analysis.Sufficient = len(analysis.MissingFields) == 0
	return analysis
}
