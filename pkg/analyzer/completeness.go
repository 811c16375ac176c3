package analyzer

import (
	"math"
	"regexp"
)

// CompletenessFields carries the extracted field values scored by
// CalculateCompleteness.
type CompletenessFields struct {
	Title         string
	DurationStart string
	DurationEnd   string
	Project       string
	Technologies  []string
	Achievements  []string
	Learnings     string
	Reflections   string
}

// FieldScore is one entry in a completeness breakdown.
type FieldScore struct {
	Present bool    `json:"present"`
	Weight  int     `json:"weight"`
	Quality float64 `json:"qualityScore"`
}

// CompletenessAssessment is the weighted 0-100 completeness result.
type CompletenessAssessment struct {
	Score       int                   `json:"score"`
	Breakdown   map[string]FieldScore `json:"breakdown"`
	Suggestions []string              `json:"suggestions"`
}

// CompletenessWeights is the fixed scoring table; weights sum to 100.
// Exported because the archive prompt states the same table to the
// external collaborator.
var CompletenessWeights = map[string]int{
	"title":        10,
	"duration":     20,
	"achievements": 25,
	"technologies": 15,
	"learnings":    15,
	"project":      10,
	"reflections":  5,
}

// CompletenessFieldOrder fixes the advisory and rendering order
// regardless of weight.
var CompletenessFieldOrder = []string{
	"title", "duration", "achievements", "technologies",
	"learnings", "project", "reflections",
}

var fieldSuggestions = map[string]string{
	"title":        "제목을 추가해주세요 (예: 프로젝트 이름이나 한 줄 요약)",
	"duration":     "기간을 추가해주세요 (시작일과 종료일)",
	"achievements": "정량적인 성과를 추가해주세요 (예: 응답 시간 30% 단축)",
	"technologies": "사용한 기술 스택을 추가해주세요",
	"learnings":    "배운 점을 구체적으로 적어주세요",
	"project":      "프로젝트 또는 소속 정보를 추가해주세요",
	"reflections":  "회고나 아쉬웠던 점을 추가해주세요",
}

const (
	baseQuality = 0.7
	fullQuality = 1.0
	// learnings shorter than this stay at base quality
	substantialLearningsLen = 50
	// more technologies than this earn full quality
	richTechnologiesCount = 3
)

// quantitativePattern marks an achievement as measurable.
var quantitativePattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?%|\d+(\.\d+)?배|\d+(\.\d+)?\s*times|\d+x)`)

// CalculateCompleteness scores the supplied fields against the fixed
// weight table. Each present field starts at quality 0.7 and is promoted
// to 1.0 by the per-field quality rules; absent fields score 0.
func CalculateCompleteness(fields CompletenessFields) CompletenessAssessment {
	breakdown := map[string]FieldScore{
		"title":        binaryScore("title", fields.Title != ""),
		"project":      binaryScore("project", fields.Project != ""),
		"reflections":  binaryScore("reflections", fields.Reflections != ""),
		"duration":     durationScore(fields.DurationStart, fields.DurationEnd),
		"achievements": achievementsScore(fields.Achievements),
		"technologies": technologiesScore(fields.Technologies),
		"learnings":    learningsScore(fields.Learnings),
	}

	var weighted, totalWeight float64
	for name, score := range breakdown {
		weighted += float64(score.Weight) * score.Quality
		totalWeight += float64(CompletenessWeights[name])
	}

	assessment := CompletenessAssessment{
		Score:     int(math.Round(100 * weighted / totalWeight)),
		Breakdown: breakdown,
	}

	for _, name := range CompletenessFieldOrder {
		score := breakdown[name]
		needsWork := !score.Present
		if name == "achievements" && score.Present && score.Quality < fullQuality {
			needsWork = true
		}
		if needsWork {
			assessment.Suggestions = append(assessment.Suggestions, fieldSuggestions[name])
		}
	}

	return assessment
}

func binaryScore(name string, present bool) FieldScore {
	score := FieldScore{Present: present, Weight: CompletenessWeights[name]}
	if present {
		score.Quality = fullQuality
	}
	return score
}

func durationScore(start, end string) FieldScore {
	score := FieldScore{Weight: CompletenessWeights["duration"]}
	switch {
	case start != "" && end != "":
		score.Present = true
		score.Quality = fullQuality
	case start != "" || end != "":
		score.Present = true
		score.Quality = baseQuality
	}
	return score
}

func achievementsScore(achievements []string) FieldScore {
	score := FieldScore{Weight: CompletenessWeights["achievements"]}
	if len(achievements) == 0 {
		return score
	}

	score.Present = true
	score.Quality = baseQuality
	for _, achievement := range achievements {
		if quantitativePattern.MatchString(achievement) {
			score.Quality = fullQuality
			break
		}
	}
	return score
}

func technologiesScore(technologies []string) FieldScore {
	score := FieldScore{Weight: CompletenessWeights["technologies"]}
	if len(technologies) == 0 {
		return score
	}

	score.Present = true
	if len(technologies) > richTechnologiesCount {
		score.Quality = fullQuality
	} else {
		score.Quality = baseQuality
	}
	return score
}

func learningsScore(learnings string) FieldScore {
	score := FieldScore{Weight: CompletenessWeights["learnings"]}
	if learnings == "" {
		return score
	}

	score.Present = true
	if len([]rune(learnings)) > substantialLearningsLen {
		score.Quality = fullQuality
	} else {
		score.Quality = baseQuality
	}
	return score
}
