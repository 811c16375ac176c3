package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullFields() CompletenessFields {
	return CompletenessFields{
		Title:         "결제 시스템 개선",
		DurationStart: "2024-02-01",
		DurationEnd:   "2024-06-30",
		Project:       "TechCorp 결제팀",
		Technologies:  []string{"Go", "PostgreSQL", "Redis", "Kafka"},
		Achievements:  []string{"응답 시간 30% 단축"},
		Learnings:     "대규모 트래픽 환경에서의 인덱스 설계와 커넥션 풀 튜닝에 대해 깊이 있게 학습했습니다",
		Reflections:   "부하 테스트를 더 일찍 시작했어야 했다",
	}
}

func TestCalculateCompleteness_EmptyScoresZero(t *testing.T) {
	assessment := CalculateCompleteness(CompletenessFields{})

	assert.Equal(t, 0, assessment.Score)
	assert.Len(t, assessment.Suggestions, 7)
	for _, score := range assessment.Breakdown {
		assert.False(t, score.Present)
		assert.Zero(t, score.Quality)
	}
}

func TestCalculateCompleteness_FullQuality(t *testing.T) {
	assessment := CalculateCompleteness(fullFields())

	assert.Equal(t, 100, assessment.Score)
	assert.Empty(t, assessment.Suggestions)
}

func TestCalculateCompleteness_WeightsSumTo100(t *testing.T) {
	total := 0
	for _, weight := range CompletenessWeights {
		total += weight
	}
	assert.Equal(t, 100, total)
}

func TestCalculateCompleteness_QualityRules(t *testing.T) {
	t.Run("duration needs both ends for full quality", func(t *testing.T) {
		partial := CalculateCompleteness(CompletenessFields{DurationStart: "2024-02-01"})
		assert.Equal(t, baseQuality, partial.Breakdown["duration"].Quality)

		full := CalculateCompleteness(CompletenessFields{
			DurationStart: "2024-02-01", DurationEnd: "2024-06-30",
		})
		assert.Equal(t, fullQuality, full.Breakdown["duration"].Quality)
	})

	t.Run("achievements need a quantitative phrase", func(t *testing.T) {
		vague := CalculateCompleteness(CompletenessFields{
			Achievements: []string{"성능을 개선했습니다"},
		})
		assert.Equal(t, baseQuality, vague.Breakdown["achievements"].Quality)
		assert.Contains(t, vague.Suggestions, fieldSuggestions["achievements"])

		quantified := CalculateCompleteness(CompletenessFields{
			Achievements: []string{"처리량을 3배 높였습니다"},
		})
		assert.Equal(t, fullQuality, quantified.Breakdown["achievements"].Quality)
	})

	t.Run("technologies need more than three entries", func(t *testing.T) {
		few := CalculateCompleteness(CompletenessFields{Technologies: []string{"Go", "Redis"}})
		assert.Equal(t, baseQuality, few.Breakdown["technologies"].Quality)

		many := CalculateCompleteness(CompletenessFields{
			Technologies: []string{"Go", "Redis", "Kafka", "PostgreSQL"},
		})
		assert.Equal(t, fullQuality, many.Breakdown["technologies"].Quality)
	})

	t.Run("learnings need substance", func(t *testing.T) {
		short := CalculateCompleteness(CompletenessFields{Learnings: "배웠다"})
		assert.Equal(t, baseQuality, short.Breakdown["learnings"].Quality)

		long := CalculateCompleteness(CompletenessFields{Learnings: fullFields().Learnings})
		assert.Equal(t, fullQuality, long.Breakdown["learnings"].Quality)
	})
}

func TestCalculateCompleteness_Monotonic(t *testing.T) {
	fields := CompletenessFields{}
	previous := CalculateCompleteness(fields).Score

	steps := []func(*CompletenessFields){
		func(f *CompletenessFields) { f.Title = "제목" },
		func(f *CompletenessFields) { f.DurationStart = "2024-02-01" },
		func(f *CompletenessFields) { f.DurationEnd = "2024-06-30" },
		func(f *CompletenessFields) { f.Achievements = []string{"30% 개선"} },
		func(f *CompletenessFields) { f.Technologies = []string{"Go", "Redis", "Kafka", "PostgreSQL"} },
		func(f *CompletenessFields) { f.Learnings = fullFields().Learnings },
		func(f *CompletenessFields) { f.Project = "결제팀" },
		func(f *CompletenessFields) { f.Reflections = "아쉬운 점" },
	}

	for i, step := range steps {
		step(&fields)
		score := CalculateCompleteness(fields).Score
		require.GreaterOrEqual(t, score, previous, "step %d decreased the score", i)
		previous = score
	}

	assert.GreaterOrEqual(t, previous, 90)
}

func TestCalculateCompleteness_SuggestionOrderIsFixed(t *testing.T) {
	assessment := CalculateCompleteness(CompletenessFields{})

	want := []string{
		fieldSuggestions["title"],
		fieldSuggestions["duration"],
		fieldSuggestions["achievements"],
		fieldSuggestions["technologies"],
		fieldSuggestions["learnings"],
		fieldSuggestions["project"],
		fieldSuggestions["reflections"],
	}
	assert.Equal(t, want, assessment.Suggestions)
}
