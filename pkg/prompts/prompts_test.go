package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunjookim/resumate/pkg/analyzer"
	"github.com/hyunjookim/resumate/pkg/markdown"
)

func TestBuildRefinePrompt_Sufficient(t *testing.T) {
	out, err := BuildRefinePrompt(analyzer.DraftAnalysis{Sufficient: true}, "draft", "2024-06-15-x")
	require.NoError(t, err)
	assert.Equal(t, StatusSufficient, out.Status)
	assert.Empty(t, out.Prompt)
}

func TestBuildRefinePrompt_RendersMissingAndKnown(t *testing.T) {
	analysis := analyzer.DraftAnalysis{
		PresentFields:  []analyzer.Field{analyzer.FieldDuration},
		MissingFields:  []analyzer.Field{analyzer.FieldAchievements, analyzer.FieldTechnologies},
		ExperienceType: analyzer.TypeTechnicalProject,
	}

	out, err := BuildRefinePrompt(analysis, "결제 모듈을 리팩토링했다.", "2024-06-15-payment")
	require.NoError(t, err)
	assert.Equal(t, StatusPrompt, out.Status)

	assert.Contains(t, out.Prompt, "결제 모듈을 리팩토링했다.")
	assert.Contains(t, out.Prompt, "duration")
	assert.Contains(t, out.Prompt, "achievements")
	assert.Contains(t, out.Prompt, "technologies")
	assert.Contains(t, out.Prompt, "기술 프로젝트입니다")
	assert.Contains(t, out.Prompt, `{"field": "<부족한 필드명>"`)
}

func TestBuildRefinePrompt_CapsMissingFields(t *testing.T) {
	analysis := analyzer.DraftAnalysis{
		MissingFields: append([]analyzer.Field{"extra"}, analyzer.Fields...),
	}

	out, err := BuildRefinePrompt(analysis, "draft", "2024-06-15-x")
	require.NoError(t, err)

	// Seven missing fields, only the first six survive
	assert.NotContains(t, out.Prompt, string(analyzer.FieldReflections))
	assert.Contains(t, out.Prompt, "최대 6개")
}

func TestBuildRefinePrompt_GeneralTypeHasNoGuidance(t *testing.T) {
	analysis := analyzer.DraftAnalysis{
		MissingFields:  []analyzer.Field{analyzer.FieldDuration},
		ExperienceType: analyzer.TypeGeneral,
	}

	out, err := BuildRefinePrompt(analysis, "draft", "2024-06-15-x")
	require.NoError(t, err)
	assert.NotContains(t, out.Prompt, "질문 방향")
}

func TestBuildArchivePrompt(t *testing.T) {
	answer := "3개월 걸렸어요"
	analysis := analyzer.ArchiveAnalysis{
		OriginalContent: "리액트로 대시보드를 만들었다.",
		QAPairs: []markdown.QAPair{
			{Question: "기간이 얼마나 걸렸나요?", Answer: &answer},
			{Question: "성과는 무엇인가요?"},
		},
	}

	prompt, err := BuildArchivePrompt(analysis, "2024-06-15-dashboard")
	require.NoError(t, err)

	assert.Contains(t, prompt, "리액트로 대시보드를 만들었다.")
	assert.Contains(t, prompt, "Q: 기간이 얼마나 걸렸나요?")
	assert.Contains(t, prompt, "A: 3개월 걸렸어요")
	assert.Contains(t, prompt, "(미답변)")
	assert.Contains(t, prompt, "리액트 → React")
	assert.Contains(t, prompt, "achievements 25")
	assert.Contains(t, prompt, `"aiComments"`)
}

func TestBuildArchivePrompt_NoQASection(t *testing.T) {
	prompt, err := BuildArchivePrompt(analyzer.ArchiveAnalysis{OriginalContent: "content"}, "2024-06-15-x")
	require.NoError(t, err)
	assert.NotContains(t, prompt, "질문과 답변")
}

func TestValidateDynamicQuestions(t *testing.T) {
	valid := `[{"field":"duration","question":"기간은?","reason":"기간 정보가 없음"}]`
	questions, err := ValidateDynamicQuestions([]byte(valid))
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "duration", questions[0].Field)

	empty, err := ValidateDynamicQuestions([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestValidateDynamicQuestions_Rejections(t *testing.T) {
	item := `{"field":"f","question":"q","reason":"r"}`
	seven := "[" + strings.Repeat(item+",", 6) + item + "]"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"malformed", `not json`, "not a JSON array"},
		{"object top level", `{"field":"f"}`, "not a JSON array"},
		{"seven questions", seven, "maximum is 6"},
		{"missing field", `[{"question":"q"}]`, `missing "field"`},
		{"missing question", `[{"field":"f"}]`, `missing "question"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDynamicQuestions([]byte(tc.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateStructuredArchiveContent(t *testing.T) {
	raw := `{
		"title": "결제 모듈 리팩토링",
		"duration": {"original": "3개월", "start": "2024-03-01", "end": "2024-06-01", "interpretation": "답변 기준"},
		"technologies": [{"original": "리액트", "normalized": "React"}],
		"achievements": [{"original": "빨라졌다", "resumeReady": "응답 시간 30% 단축"}],
		"completeness": {"score": 85, "breakdown": {}, "suggestions": ["회고 추가"]}
	}`

	content, err := ValidateStructuredArchiveContent([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "결제 모듈 리팩토링", content.Title)
	require.NotNil(t, content.Duration)
	assert.Equal(t, "2024-03-01", content.Duration.Start)
	assert.Nil(t, content.Project)
	assert.Nil(t, content.Learnings)
	assert.Equal(t, 85, content.Completeness.Score)
	assert.Empty(t, content.AIComments)

	// Omitted lists default to empty, never nil
	assert.NotNil(t, content.QASummary)
	assert.Empty(t, content.QASummary)
}

func TestValidateStructuredArchiveContent_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"malformed", `{`, "not a JSON archive object"},
		{"array top level", `[]`, "not a JSON archive object"},
		{"missing title", `{"completeness":{"score":50}}`, `missing "title"`},
		{"score too high", `{"title":"t","completeness":{"score":101}}`, "outside [0,100]"},
		{"score negative", `{"title":"t","completeness":{"score":-1}}`, "outside [0,100]"},
		{"half duration", `{"title":"t","duration":{"start":"2024-01-01"},"completeness":{"score":50}}`, `"start" and "end"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateStructuredArchiveContent([]byte(tc.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
