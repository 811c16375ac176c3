package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunjookim/resumate/pkg/markdown"
)

func TestAnalyzeDraft_MixedSources(t *testing.T) {
	body := "2024년 2월부터 6월까지 React, TypeScript를 사용하여 프로젝트를 진행했습니다"
	meta := markdown.Meta{"company": "TechCorp"}

	analysis := AnalyzeDraft(body, meta)

	assert.ElementsMatch(t,
		[]Field{FieldDuration, FieldTechnologies, FieldProject},
		analysis.PresentFields)
	assert.ElementsMatch(t,
		[]Field{FieldAchievements, FieldLearnings, FieldReflections},
		analysis.MissingFields)
	assert.False(t, analysis.Sufficient)
}

func TestDetectField_MetadataBeatsBody(t *testing.T) {
	body := "2024년 2월부터 일했습니다"
	meta := markdown.Meta{"period": "2024-02 ~ 2024-06"}

	detection, ok := DetectField(FieldDuration, body, meta)
	require.True(t, ok)
	assert.Equal(t, metadataConfidence, detection.Confidence)
	assert.Equal(t, "period", detection.Evidence)
}

func TestDetectField_BodyMatchCarriesEvidence(t *testing.T) {
	body := "이번 분기에 응답 시간을 30% 단축했습니다. 많이 배웠습니다."

	detection, ok := DetectField(FieldAchievements, body, markdown.Meta{})
	require.True(t, ok)
	assert.Equal(t, bodyConfidence, detection.Confidence)
	assert.Contains(t, detection.Evidence, "30%")
}

func TestDetectField_EmptyMetadataValueIgnored(t *testing.T) {
	meta := markdown.Meta{"achievements": ""}

	_, ok := DetectField(FieldAchievements, "특별한 내용 없음", meta)
	assert.False(t, ok)
}

func TestDetectField_NoMatch(t *testing.T) {
	_, ok := DetectField(FieldReflections, "오늘은 출근했다", markdown.Meta{})
	assert.False(t, ok)
}

func TestAnalyzeDraft_AllFieldsPresent(t *testing.T) {
	body := `2024년 2월부터 6월까지 결제 서비스를 개발했습니다.
Go와 PostgreSQL을 사용했고 응답 시간을 40% 단축하는 성과를 달성했습니다.
인덱스 설계에 대해 많이 배웠습니다. 돌아보면 테스트를 더 일찍 썼어야 해서 아쉬웠습니다.`

	analysis := AnalyzeDraft(body, markdown.Meta{})

	assert.True(t, analysis.Sufficient)
	assert.Empty(t, analysis.MissingFields)
	assert.Len(t, analysis.PresentFields, len(Fields))
}

func TestAnalyzeDraft_EnglishBody(t *testing.T) {
	body := "From February 2024 I developed a billing project with React and improved latency."

	analysis := AnalyzeDraft(body, markdown.Meta{})

	assert.Contains(t, analysis.PresentFields, FieldDuration)
	assert.Contains(t, analysis.PresentFields, FieldTechnologies)
	assert.Contains(t, analysis.PresentFields, FieldProject)
	assert.Contains(t, analysis.PresentFields, FieldAchievements)
	assert.Equal(t, LanguageEnglish, analysis.Language)
}
