package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQABody = `# React 프로젝트

2024년 상반기 동안 진행한 프로젝트입니다.

---

## 추가 질문

### Q: 프로젝트 기간은 언제부터 언제까지였나요?

**A**: 2024년 2월부터 6월까지입니다.

### Q: 가장 큰 성과는 무엇이었나요?

**A**: ` + AnswerPlaceholder + `

### Q: 어떤 점을 배웠나요?

**A**: _` + AnswerPlaceholder + `_
`

func TestExtractQASection(t *testing.T) {
	section, ok := ExtractQASection(sampleQABody)
	require.True(t, ok)

	assert.Contains(t, section.Before, "# React 프로젝트")
	assert.NotContains(t, section.Before, "---")
	assert.Contains(t, section.Block, "### Q: 프로젝트 기간은")
	assert.NotContains(t, section.Block, QASectionHeader)
}

func TestExtractQASection_Absent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no separator", "# 제목\n\n내용"},
		{"separator without header", "# 제목\n\n---\n\n다른 내용"},
		{"header without separator", "# 제목\n\n" + QASectionHeader + "\n"},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ExtractQASection(tc.body)
			assert.False(t, ok)
		})
	}
}

func TestParseQAPairs(t *testing.T) {
	section, ok := ExtractQASection(sampleQABody)
	require.True(t, ok)

	pairs := ParseQAPairs(section.Block)
	require.Len(t, pairs, 3)

	assert.Equal(t, "프로젝트 기간은 언제부터 언제까지였나요?", pairs[0].Question)
	require.True(t, pairs[0].Answered())
	assert.Equal(t, "2024년 2월부터 6월까지입니다.", *pairs[0].Answer)

	// Bare placeholder is unanswered
	assert.False(t, pairs[1].Answered())

	// Italicized placeholder is unanswered too
	assert.False(t, pairs[2].Answered())
}

func TestParseQAPairs_NoQuestions(t *testing.T) {
	assert.Nil(t, ParseQAPairs("답변만 있고 질문이 없는 블록 **A**: 내용"))
	assert.Nil(t, ParseQAPairs(""))
}

func TestParseQAPairs_MissingAnswerMarker(t *testing.T) {
	block := "### Q: 답이 없는 질문?\n\n그냥 텍스트\n"

	pairs := ParseQAPairs(block)
	require.Len(t, pairs, 1)
	assert.False(t, pairs[0].Answered())
}

func TestSerializeQASection_RoundTrip(t *testing.T) {
	answer := "PostgreSQL 인덱스 튜닝"
	pairs := []QAPair{
		{Question: "어떤 기술을 사용했나요?", Answer: &answer},
		{Question: "성과는 무엇이었나요?"},
	}

	body := SerializeQASection("# 제목\n\n본문", pairs)

	section, ok := ExtractQASection(body)
	require.True(t, ok)

	parsed := ParseQAPairs(section.Block)
	require.Len(t, parsed, 2)
	assert.Equal(t, pairs[0].Question, parsed[0].Question)
	require.True(t, parsed[0].Answered())
	assert.Equal(t, answer, *parsed[0].Answer)
	assert.False(t, parsed[1].Answered())
}
