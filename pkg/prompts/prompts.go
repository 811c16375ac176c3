// Package prompts is the adapter at the AI process boundary. It renders
// natural-language instructions for the external collaborator and
// validates the JSON replies that come back. Both directions are pure:
// no file I/O, no embedded judgment, just templates out and strict shape
// checks in.
package prompts

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/hyunjookim/resumate/pkg/analyzer"
)

// maxQuestions caps how many follow-up questions one refine round may ask.
const maxQuestions = 6

// Status of a refine prompt build.
type Status string

const (
	// StatusSufficient means the draft already covers every field and no
	// prompt is needed.
	StatusSufficient Status = "sufficient"
	// StatusPrompt means a rendered instruction accompanies the output.
	StatusPrompt Status = "prompt"
)

// RefineOutput is the result of building a refine prompt.
type RefineOutput struct {
	Status Status `json:"status"`
	Prompt string `json:"prompt,omitempty"`
}

// typeGuidance is the per-experience-type angle the collaborator should
// probe from. Keyed by the classifier's output; general gets no block.
var typeGuidance = map[analyzer.ExperienceType]string{
	analyzer.TypeTechnicalProject: "기술 프로젝트입니다. 기술 선택의 이유, 아키텍처 결정, 성능 수치 중심으로 질문해주세요.",
	analyzer.TypeLeadership:       "리더십 경험입니다. 팀 규모, 의사결정 과정, 갈등 해결 사례 중심으로 질문해주세요.",
	analyzer.TypeLearning:         "학습 경험입니다. 학습 동기, 적용 사례, 이전과 달라진 점 중심으로 질문해주세요.",
	analyzer.TypeJob:              "업무 경험입니다. 담당 역할, 협업 방식, 비즈니스 임팩트 중심으로 질문해주세요.",
}

var refineTemplate = template.Must(template.New("refine").Funcs(templateFuncs).Parse(`다음은 사용자가 작성한 경험 초안입니다 ({{.Name}}).

## 초안
{{.Draft}}

## 이미 파악된 정보 (다시 묻지 마세요)
{{- if .PresentFields}}
{{- range .PresentFields}}
- {{.}}
{{- end}}
{{- else}}
- 없음
{{- end}}

## 부족한 정보
{{- range .MissingFields}}
- {{.}}
{{- end}}
{{if .Guidance}}
## 질문 방향
{{.Guidance}}
{{end}}
## 출력 형식
부족한 정보를 채우기 위한 질문을 최대 {{.MaxQuestions}}개까지, 아래 JSON 배열 형식으로만 출력해주세요.
다른 텍스트 없이 JSON만 출력합니다.

[
  {"field": "<부족한 필드명>", "question": "<사용자에게 할 질문>", "reason": "<이 질문이 필요한 이유>"}
]`))

// refineData is the template context for a refine prompt.
type refineData struct {
	Name          string
	Draft         string
	PresentFields []analyzer.Field
	MissingFields []analyzer.Field
	Guidance      string
	MaxQuestions  int
}

// BuildRefinePrompt turns a draft analysis into collaborator instructions.
// A draft with nothing missing short-circuits to a sufficient status with
// no prompt text. Missing fields beyond the question cap are dropped.
func BuildRefinePrompt(analysis analyzer.DraftAnalysis, draft, name string) (RefineOutput, error) {
	if analysis.Sufficient {
		return RefineOutput{Status: StatusSufficient}, nil
	}

	missing := analysis.MissingFields
	if len(missing) > maxQuestions {
		missing = missing[:maxQuestions]
	}

	data := refineData{
		Name:          name,
		Draft:         strings.TrimSpace(draft),
		PresentFields: analysis.PresentFields,
		MissingFields: missing,
		Guidance:      typeGuidance[analysis.ExperienceType],
		MaxQuestions:  maxQuestions,
	}

	var out strings.Builder
	if err := refineTemplate.Execute(&out, data); err != nil {
		return RefineOutput{}, errors.Wrap(err, "failed to render refine prompt")
	}

	return RefineOutput{Status: StatusPrompt, Prompt: out.String()}, nil
}

// techAlias is one row of the normalization table shown to the collaborator.
type techAlias struct {
	Alias     string
	Canonical string
}

// techAliases maps common bilingual spellings to canonical technology
// names. The normalization itself happens on the collaborator's side; this
// table just anchors it.
var techAliases = []techAlias{
	{"리액트", "React"},
	{"타입스크립트, ts", "TypeScript"},
	{"자바스크립트, js", "JavaScript"},
	{"파이썬", "Python"},
	{"고랭, golang", "Go"},
	{"쿠버네티스, k8s", "Kubernetes"},
	{"도커", "Docker"},
	{"스프링", "Spring"},
	{"노드, node", "Node.js"},
	{"포스트그레스, postgres", "PostgreSQL"},
	{"몽고", "MongoDB"},
	{"람다", "AWS Lambda"},
}

var archiveTemplate = template.Must(template.New("archive").Funcs(templateFuncs).Parse(`다음 경험 문서 ({{.Name}})를 이력서에 바로 쓸 수 있는 구조화된 데이터로 변환해주세요.

## 원본 내용
{{.Original}}

{{- if .QAPairs}}

## 질문과 답변
{{- range .QAPairs}}
Q: {{.Question}}
A: {{if .Answered}}{{deref .Answer}}{{else}}(미답변){{end}}
{{- end}}
{{- end}}

## 작업 지침
1. 기술 이름은 아래 표를 참고해 공식 표기로 정규화해주세요. 표에 없는 기술도 공식 표기를 사용합니다.
{{- range .Aliases}}
   - {{.Alias}} → {{.Canonical}}
{{- end}}
2. 모호한 성과 표현은 가능한 한 정량적인 문장으로 다듬어주세요 (예: "많이 빨라졌다" → 답변에 근거한 수치).
3. 자연어로 쓰인 기간을 ISO 형식(YYYY-MM-DD)의 start/end로 해석하고, 해석 근거를 interpretation에 적어주세요. 기간 정보가 전혀 없으면 duration을 null로 둡니다.
4. 각 질문/답변 쌍에 대해 답변을 어떻게 해석했는지 interpretation을 달아주세요.
5. 완성도 점수를 계산해주세요. 가중치: {{range $i, $w := .Weights}}{{if $i}}, {{end}}{{$w.Name}} {{$w.Weight}}{{end}} (합 100). 각 필드는 존재하면 기본 품질 0.7, 품질 조건 충족 시 1.0입니다.
6. 변환 과정에서 판단한 내용이나 사용자에게 전할 말은 aiComments에 적어주세요.

## 출력 형식
아래 스키마의 JSON 객체 하나만 출력해주세요. 다른 텍스트는 출력하지 않습니다.

{
  "title": "<이력서용 제목>",
  "duration": {"original": "<원문 표현>", "start": "YYYY-MM-DD", "end": "YYYY-MM-DD", "interpretation": "<해석 근거>"} | null,
  "project": "<프로젝트/소속>" | null,
  "technologies": [{"original": "<원문 표기>", "normalized": "<공식 표기>"}],
  "achievements": [{"original": "<원문 문장>", "resumeReady": "<이력서용 문장>"}],
  "learnings": "<배운 점>" | null,
  "reflections": "<회고>" | null,
  "qaSummary": [{"question": "<질문>", "answer": "<답변>", "interpretation": "<해석>"}],
  "completeness": {"score": <0-100>, "breakdown": {"<필드>": {"present": bool, "weight": int, "qualityScore": float}}, "suggestions": ["<보완 제안>"]},
  "aiComments": "<자유 코멘트>"
}`))

// weightEntry renders one completeness weight in the archive instruction.
type weightEntry struct {
	Name   string
	Weight int
}

// archiveData is the template context for an archive prompt.
type archiveData struct {
	Name     string
	Original string
	QAPairs  []qaView
	Aliases  []techAlias
	Weights  []weightEntry
}

type qaView struct {
	Question string
	Answer   *string
	Answered bool
}

var templateFuncs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// BuildArchivePrompt renders the structuring instruction for a refined
// document: technology normalization, achievement quantification, duration
// interpretation, Q&A annotation, completeness scoring and free commentary,
// returned as one JSON object.
func BuildArchivePrompt(analysis analyzer.ArchiveAnalysis, name string) (string, error) {
	pairs := make([]qaView, len(analysis.QAPairs))
	for i, pair := range analysis.QAPairs {
		pairs[i] = qaView{Question: pair.Question, Answer: pair.Answer, Answered: pair.Answered()}
	}

	data := archiveData{
		Name:     name,
		Original: analysis.OriginalContent,
		QAPairs:  pairs,
		Aliases:  techAliases,
		Weights:  completenessWeightTable(),
	}

	var out strings.Builder
	if err := archiveTemplate.Execute(&out, data); err != nil {
		return "", errors.Wrap(err, "failed to render archive prompt")
	}
	return out.String(), nil
}

func completenessWeightTable() []weightEntry {
	entries := make([]weightEntry, 0, len(analyzer.CompletenessWeights))
	for _, name := range analyzer.CompletenessFieldOrder {
		entries = append(entries, weightEntry{Name: name, Weight: analyzer.CompletenessWeights[name]})
	}
	return entries
}
