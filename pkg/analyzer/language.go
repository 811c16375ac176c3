package analyzer

import "regexp"

// Language is the detected writing language of a draft.
type Language string

const (
	LanguageKorean  Language = "korean"
	LanguageEnglish Language = "english"
	LanguageMixed   Language = "mixed"
)

const (
	koreanRatioThreshold  = 0.5
	englishRatioThreshold = 0.2
)

// DetectLanguage classifies text by the ratio of Hangul syllables to all
// letters. Text with no letters at all (dates, numbers, symbols) counts as
// English.
func DetectLanguage(text string) Language {
	var hangul, ascii int

	for _, r := range text {
		switch {
		case r >= 0xAC00 && r <= 0xD7A3:
			hangul++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			ascii++
		}
	}

	total := hangul + ascii
	if total == 0 {
		return LanguageEnglish
	}

	ratio := float64(hangul) / float64(total)
	switch {
	case ratio > koreanRatioThreshold:
		return LanguageKorean
	case ratio < englishRatioThreshold:
		return LanguageEnglish
	default:
		return LanguageMixed
	}
}

// ExperienceType is the coarse category of an experience.
type ExperienceType string

const (
	TypeTechnicalProject ExperienceType = "technical-project"
	TypeLeadership       ExperienceType = "leadership"
	TypeLearning         ExperienceType = "learning"
	TypeJob              ExperienceType = "job"
	TypeGeneral          ExperienceType = "general"
)

// experienceTypes is the stable classification order; on a tie the first
// type to reach the max wins.
var experienceTypes = []ExperienceType{
	TypeTechnicalProject,
	TypeLeadership,
	TypeLearning,
	TypeJob,
}

// typeClassificationThreshold is the minimum keyword-match count for a
// specific type; below it the experience stays general.
const typeClassificationThreshold = 2

var typeKeywords = map[ExperienceType][]*regexp.Regexp{
	TypeTechnicalProject: {
		regexp.MustCompile(`(개발|구현|설계|배포|리팩토링|아키텍처|코드)`),
		regexp.MustCompile(`(?i)(develop|implement|architect|deploy|refactor|coding|\bapi\b)`),
	},
	TypeLeadership: {
		regexp.MustCompile(`(리드|팀장|멘토링|주도|조율|이끌)`),
		regexp.MustCompile(`(?i)(\blead\b|\bled\b|mentor|managed|coordinat|facilitat)`),
	},
	TypeLearning: {
		regexp.MustCompile(`(공부|학습|스터디|강의|자격증|수강)`),
		regexp.MustCompile(`(?i)(study|studied|course|certification|tutorial|bootcamp)`),
	},
	TypeJob: {
		regexp.MustCompile(`(입사|퇴사|이직|면접|채용|온보딩)`),
		regexp.MustCompile(`(?i)(hired|joined|onboard|interview|job search|employment)`),
	},
}

// DetectExperienceType counts every keyword match per type across the whole
// text; the highest count wins if it reaches the threshold, otherwise the
// experience is classified as general.
func DetectExperienceType(text string) ExperienceType {
	best := TypeGeneral
	bestCount := 0

	for _, expType := range experienceTypes {
		count := 0
		for _, pattern := range typeKeywords[expType] {
			count += len(pattern.FindAllStringIndex(text, -1))
		}

		if count > bestCount {
			best = expType
			bestCount = count
		}
	}

	if bestCount < typeClassificationThreshold {
		return TypeGeneral
	}
	return best
}
