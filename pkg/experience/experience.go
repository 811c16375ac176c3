// Package experience owns the canonical on-disk entity of resumate: an
// experience directory named YYYY-MM-DD-slug holding up to three ordered
// version files (draft.md, refined.md, archived.md). The repository
// guards the version ordering and never overwrites an existing version;
// the locator resolves user queries to a single experience.
package experience

import (
	"regexp"
	"strings"
	"time"
)

// VersionKind is one of the three ordered document stages.
type VersionKind string

const (
	VersionDraft    VersionKind = "draft"
	VersionRefined  VersionKind = "refined"
	VersionArchived VersionKind = "archived"
)

// VersionKinds lists the stages in lifecycle order.
var VersionKinds = []VersionKind{VersionDraft, VersionRefined, VersionArchived}

// Filename returns the version's filename inside an experience directory.
func (k VersionKind) Filename() string {
	return string(k) + ".md"
}

// VersionInfo annotates one version slot of a listed experience.
type VersionInfo struct {
	Exists  bool
	ModTime time.Time
}

// Experience is one recorded work/learning episode.
type Experience struct {
	Name     string // directory name, YYYY-MM-DD-slug
	Date     time.Time
	Slug     string
	Versions map[VersionKind]VersionInfo
}

// Has reports whether the given version file exists.
func (e *Experience) Has(kind VersionKind) bool {
	return e.Versions[kind].Exists
}

const (
	maxSlugLen = 50
	maxNameLen = 100
	dateLayout = "2006-01-02"
)

var (
	namePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-[a-z0-9-]+$`)
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Windows device names make hostile directory names even on other
// platforms once a vault is synced around.
var reservedSlugs = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true,
	"com5": true, "com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true,
	"lpt5": true, "lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// ValidateName checks a full experience directory name against the
// naming grammar.
func ValidateName(name string) error {
	if len(name) > maxNameLen {
		return &ValidationError{Value: name, Reason: "name exceeds 100 characters", Hint: "use a shorter slug"}
	}
	if !namePattern.MatchString(name) {
		return &ValidationError{
			Value:  name,
			Reason: "must match YYYY-MM-DD-slug with a lowercase alphanumeric slug",
			Hint:   "e.g. 2024-06-15-payment-refactor",
		}
	}

	if _, err := time.Parse(dateLayout, name[:10]); err != nil {
		return &ValidationError{Value: name, Reason: "date part is not a valid calendar date", Hint: "use YYYY-MM-DD"}
	}

	return ValidateSlug(name[11:])
}

// ValidateSlug checks the slug portion on its own.
func ValidateSlug(slug string) error {
	switch {
	case slug == "":
		return &ValidationError{Value: slug, Reason: "slug is empty", Hint: "add a short descriptive slug"}
	case len(slug) > maxSlugLen:
		return &ValidationError{Value: slug, Reason: "slug exceeds 50 characters", Hint: "shorten the slug"}
	case strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-"):
		return &ValidationError{Value: slug, Reason: "slug has a leading or trailing hyphen", Hint: "trim the hyphens"}
	case !slugPattern.MatchString(slug):
		return &ValidationError{Value: slug, Reason: "slug may only contain lowercase letters, digits and hyphens"}
	case reservedSlugs[slug]:
		return &ValidationError{Value: slug, Reason: "slug is a reserved device name", Hint: "pick a different slug"}
	}
	return nil
}

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify normalizes arbitrary text into a valid slug, truncated to the
// slug length limit. Returns "" when nothing usable remains.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if reservedSlugs[slug] {
		return ""
	}
	return slug
}
