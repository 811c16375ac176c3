package experience

import (
	"fmt"
	"strings"
)

// ValidationError reports a rejected experience name or date. It always
// carries a corrective hint for the CLI to surface.
type ValidationError struct {
	Value  string
	Reason string
	Hint   string
}

func (e *ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid experience name %q: %s (%s)", e.Value, e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid experience name %q: %s", e.Value, e.Reason)
}

// NotFoundError reports a missing experience or version file, listing the
// valid alternatives when known.
type NotFoundError struct {
	Name      string
	Version   VersionKind // empty when the experience itself is missing
	Available []string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("experience %q has no %s version", e.Name, e.Version)
	}
	if len(e.Available) > 0 {
		return fmt.Sprintf("experience %q not found; available: %s", e.Name, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("experience %q not found", e.Name)
}

// AlreadyExistsError reports an attempt to re-create an experience or to
// overwrite a version file. Version files are never silently overwritten.
type AlreadyExistsError struct {
	Name    string
	Version VersionKind // empty when the experience directory already exists
}

func (e *AlreadyExistsError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("experience %q already has a %s version; edit it in place or remove the file to redo", e.Name, e.Version)
	}
	return fmt.Sprintf("experience %q already exists", e.Name)
}

// PrerequisiteError reports a version transition attempted out of order,
// e.g. archiving an experience that was never refined.
type PrerequisiteError struct {
	Name    string
	Missing VersionKind
	Target  VersionKind
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("experience %q needs a %s version before %s", e.Name, e.Missing, e.Target)
}

// Candidate is one scored locator match inside an AmbiguousMatchError.
type Candidate struct {
	Name  string
	Score float64
}

// AmbiguousMatchError reports a locator query that matched several
// experiences without a decisive winner.
type AmbiguousMatchError struct {
	Query      string
	Candidates []Candidate
}

func (e *AmbiguousMatchError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = fmt.Sprintf("%s (%.2f)", c.Name, c.Score)
	}
	return fmt.Sprintf("query %q is ambiguous between: %s", e.Query, strings.Join(parts, ", "))
}
