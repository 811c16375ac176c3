package experience

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hyunjookim/resumate/pkg/markdown"
)

// ExperiencesDirName is the directory under the project root that holds
// all experience directories.
const ExperiencesDirName = "experiences"

// Repository manages experience directories under a project root.
type Repository struct {
	root string
}

// NewRepository creates a repository rooted at the given project directory.
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// Dir returns the experiences directory path.
func (r *Repository) Dir() string {
	return filepath.Join(r.root, ExperiencesDirName)
}

func (r *Repository) experienceDir(name string) string {
	return filepath.Join(r.Dir(), name)
}

func (r *Repository) versionPath(name string, kind VersionKind) string {
	return filepath.Join(r.experienceDir(name), kind.Filename())
}

// CreateOptions carries the initial draft content and frontmatter values.
type CreateOptions struct {
	Title       string
	Company     string
	Role        string
	Description string
	Content     string
}

// Create validates the name grammar, creates the experience directory and
// writes its draft version. Creating an experience that already exists is
// an error; nothing on disk is ever overwritten.
func (r *Repository) Create(date time.Time, slug string, opts CreateOptions) (*Experience, error) {
	name := date.Format(dateLayout) + "-" + slug
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	dir := r.experienceDir(name)
	if _, err := os.Stat(dir); err == nil {
		return nil, &AlreadyExistsError{Name: name}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create experience directory %q", name)
	}

	title := opts.Title
	if title == "" {
		title = slug
	}

	meta := markdown.Meta{
		"title": title,
		"date":  date.Format(dateLayout),
	}
	if opts.Company != "" {
		meta["company"] = opts.Company
	}
	if opts.Role != "" {
		meta["role"] = opts.Role
	}
	if opts.Description != "" {
		meta["description"] = opts.Description
	}

	body := "# " + title + "\n"
	if opts.Content != "" {
		body += "\n" + strings.TrimSpace(opts.Content) + "\n"
	}

	content, err := markdown.Serialize(body, meta)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(r.versionPath(name, VersionDraft), []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, "failed to write draft for %q", name)
	}

	return r.load(name)
}

// Get looks up an experience by exact directory name. A missing
// experience returns (nil, nil); only I/O problems are errors. Names
// outside the naming grammar cannot be experiences, so they are treated
// as missing even when a directory of that name exists.
func (r *Repository) Get(name string) (*Experience, error) {
	if ValidateName(name) != nil {
		return nil, nil
	}

	info, err := os.Stat(r.experienceDir(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat experience %q", name)
	}
	if !info.IsDir() {
		return nil, nil
	}

	return r.load(name)
}

// List returns all valid experience directories, newest first. Entries
// whose names do not match the naming grammar are skipped.
func (r *Repository) List() ([]*Experience, error) {
	entries, err := os.ReadDir(r.Dir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read experiences directory")
	}

	var experiences []*Experience
	for _, entry := range entries {
		if !entry.IsDir() || ValidateName(entry.Name()) != nil {
			continue
		}

		exp, err := r.load(entry.Name())
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, exp)
	}

	sort.Slice(experiences, func(i, j int) bool {
		if !experiences[i].Date.Equal(experiences[j].Date) {
			return experiences[i].Date.After(experiences[j].Date)
		}
		return experiences[i].Name > experiences[j].Name
	})

	return experiences, nil
}

// AddRefined writes the refined version. The experience must exist and
// must not already have a refined version.
func (r *Repository) AddRefined(name, content string) error {
	return r.addVersion(name, VersionRefined, content, VersionDraft)
}

// AddArchived writes the archived version. The experience must exist and
// have a refined version, and must not already be archived.
func (r *Repository) AddArchived(name, content string) error {
	return r.addVersion(name, VersionArchived, content, VersionRefined)
}

// UpdateRefined rewrites an existing refined version. Refinement is
// iterative (question rounds append to the same file), so refined is the
// one version that may change in place until the experience is archived.
func (r *Repository) UpdateRefined(name, content string) error {
	exp, err := r.Get(name)
	if err != nil {
		return err
	}
	if exp == nil {
		names, _ := r.names()
		return &NotFoundError{Name: name, Available: names}
	}

	if !exp.Has(VersionRefined) {
		return &NotFoundError{Name: name, Version: VersionRefined}
	}
	if exp.Has(VersionArchived) {
		return &AlreadyExistsError{Name: name, Version: VersionArchived}
	}

	if err := os.WriteFile(r.versionPath(name, VersionRefined), []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "failed to update refined for %q", name)
	}
	return nil
}

func (r *Repository) addVersion(name string, kind VersionKind, content string, prereq VersionKind) error {
	exp, err := r.Get(name)
	if err != nil {
		return err
	}
	if exp == nil {
		names, _ := r.names()
		return &NotFoundError{Name: name, Available: names}
	}

	if !exp.Has(prereq) {
		return &PrerequisiteError{Name: name, Missing: prereq, Target: kind}
	}
	if exp.Has(kind) {
		return &AlreadyExistsError{Name: name, Version: kind}
	}

	if err := os.WriteFile(r.versionPath(name, kind), []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s for %q", kind, name)
	}
	return nil
}

// Version reads the content of one version file.
func (r *Repository) Version(name string, kind VersionKind) (string, error) {
	data, err := os.ReadFile(r.versionPath(name, kind))
	if os.IsNotExist(err) {
		if exp, getErr := r.Get(name); getErr == nil && exp == nil {
			names, _ := r.names()
			return "", &NotFoundError{Name: name, Available: names}
		}
		return "", &NotFoundError{Name: name, Version: kind}
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s for %q", kind, name)
	}
	return string(data), nil
}

func (r *Repository) load(name string) (*Experience, error) {
	date, err := time.Parse(dateLayout, name[:10])
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date in experience name %q", name)
	}

	exp := &Experience{
		Name:     name,
		Date:     date,
		Slug:     name[11:],
		Versions: make(map[VersionKind]VersionInfo, len(VersionKinds)),
	}

	for _, kind := range VersionKinds {
		info, err := os.Stat(r.versionPath(name, kind))
		if os.IsNotExist(err) {
			exp.Versions[kind] = VersionInfo{}
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s for %q", kind, name)
		}
		exp.Versions[kind] = VersionInfo{Exists: true, ModTime: info.ModTime()}
	}

	return exp, nil
}

func (r *Repository) names() ([]string, error) {
	experiences, err := r.List()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(experiences))
	for i, exp := range experiences {
		names[i] = exp.Name
	}
	return names, nil
}
