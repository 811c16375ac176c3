package experience

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunjookim/resumate/pkg/markdown"
)

func testDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

func TestCreate_ThenGet(t *testing.T) {
	repo := NewRepository(t.TempDir())

	created, err := repo.Create(testDate(t, "2024-06-15"), "payment-refactor", CreateOptions{
		Title:   "결제 모듈 리팩토링",
		Company: "TechCorp",
		Role:    "Backend Engineer",
		Content: "결제 모듈을 리팩토링했다.",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15-payment-refactor", created.Name)

	got, err := repo.Get("2024-06-15-payment-refactor")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.Has(VersionDraft))
	assert.False(t, got.Has(VersionRefined))
	assert.False(t, got.Has(VersionArchived))
}

func TestCreate_DraftContent(t *testing.T) {
	repo := NewRepository(t.TempDir())

	_, err := repo.Create(testDate(t, "2024-06-15"), "side-project", CreateOptions{
		Title:   "사이드 프로젝트",
		Company: "TechCorp",
	})
	require.NoError(t, err)

	content, err := repo.Version("2024-06-15-side-project", VersionDraft)
	require.NoError(t, err)

	doc, err := markdown.Parse("draft.md", content)
	require.NoError(t, err)
	assert.Equal(t, "사이드 프로젝트", doc.Meta.GetString("title"))
	assert.Equal(t, "2024-06-15", doc.Meta.GetString("date"))
	assert.Equal(t, "TechCorp", doc.Meta.GetString("company"))
	assert.Contains(t, doc.Body, "# 사이드 프로젝트")
}

func TestCreate_DuplicateFails(t *testing.T) {
	repo := NewRepository(t.TempDir())
	date := testDate(t, "2024-06-15")

	_, err := repo.Create(date, "dup", CreateOptions{})
	require.NoError(t, err)

	_, err = repo.Create(date, "dup", CreateOptions{})
	var existsErr *AlreadyExistsError
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, "2024-06-15-dup", existsErr.Name)
}

func TestCreate_InvalidSlug(t *testing.T) {
	repo := NewRepository(t.TempDir())
	date := testDate(t, "2024-06-15")

	for _, slug := range []string{"", "Upper", "한글슬러그", "-leading", "trailing-", "nul"} {
		_, err := repo.Create(date, slug, CreateOptions{})
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr, "slug %q", slug)
	}
}

func TestGet_MissingIsNilNotError(t *testing.T) {
	repo := NewRepository(t.TempDir())

	exp, err := repo.Get("2024-06-15-nothing")
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestGet_NonGrammarNameIsNilNotError(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)

	// Even an on-disk directory with that name is not an experience
	require.NoError(t, os.MkdirAll(filepath.Join(root, ExperiencesDirName, "foo"), 0755))

	for _, name := range []string{"foo", "x", "2024-06-15-UPPER", ""} {
		exp, err := repo.Get(name)
		require.NoError(t, err, "name %q", name)
		assert.Nil(t, exp, "name %q", name)
	}
}

func TestVersionOrdering(t *testing.T) {
	repo := NewRepository(t.TempDir())
	_, err := repo.Create(testDate(t, "2024-06-15"), "flow", CreateOptions{})
	require.NoError(t, err)
	name := "2024-06-15-flow"

	// Archiving before refining violates the version order
	err = repo.AddArchived(name, "archived content")
	var prereqErr *PrerequisiteError
	require.ErrorAs(t, err, &prereqErr)
	assert.Equal(t, VersionRefined, prereqErr.Missing)

	require.NoError(t, repo.AddRefined(name, "refined content"))

	// A second refined version is never silently overwritten
	err = repo.AddRefined(name, "other refined content")
	var existsErr *AlreadyExistsError
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, VersionRefined, existsErr.Version)

	require.NoError(t, repo.AddArchived(name, "archived content"))

	err = repo.AddArchived(name, "other archived content")
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, VersionArchived, existsErr.Version)

	content, err := repo.Version(name, VersionRefined)
	require.NoError(t, err)
	assert.Equal(t, "refined content", content)
}

func TestUpdateRefined(t *testing.T) {
	repo := NewRepository(t.TempDir())
	_, err := repo.Create(testDate(t, "2024-06-15"), "rounds", CreateOptions{})
	require.NoError(t, err)
	name := "2024-06-15-rounds"

	// No refined version yet
	err = repo.UpdateRefined(name, "round 1")
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	require.NoError(t, repo.AddRefined(name, "round 1"))
	require.NoError(t, repo.UpdateRefined(name, "round 2"))

	content, err := repo.Version(name, VersionRefined)
	require.NoError(t, err)
	assert.Equal(t, "round 2", content)

	// Archived experiences are frozen
	require.NoError(t, repo.AddArchived(name, "archived"))
	err = repo.UpdateRefined(name, "round 3")
	var existsErr *AlreadyExistsError
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, VersionArchived, existsErr.Version)
}

func TestAddRefined_MissingExperience(t *testing.T) {
	repo := NewRepository(t.TempDir())
	_, err := repo.Create(testDate(t, "2024-01-01"), "exists", CreateOptions{})
	require.NoError(t, err)

	err = repo.AddRefined("2024-06-15-missing", "content")
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Contains(t, notFoundErr.Available, "2024-01-01-exists")
}

func TestVersion_MissingVersion(t *testing.T) {
	repo := NewRepository(t.TempDir())
	_, err := repo.Create(testDate(t, "2024-06-15"), "draft-only", CreateOptions{})
	require.NoError(t, err)

	_, err = repo.Version("2024-06-15-draft-only", VersionRefined)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, VersionRefined, notFoundErr.Version)
}

func TestList_SortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)

	for _, fixture := range []struct{ date, slug string }{
		{"2024-01-15", "alpha"},
		{"2024-06-20", "beta"},
		{"2024-06-15", "gamma"},
	} {
		_, err := repo.Create(testDate(t, fixture.date), fixture.slug, CreateOptions{})
		require.NoError(t, err)
	}

	// Directories that break the naming grammar are skipped
	require.NoError(t, os.MkdirAll(filepath.Join(root, ExperiencesDirName, "not-an-experience"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ExperiencesDirName, "2024-06-15-UPPER"), 0755))

	experiences, err := repo.List()
	require.NoError(t, err)
	require.Len(t, experiences, 3)

	assert.Equal(t, "2024-06-20-beta", experiences[0].Name)
	assert.Equal(t, "2024-06-15-gamma", experiences[1].Name)
	assert.Equal(t, "2024-01-15-alpha", experiences[2].Name)

	assert.True(t, experiences[0].Has(VersionDraft))
	assert.False(t, experiences[0].Versions[VersionDraft].ModTime.IsZero())
}

func TestList_EmptyRoot(t *testing.T) {
	repo := NewRepository(t.TempDir())

	experiences, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, experiences)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Payment Refactor", "payment-refactor"},
		{"  React & TypeScript!  ", "react-typescript"},
		{"결제 시스템", ""},
		{"mixed 한글 slug", "mixed-slug"},
		{"a--b---c", "a-b-c"},
		{"nul", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("2024-06-15-react-app"))
	assert.Error(t, ValidateName("2024-13-45-bad-date"))
	assert.Error(t, ValidateName("react-app"))
	assert.Error(t, ValidateName("2024-06-15-"))
	assert.Error(t, ValidateName("2024-06-15-"+string(make([]byte, 101))))
}
