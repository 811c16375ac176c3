package migration

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hyunjookim/resumate/pkg/experience"
	"github.com/hyunjookim/resumate/pkg/logger"
)

// MetaDirName is the metadata directory under the project root.
const MetaDirName = ".resumate"

// placeholderSlug is substituted when a legacy filename yields no usable slug.
const placeholderSlug = "untitled"

// bucket binds a legacy directory to the version slot its files become.
type bucket struct {
	dir  string
	kind experience.VersionKind
}

// legacyBuckets is the fixed scan order of the legacy layout.
var legacyBuckets = []bucket{
	{"drafts", experience.VersionDraft},
	{"in-progress", experience.VersionRefined},
	{"archive", experience.VersionArchived},
}

// Options configures one migration run.
type Options struct {
	DryRun bool
}

// Result summarizes a migration run for the CLI.
type Result struct {
	ManifestID         string     `json:"migrationId"`
	Phase              Phase      `json:"phase"`
	ExperiencesCreated int        `json:"experiencesCreated"`
	FilesMigrated      int        `json:"filesMigrated"`
	UnmappedFiles      []string   `json:"unmappedFiles,omitempty"`
	Conflicts          []Conflict `json:"conflicts,omitempty"`
	Errors             []Error    `json:"errors,omitempty"`
	BackupDir          string     `json:"backupDir,omitempty"`
	DryRun             bool       `json:"dryRun"`
}

// Engine runs migrations for one project root.
type Engine struct {
	root      string
	manifests *ManifestStore
}

// New creates a migration engine rooted at the project directory.
func New(root string) (*Engine, error) {
	store, err := NewManifestStore(filepath.Join(root, MetaDirName))
	if err != nil {
		return nil, err
	}
	return &Engine{root: root, manifests: store}, nil
}

// HasLegacyLayout reports whether any legacy bucket directory exists.
func (e *Engine) HasLegacyLayout() bool {
	for _, b := range legacyBuckets {
		if info, err := os.Stat(filepath.Join(e.root, b.dir)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// Run executes a full migration. Per-experience failures are recorded in
// the manifest and do not abort the batch; only phase-level failures
// (e.g. an unreadable bucket) are returned as errors, after the manifest
// is marked failed.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	now := time.Now()
	manifest := &Manifest{
		ID:        "migration-" + now.Format("20060102-150405"),
		Phase:     PhaseScanning,
		StartedAt: now,
		Config: Config{
			Root:      e.root,
			BackupDir: filepath.Join(e.root, MetaDirName, "backup-"+now.Format("20060102-150405")),
			DryRun:    opts.DryRun,
		},
	}

	log := logger.G(ctx).WithField("migration_id", manifest.ID)
	log.WithField("dry_run", opts.DryRun).Info("starting migration")

	if err := e.runPhases(ctx, manifest); err != nil {
		manifest.Phase = PhaseFailed
		if saveErr := e.manifests.Save(manifest); saveErr != nil {
			err = multierror.Append(err, saveErr)
		}
		return nil, err
	}

	return e.result(manifest), nil
}

// Resume reloads a manifest and retries only the mappings still pending
// or failed, appending to the existing error list.
func (e *Engine) Resume(ctx context.Context, id string) (*Result, error) {
	manifest, err := e.manifests.Load(id)
	if err != nil {
		return nil, err
	}

	if manifest.Phase == PhaseCompleted {
		return e.result(manifest), nil
	}

	logger.G(ctx).WithField("migration_id", id).WithField("phase", manifest.Phase).Info("resuming migration")

	if err := e.runConvertOnward(ctx, manifest); err != nil {
		manifest.Phase = PhaseFailed
		if saveErr := e.manifests.Save(manifest); saveErr != nil {
			err = multierror.Append(err, saveErr)
		}
		return nil, err
	}

	return e.result(manifest), nil
}

// Rollback deletes every experience directory created by a migration,
// restores the legacy buckets from its backup when one exists, and marks
// the manifest failed.
func (e *Engine) Rollback(ctx context.Context, id string) error {
	manifest, err := e.manifests.Load(id)
	if err != nil {
		return err
	}

	log := logger.G(ctx).WithField("migration_id", id)
	var result *multierror.Error

	for _, mapping := range manifest.Mappings {
		if mapping.Status != StatusCompleted {
			continue
		}
		dir := filepath.Join(e.root, experience.ExperiencesDirName, mapping.ExperienceDir)
		if err := os.RemoveAll(dir); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to remove %q", mapping.ExperienceDir))
			continue
		}
		log.WithField("experience", mapping.ExperienceDir).Debug("removed migrated experience")
	}

	if _, err := os.Stat(manifest.Config.BackupDir); err == nil {
		for _, b := range legacyBuckets {
			src := filepath.Join(manifest.Config.BackupDir, b.dir)
			if _, err := os.Stat(src); os.IsNotExist(err) {
				continue
			}
			if err := copyDir(src, filepath.Join(e.root, b.dir)); err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "failed to restore bucket %q", b.dir))
			}
		}
	}

	manifest.Phase = PhaseFailed
	if err := e.manifests.Save(manifest); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Cleanup removes the legacy bucket directories outright. Only permitted
// once the migration reached the completed phase; irreversible except via
// the backup directory.
func (e *Engine) Cleanup(ctx context.Context, id string) error {
	manifest, err := e.manifests.Load(id)
	if err != nil {
		return err
	}

	if manifest.Phase != PhaseCompleted {
		return errors.Errorf("migration %q is in phase %q; cleanup requires a completed migration", id, manifest.Phase)
	}

	var result *multierror.Error
	for _, b := range legacyBuckets {
		if err := os.RemoveAll(filepath.Join(e.root, b.dir)); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to remove legacy bucket %q", b.dir))
		}
	}

	logger.G(ctx).WithField("migration_id", id).Info("legacy buckets removed")
	return result.ErrorOrNil()
}

func (e *Engine) runPhases(ctx context.Context, manifest *Manifest) error {
	scanned, err := e.scan(ctx, manifest)
	if err != nil {
		return err
	}

	e.setPhase(manifest, PhaseGrouping)
	groups := e.group(manifest, scanned)

	e.setPhase(manifest, PhaseValidating)
	e.buildMappings(manifest, groups)

	if manifest.Config.DryRun {
		// A dry run reports what a real run would create without touching
		// the experiences directory or the legacy buckets.
		e.setPhase(manifest, PhaseCompleted)
		return e.manifests.Save(manifest)
	}

	return e.runConvertOnward(ctx, manifest)
}

func (e *Engine) runConvertOnward(ctx context.Context, manifest *Manifest) error {
	e.setPhase(manifest, PhaseConverting)
	if err := e.convert(ctx, manifest); err != nil {
		return err
	}

	e.setPhase(manifest, PhaseVerifying)
	e.verify(manifest)

	e.setPhase(manifest, PhaseCleanup)
	if !manifest.BackedUp {
		if err := e.backup(ctx, manifest); err != nil {
			return err
		}
		manifest.BackedUp = true
	}

	e.setPhase(manifest, PhaseCompleted)
	return e.manifests.Save(manifest)
}

func (e *Engine) setPhase(manifest *Manifest, phase Phase) {
	manifest.Phase = phase
	// Persisting after every transition is what makes a crash resumable;
	// a save failure here is not worth aborting the run for.
	_ = e.manifests.Save(manifest)
}

// scannedFile is one legacy markdown file with its parsed date prefix.
type scannedFile struct {
	path      string
	kind      experience.VersionKind
	date      string
	remainder string
}

var datePrefixPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[-_]?(.*)\.md$`)

func (e *Engine) scan(ctx context.Context, manifest *Manifest) ([]scannedFile, error) {
	var scanned []scannedFile

	for _, b := range legacyBuckets {
		dir := filepath.Join(e.root, b.dir)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan legacy bucket %q", b.dir)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			m := datePrefixPattern.FindStringSubmatch(entry.Name())
			if m == nil {
				manifest.UnmappedFiles = append(manifest.UnmappedFiles, path)
				continue
			}
			if _, err := time.Parse("2006-01-02", m[1]); err != nil {
				manifest.UnmappedFiles = append(manifest.UnmappedFiles, path)
				continue
			}

			scanned = append(scanned, scannedFile{
				path:      path,
				kind:      b.kind,
				date:      m[1],
				remainder: m[2],
			})
		}
	}

	logger.G(ctx).WithField("files", len(scanned)).WithField("unmapped", len(manifest.UnmappedFiles)).Debug("scanned legacy buckets")
	return scanned, nil
}

// group keys scanned files by date-slug, first file winning each version slot.
func (e *Engine) group(manifest *Manifest, scanned []scannedFile) map[string]*SourceFiles {
	groups := make(map[string]*SourceFiles)

	for _, file := range scanned {
		slug := experience.Slugify(file.remainder)
		if slug == "" {
			slug = placeholderSlug
		}
		key := file.date + "-" + slug

		sources, seen := groups[key]
		if !seen {
			sources = &SourceFiles{}
			groups[key] = sources
		}

		slot := sourceSlot(sources, file.kind)
		if *slot != "" {
			manifest.Conflicts = append(manifest.Conflicts, Conflict{
				Type: "duplicate-date",
				Key:  key,
				File: file.path,
				Kept: *slot,
			})
			continue
		}
		*slot = file.path
	}

	return groups
}

func sourceSlot(sources *SourceFiles, kind experience.VersionKind) *string {
	switch kind {
	case experience.VersionRefined:
		return &sources.Refined
	case experience.VersionArchived:
		return &sources.Archived
	default:
		return &sources.Draft
	}
}

// buildMappings validates group keys against the directory-name grammar,
// repairing invalid keys instead of failing.
func (e *Engine) buildMappings(manifest *Manifest, groups map[string]*SourceFiles) {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		dir := key
		if experience.ValidateName(dir) != nil {
			dir = repairName(dir)
		}

		manifest.Mappings = append(manifest.Mappings, Mapping{
			ExperienceDir: dir,
			SourceFiles:   *groups[key],
			Status:        StatusPending,
		})
	}

	_ = e.manifests.Save(manifest)
}

// repairName re-slugifies the remainder of an invalid directory name and
// falls back to the placeholder slug when nothing usable remains.
func repairName(name string) string {
	if len(name) < 11 {
		return name
	}
	date, remainder := name[:10], name[11:]

	slug := experience.Slugify(remainder)
	if slug == "" {
		slug = placeholderSlug
	}

	repaired := date + "-" + slug
	if experience.ValidateName(repaired) != nil {
		repaired = date + "-" + placeholderSlug
	}
	return repaired
}

func (e *Engine) convert(ctx context.Context, manifest *Manifest) error {
	log := logger.G(ctx).WithField("migration_id", manifest.ID)

	for i := range manifest.Mappings {
		mapping := &manifest.Mappings[i]
		if mapping.Status == StatusCompleted {
			continue
		}

		mapping.Status = StatusInProgress
		if err := e.manifests.Save(manifest); err != nil {
			return err
		}

		if err := e.convertMapping(mapping); err != nil {
			mapping.Status = StatusFailed
			mapping.Error = err.Error()
			manifest.Errors = append(manifest.Errors, Error{
				Phase:   PhaseConverting,
				File:    mapping.ExperienceDir,
				Message: err.Error(),
			})
			log.WithError(err).WithField("experience", mapping.ExperienceDir).Warn("experience conversion failed")
		} else {
			mapping.Status = StatusCompleted
			log.WithField("experience", mapping.ExperienceDir).Debug("experience converted")
		}

		// Checkpoint after every mapping so a crash resumes here.
		if err := e.manifests.Save(manifest); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) convertMapping(mapping *Mapping) error {
	dir := filepath.Join(e.root, experience.ExperiencesDirName, mapping.ExperienceDir)

	// Version files are never overwritten. A target directory that already
	// exists fails the mapping (the batch continues); it is also excluded
	// from rollback since the engine never touched it.
	if _, err := os.Stat(dir); err == nil {
		return errors.Errorf("experience directory %q already exists; refusing to overwrite it", mapping.ExperienceDir)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %q", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create experience directory")
	}

	mapping.Checksums = make(map[string]string)
	for kind, src := range sourcesByKind(mapping.SourceFiles) {
		if src == "" {
			continue
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return errors.Wrapf(err, "failed to read source %q", src)
		}

		dst := filepath.Join(dir, kind.Filename())
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return errors.Wrapf(err, "failed to write %q", dst)
		}

		mapping.Checksums[string(kind)] = checksum(data)
	}

	return nil
}

func sourcesByKind(sources SourceFiles) map[experience.VersionKind]string {
	return map[experience.VersionKind]string{
		experience.VersionDraft:    sources.Draft,
		experience.VersionRefined:  sources.Refined,
		experience.VersionArchived: sources.Archived,
	}
}

// verify re-reads every converted file and compares checksums. Mismatches
// are recorded, never fatal; the backup still happens and the user decides
// whether to roll back.
func (e *Engine) verify(manifest *Manifest) {
	for _, mapping := range manifest.Mappings {
		if mapping.Status != StatusCompleted {
			continue
		}

		dir := filepath.Join(e.root, experience.ExperiencesDirName, mapping.ExperienceDir)
		for kind, want := range mapping.Checksums {
			path := filepath.Join(dir, kind+".md")
			data, err := os.ReadFile(path)
			if err != nil {
				manifest.Errors = append(manifest.Errors, Error{
					Phase:   PhaseVerifying,
					File:    path,
					Message: fmt.Sprintf("converted file missing: %v", err),
				})
				continue
			}
			if got := checksum(data); got != want {
				manifest.Errors = append(manifest.Errors, Error{
					Phase:   PhaseVerifying,
					File:    path,
					Message: fmt.Sprintf("checksum mismatch: want %s, got %s", want, got),
				})
			}
		}
	}
}

// backup copies (never moves) the legacy buckets into the timestamped
// backup directory. Runs for every non-dry-run migration regardless of
// per-experience failures.
func (e *Engine) backup(ctx context.Context, manifest *Manifest) error {
	for _, b := range legacyBuckets {
		src := filepath.Join(e.root, b.dir)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyDir(src, filepath.Join(manifest.Config.BackupDir, b.dir)); err != nil {
			return errors.Wrapf(err, "failed to back up legacy bucket %q", b.dir)
		}
	}

	logger.G(ctx).WithField("backup_dir", manifest.Config.BackupDir).Info("legacy buckets backed up")
	return nil
}

func (e *Engine) result(manifest *Manifest) *Result {
	result := &Result{
		ManifestID:    manifest.ID,
		Phase:         manifest.Phase,
		UnmappedFiles: manifest.UnmappedFiles,
		Conflicts:     manifest.Conflicts,
		Errors:        manifest.Errors,
		DryRun:        manifest.Config.DryRun,
	}

	if !manifest.Config.DryRun {
		result.BackupDir = manifest.Config.BackupDir
	}

	for _, mapping := range manifest.Mappings {
		if manifest.Config.DryRun {
			// Dry runs report what a real run would have created.
			result.ExperiencesCreated++
			result.FilesMigrated += countSources(mapping.SourceFiles)
			continue
		}
		if mapping.Status == StatusCompleted {
			result.ExperiencesCreated++
			result.FilesMigrated += len(mapping.Checksums)
		}
	}

	return result
}

func countSources(sources SourceFiles) int {
	count := 0
	for _, src := range []string{sources.Draft, sources.Refined, sources.Archived} {
		if src != "" {
			count++
		}
	}
	return count
}

func checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}
