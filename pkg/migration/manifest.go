// Package migration converts the legacy three-bucket layout
// (drafts/in-progress/archive with date-prefixed markdown files) into the
// per-experience directory layout. The run is phased, checksummed and
// resumable: a manifest is persisted after every phase transition and
// after every per-experience conversion, so a crashed run can be resumed
// without re-processing completed work, rolled back, or cleaned up.
package migration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Phase is the migration state machine position.
type Phase string

const (
	PhaseScanning   Phase = "scanning"
	PhaseGrouping   Phase = "grouping"
	PhaseValidating Phase = "validating"
	PhaseConverting Phase = "converting"
	PhaseVerifying  Phase = "verifying"
	PhaseCleanup    Phase = "cleanup"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// MappingStatus tracks one experience conversion.
type MappingStatus string

const (
	StatusPending    MappingStatus = "pending"
	StatusInProgress MappingStatus = "in-progress"
	StatusCompleted  MappingStatus = "completed"
	StatusFailed     MappingStatus = "failed"
)

// SourceFiles maps version slots to legacy source file paths.
type SourceFiles struct {
	Draft    string `json:"draft,omitempty"`
	Refined  string `json:"refined,omitempty"`
	Archived string `json:"archived,omitempty"`
}

// Mapping is the migration record for one experience directory.
type Mapping struct {
	ExperienceDir string            `json:"experienceDir"`
	SourceFiles   SourceFiles       `json:"sourceFiles"`
	Status        MappingStatus     `json:"status"`
	Error         string            `json:"error,omitempty"`
	Checksums     map[string]string `json:"checksums,omitempty"`
}

// Conflict records an informational, non-fatal grouping collision.
type Conflict struct {
	Type string `json:"type"` // currently always "duplicate-date"
	Key  string `json:"key"`
	File string `json:"file"` // the file that lost
	Kept string `json:"kept"` // the file that won
}

// Error is one recorded migration problem; the batch continues past it.
type Error struct {
	Phase   Phase  `json:"phase"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

// Config is the snapshot of migration settings stored in the manifest.
type Config struct {
	Root      string `json:"root"`
	BackupDir string `json:"backupDir"`
	DryRun    bool   `json:"dryRun"`
}

// Manifest is the persisted record of one migration run.
type Manifest struct {
	ID            string     `json:"migrationId"`
	Phase         Phase      `json:"phase"`
	StartedAt     time.Time  `json:"startedAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Mappings      []Mapping  `json:"mappings"`
	UnmappedFiles []string   `json:"unmappedFiles,omitempty"`
	Conflicts     []Conflict `json:"conflicts,omitempty"`
	Errors        []Error    `json:"errors,omitempty"`
	BackedUp      bool       `json:"backedUp"`
	Config        Config     `json:"config"`
}

// ManifestStore persists manifests as JSON files under
// <root>/.resumate/migrations/<id>.json.
type ManifestStore struct {
	dir string
}

// NewManifestStore creates the store, making its directory if needed.
func NewManifestStore(metaDir string) (*ManifestStore, error) {
	dir := filepath.Join(metaDir, "migrations")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create migrations directory")
	}
	return &ManifestStore{dir: dir}, nil
}

// Save writes the manifest atomically (tmp file then rename) so a crash
// mid-write never corrupts the resume point.
func (s *ManifestStore) Save(manifest *Manifest) error {
	manifest.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal migration manifest")
	}

	finalPath := filepath.Join(s.dir, manifest.ID+".json")
	tempPath := finalPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write migration manifest")
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "failed to persist migration manifest")
	}
	return nil
}

// Load reads a manifest by migration ID.
func (s *ManifestStore) Load(id string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if os.IsNotExist(err) {
		ids, _ := s.List()
		if len(ids) > 0 {
			return nil, errors.Errorf("migration %q not found; known migrations: %s", id, strings.Join(ids, ", "))
		}
		return nil, errors.Errorf("migration %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest for migration %q", id)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest for migration %q", id)
	}
	return &manifest, nil
}

// List returns all known migration IDs, newest first.
func (s *ManifestStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list migrations")
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
