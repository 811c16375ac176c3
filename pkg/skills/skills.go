// Package skills installs the external collaborator's command definitions
// into a project. The command files are opaque to the rest of the tool;
// they exist so the agent on the other side of the boundary knows the
// refine/archive protocol.
package skills

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//go:embed commands/*.md
var builtinCommands embed.FS

// CommandsDir is where agent command definitions live, relative to the
// project root.
const CommandsDir = ".claude/commands"

// Install writes the builtin command files under <root>/.claude/commands.
// Existing files are left alone unless force is set, so user edits
// survive re-running init. Returns the names of the files written.
func Install(root string, force bool) ([]string, error) {
	dir := filepath.Join(root, filepath.FromSlash(CommandsDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create commands directory")
	}

	entries, err := fs.ReadDir(builtinCommands, "commands")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read builtin commands")
	}

	var written []string
	for _, entry := range entries {
		name := entry.Name()
		target := filepath.Join(dir, name)

		if !force {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}

		content, err := builtinCommands.ReadFile("commands/" + name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read builtin command %q", name)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return nil, errors.Wrapf(err, "failed to write command %q", name)
		}
		written = append(written, name)
	}

	return written, nil
}
