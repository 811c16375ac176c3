package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hyunjookim/resumate/pkg/experience"
	"github.com/hyunjookim/resumate/pkg/logger"
	"github.com/hyunjookim/resumate/pkg/migration"
	"github.com/hyunjookim/resumate/pkg/presenter"
	"github.com/hyunjookim/resumate/pkg/skills"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up a resumate project in the current directory",
	Long: `Create the experiences directory, the metadata directory and the
agent command definitions under .claude/commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")
		root := projectRoot()

		presenter.Section("Resumate Project Setup")

		for _, dir := range []string{
			filepath.Join(root, experience.ExperiencesDirName),
			filepath.Join(root, migration.MetaDirName),
		} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				presenter.Error(err, "Failed to create project directory")
				os.Exit(1)
			}
			logger.G(ctx).WithField("dir", dir).Debug("project directory ready")
		}

		configFile := filepath.Join(root, migration.MetaDirName, "config.yaml")
		if _, err := os.Stat(configFile); os.IsNotExist(err) || force {
			configContent := `log_level: warn
log_format: text
quiet: false
`
			if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
				presenter.Error(err, "Failed to write config file")
				os.Exit(1)
			}
			presenter.Info(fmt.Sprintf("Wrote %s", configFile))
		} else {
			presenter.Info(fmt.Sprintf("Configuration file already exists at %s", configFile))
		}

		written, err := skills.Install(root, force)
		if err != nil {
			presenter.Error(err, "Failed to install agent commands")
			os.Exit(1)
		}

		if len(written) > 0 {
			for _, name := range written {
				presenter.Info(fmt.Sprintf("Installed %s", filepath.Join(skills.CommandsDir, name)))
			}
		} else {
			presenter.Info("Agent commands already installed (use --force to overwrite)")
		}

		presenter.Success("Project initialized")

		engine, err := migration.New(root)
		if err == nil && engine.HasLegacyLayout() {
			presenter.Separator()
			presenter.Warning("Legacy drafts/in-progress/archive directories detected")
			presenter.Info("Run 'resumate migrate' to convert them to the experiences layout")
		}
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing agent command files")
}
