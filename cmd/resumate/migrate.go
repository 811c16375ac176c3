package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyunjookim/resumate/pkg/migration"
	"github.com/hyunjookim/resumate/pkg/presenter"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert the legacy drafts/in-progress/archive layout",
	Long: `Migrate converts the legacy three-bucket layout into per-experience
directories. The run is phased and checksummed; legacy files are copied,
never moved, and a backup of the buckets is kept under .resumate.

  --dry-run       report what would be migrated without writing anything
  --resume <id>   continue an interrupted migration
  --rollback <id> undo a migration and restore the buckets from backup
  --cleanup <id>  delete the legacy buckets after a completed migration`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		resumeID, _ := cmd.Flags().GetString("resume")
		rollbackID, _ := cmd.Flags().GetString("rollback")
		cleanupID, _ := cmd.Flags().GetString("cleanup")
		yes, _ := cmd.Flags().GetBool("yes")

		engine, err := migration.New(projectRoot())
		if err != nil {
			presenter.Error(err, "Failed to initialize migration")
			os.Exit(1)
		}

		switch {
		case rollbackID != "":
			if !yes && !presenter.Confirm(fmt.Sprintf("Roll back migration %s? Migrated experiences will be deleted", rollbackID)) {
				presenter.Info("Aborted")
				return
			}
			if err := engine.Rollback(ctx, rollbackID); err != nil {
				presenter.Error(err, "Rollback failed")
				os.Exit(1)
			}
			presenter.Success("Rollback complete, legacy buckets restored from backup")

		case cleanupID != "":
			if !yes && !presenter.Confirm("Delete the legacy bucket directories? This is irreversible without the backup") {
				presenter.Info("Aborted")
				return
			}
			if err := engine.Cleanup(ctx, cleanupID); err != nil {
				presenter.Error(err, "Cleanup failed")
				os.Exit(1)
			}
			presenter.Success("Legacy buckets removed")

		case resumeID != "":
			result, err := engine.Resume(ctx, resumeID)
			if err != nil {
				presenter.Error(err, "Resume failed")
				os.Exit(1)
			}
			printMigrationResult(result)

		default:
			if !engine.HasLegacyLayout() {
				presenter.Info("No legacy drafts/in-progress/archive directories found, nothing to migrate")
				return
			}
			if !dryRun && !yes && !presenter.Confirm("Migrate the legacy layout to experiences/?") {
				presenter.Info("Aborted")
				return
			}

			result, err := engine.Run(ctx, migration.Options{DryRun: dryRun})
			if err != nil {
				presenter.Error(err, "Migration failed")
				os.Exit(1)
			}
			printMigrationResult(result)
		}
	},
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "Report without writing anything")
	migrateCmd.Flags().String("resume", "", "Migration ID to resume")
	migrateCmd.Flags().String("rollback", "", "Migration ID to roll back")
	migrateCmd.Flags().String("cleanup", "", "Migration ID whose legacy buckets to delete")
	migrateCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
}

func printMigrationResult(result *migration.Result) {
	if result.DryRun {
		presenter.Section("Migration Dry Run")
	} else {
		presenter.Section("Migration Result")
	}

	presenter.Info(fmt.Sprintf("Migration ID:        %s", result.ManifestID))
	presenter.Info(fmt.Sprintf("Experiences created: %d", result.ExperiencesCreated))
	presenter.Info(fmt.Sprintf("Files migrated:      %d", result.FilesMigrated))
	if result.BackupDir != "" {
		presenter.Info(fmt.Sprintf("Backup:              %s", result.BackupDir))
	}

	if len(result.UnmappedFiles) > 0 {
		presenter.Separator()
		presenter.Warning(fmt.Sprintf("%d file(s) had no recognizable date prefix and were left in place:", len(result.UnmappedFiles)))
		for _, file := range result.UnmappedFiles {
			presenter.Info("  - " + file)
		}
	}

	if len(result.Conflicts) > 0 {
		presenter.Separator()
		presenter.Warning(fmt.Sprintf("%d duplicate(s) skipped (first file wins):", len(result.Conflicts)))
		for _, conflict := range result.Conflicts {
			presenter.Info(fmt.Sprintf("  - %s lost to %s", conflict.File, conflict.Kept))
		}
	}

	if len(result.Errors) > 0 {
		presenter.Separator()
		presenter.Warning(fmt.Sprintf("%d error(s) recorded:", len(result.Errors)))
		for _, e := range result.Errors {
			presenter.Info(fmt.Sprintf("  - [%s] %s: %s", e.Phase, e.File, e.Message))
		}
		presenter.Info(fmt.Sprintf("Retry failed conversions with 'resumate migrate --resume %s'", result.ManifestID))
	}

	if result.DryRun {
		presenter.Separator()
		presenter.Info("Dry run only; re-run without --dry-run to migrate")
	} else if len(result.Errors) == 0 {
		presenter.Success("Migration completed")
		presenter.Info(fmt.Sprintf("Verify the result, then remove the legacy buckets with 'resumate migrate --cleanup %s'", result.ManifestID))
	}
}
