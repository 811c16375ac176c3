package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyunjookim/resumate/pkg/experience"
	"github.com/hyunjookim/resumate/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all experiences and their stages",
	Run: func(cmd *cobra.Command, args []string) {
		repo := experience.NewRepository(projectRoot())

		experiences, err := repo.List()
		if err != nil {
			presenter.Error(err, "Failed to list experiences")
			os.Exit(1)
		}

		if len(experiences) == 0 {
			presenter.Info("No experiences yet. Run 'resumate add <title>' to create one.")
			return
		}

		for _, exp := range experiences {
			fmt.Printf("%-50s %s\n", exp.Name, stageLabel(exp))
		}
	},
}

func stageLabel(exp *experience.Experience) string {
	switch {
	case exp.Has(experience.VersionArchived):
		return "archived"
	case exp.Has(experience.VersionRefined):
		return "refined"
	default:
		return "draft"
	}
}
