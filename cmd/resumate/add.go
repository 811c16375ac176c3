package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hyunjookim/resumate/pkg/experience"
	"github.com/hyunjookim/resumate/pkg/presenter"
)

type AddConfig struct {
	Date    string
	Slug    string
	Company string
	Role    string
	Content string
}

func NewAddConfig() *AddConfig {
	return &AddConfig{
		Date: time.Now().Format("2006-01-02"),
	}
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new experience draft",
	Long: `Create a new experience directory with an initial draft. The
directory name is derived from the date and a slugified title; pass --slug
to override the slug (required when the title has no latin characters).`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getAddConfigFromFlags(cmd)
		title := strings.TrimSpace(strings.Join(args, " "))

		if err := addExperience(title, config); err != nil {
			presenter.Error(err, "Failed to add experience")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewAddConfig()
	addCmd.Flags().String("date", defaults.Date, "Experience date (YYYY-MM-DD)")
	addCmd.Flags().String("slug", "", "Directory slug (defaults to a slugified title)")
	addCmd.Flags().String("company", "", "Company or organization")
	addCmd.Flags().String("role", "", "Your role")
	addCmd.Flags().String("content", "", "Initial draft content")
}

func getAddConfigFromFlags(cmd *cobra.Command) *AddConfig {
	config := NewAddConfig()

	if date, err := cmd.Flags().GetString("date"); err == nil && date != "" {
		config.Date = date
	}
	if slug, err := cmd.Flags().GetString("slug"); err == nil {
		config.Slug = slug
	}
	if company, err := cmd.Flags().GetString("company"); err == nil {
		config.Company = company
	}
	if role, err := cmd.Flags().GetString("role"); err == nil {
		config.Role = role
	}
	if content, err := cmd.Flags().GetString("content"); err == nil {
		config.Content = content
	}

	return config
}

func addExperience(title string, config *AddConfig) error {
	date, err := time.Parse("2006-01-02", config.Date)
	if err != nil {
		return errors.Wrapf(err, "invalid date %q, expected YYYY-MM-DD", config.Date)
	}

	slug := config.Slug
	if slug == "" {
		slug = experience.Slugify(title)
	}
	if slug == "" {
		return errors.New("could not derive a slug from the title; pass --slug explicitly")
	}

	repo := experience.NewRepository(projectRoot())
	exp, err := repo.Create(date, slug, experience.CreateOptions{
		Title:   title,
		Company: config.Company,
		Role:    config.Role,
		Content: config.Content,
	})
	if err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Created %s", exp.Name))
	presenter.Info(fmt.Sprintf("Draft at %s/%s/draft.md", experience.ExperiencesDirName, exp.Name))
	presenter.Info("Write your notes there, then run 'resumate refine' when ready")
	return nil
}
