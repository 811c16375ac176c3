package main

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunjookim/resumate/pkg/experience"
)

func TestRefine_PromptFlagWinsOverQuestions(t *testing.T) {
	root := t.TempDir()
	viper.Set("root", root)
	defer viper.Set("root", "")

	repo := experience.NewRepository(root)
	date, err := time.Parse("2006-01-02", "2024-06-15")
	require.NoError(t, err)
	_, err = repo.Create(date, "payment", experience.CreateOptions{
		Title:   "결제 모듈 리팩토링",
		Content: "결제 모듈을 리팩토링했다.",
	})
	require.NoError(t, err)

	refineCmd.SetContext(context.Background())
	require.NoError(t, refineCmd.Flags().Set("prompt", "true"))
	require.NoError(t, refineCmd.Flags().Set("questions", `[{"field":"duration","question":"기간은?","reason":"누락"}]`))
	defer func() {
		require.NoError(t, refineCmd.Flags().Set("prompt", "false"))
		require.NoError(t, refineCmd.Flags().Set("questions", ""))
	}()

	refineCmd.Run(refineCmd, []string{"2024-06-15-payment"})

	// --prompt only prints the instruction; the questions flag is ignored
	// and no refined version appears
	exp, err := repo.Get("2024-06-15-payment")
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.False(t, exp.Has(experience.VersionRefined))
}
