// Command mealctl is the operator CLI: catalog inspection, offline
// recommendations, schema migration and the weekly meal-plan mail job.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mealctl",
		Short:         "Operate the Full Gorilla meal planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newQuestionsCommand(),
		newCookbooksCommand(),
		newRecommendCommand(),
		newMigrateCommand(),
		newSendWeeklyCommand(),
	)
	return root
}
