package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"fullgorilla/cmd/fx/core_fx"
	"fullgorilla/internal/infra"
	"fullgorilla/internal/services"
)

// withApp starts the shared modules, fills targets and runs fn before
// stopping the app again.
func withApp(ctx context.Context, fn func(context.Context) error, targets ...any) error {
	app := fx.New(
		core_fx.Module,
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and seed the cookbook table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				db       *gorm.DB
				cookbook services.CookbookServiceInterface
			)
			return withApp(cmd.Context(), func(ctx context.Context) error {
				if err := infra.Migrate(db.WithContext(ctx)); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				if err := cookbook.SeedCatalog(ctx); err != nil {
					return fmt.Errorf("seed cookbooks: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema migrated and cookbooks seeded")
				return nil
			}, &db, &cookbook)
		},
	}
}

func newSendWeeklyCommand() *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "send-weekly",
		Short: "Mail the weekly meal plan to every account with a completed questionnaire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weekOf := time.Now().UTC()
			if week != "" {
				parsed, err := time.Parse(time.DateOnly, week)
				if err != nil {
					return fmt.Errorf("--week must be YYYY-MM-DD: %w", err)
				}
				weekOf = parsed
			}

			var weekly services.WeeklyMailServiceInterface
			return withApp(cmd.Context(), func(ctx context.Context) error {
				summary, err := weekly.SendWeekly(ctx, weekOf)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "accounts=%d sent=%d failed=%d\n", summary.Accounts, summary.Sent, summary.Failed)
				if summary.Failed > 0 {
					return fmt.Errorf("%d weekly mails failed", summary.Failed)
				}
				return nil
			}, &weekly)
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "any date in the week to plan (default: this week)")
	return cmd
}
