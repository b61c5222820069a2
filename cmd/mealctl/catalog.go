package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/mealplan"
	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/services"
)

func newQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalog in flow order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := questionnaire.DefaultCatalog()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSECTION\tTYPE\tAPPLIES TO\tREQUIRED\tTEXT")
			for _, q := range catalog.Questions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", q.ID, q.Section, q.Type, q.AppliesTo, q.Required, q.Text)
			}
			return w.Flush()
		},
	}
}

func newCookbooksCommand() *cobra.Command {
	var premiumOnly bool
	cmd := &cobra.Command{
		Use:   "cookbooks",
		Short: "Print the cookbook catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := cookbook.Default()
			if err != nil {
				return err
			}
			list := catalog.All()
			if premiumOnly {
				list = catalog.Premium()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tCATEGORY\tPREMIUM\tMEALS\tTAGS")
			for _, cb := range list {
				fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%s\n", cb.Slug, cb.Category, cb.Premium, cb.MealCount, strings.Join(cb.Tags, ","))
			}
			fmt.Fprintf(w, "\n%d cookbooks, %d meals\n", len(list), catalog.TotalMeals())
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&premiumOnly, "premium", false, "only list premium cookbooks")
	return cmd
}

func newRecommendCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Score a questionnaire payload and print the assigned cookbooks",
		Long:  "Reads a payload shaped like POST /questionnaire/submit from --file (or stdin with -) and scores it without touching the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readPayload(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			svc, err := offlineCookbookService()
			if err != nil {
				return err
			}
			result, err := svc.Recommend(cmd.Context(), payload)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tSLUG\tSCORE\tPREMIUM")
			for i, r := range result.Ranking {
				fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", i+1, r.Slug, r.Score, r.Premium)
			}
			fmt.Fprintln(w)
			for _, cb := range result.Assigned {
				fmt.Fprintf(w, "assigned\t%s\t%s\n", cb.Slug, cb.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "payload JSON file, - for stdin")
	return cmd
}

func readPayload(stdin io.Reader, file string) (request_models.QuestionnairePayload, error) {
	var payload request_models.QuestionnairePayload

	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return payload, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

// offlineCookbookService builds the scoring path from the embedded catalogs
// only. Its repository-backed operations are unavailable.
func offlineCookbookService() (services.CookbookServiceInterface, error) {
	questions, err := questionnaire.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	cookbooks, err := cookbook.Default()
	if err != nil {
		return nil, err
	}
	library, err := mealplan.DefaultLibrary()
	if err != nil {
		return nil, err
	}
	engine := recommendation.NewEngine(cookbooks)
	return services.NewCookbookService(cookbooks, questions, engine, library, nil, nil, zap.NewNop()), nil
}
