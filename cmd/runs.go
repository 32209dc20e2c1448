package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/speedrun-tools/srcom/filter"
)

var (
	runsGame     string
	runsCategory string
	runsStatus   string
	runsOrderBy  string
	runsMax      int
	filterExpr   string
	noEnrich     bool
)

// runsCmd searches the runs collection
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Search runs and filter the results",
	Long: `Search the runs collection. Server-side parameters (--game,
--category, --status, --order-by) narrow the query; --filter applies an
expression to the fetched runs, for example:

  srcom runs --game nd2ee5ed --status verified --filter 'Run.Seconds < 3600 and !Run.Emulated'
  srcom runs --game nd2ee5ed --filter 'hasPlayer("shigs") or contains(Run.Comment, "glitchless")'`,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsGame, "game", "", "game ID")
	runsCmd.Flags().StringVar(&runsCategory, "category", "", "category ID")
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "run status (new/verified/rejected)")
	runsCmd.Flags().StringVar(&runsOrderBy, "order-by", "", "server-side ordering (game, category, date, submitted, status)")
	runsCmd.Flags().IntVar(&runsMax, "max", 200, "page size requested from the API")
	runsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the results")
	runsCmd.Flags().BoolVar(&noEnrich, "no-resolve", false, "skip resolving player IDs to display names")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	query := url.Values{}
	if runsGame != "" {
		query.Set("game", runsGame)
	}
	if runsCategory != "" {
		query.Set("category", runsCategory)
	}
	if runsStatus != "" {
		query.Set("status", runsStatus)
	}
	if runsOrderBy != "" {
		query.Set("orderby", runsOrderBy)
	}
	if runsMax > 0 {
		query.Set("max", fmt.Sprintf("%d", runsMax))
	}

	runs, err := client.SearchRuns(ctx, query)
	if err != nil {
		return err
	}
	logger.Debug().Int("count", len(runs)).Msg("fetched runs")

	names := map[string]string{}
	if !noEnrich {
		names, err = client.ResolvePlayerNames(ctx, runs)
		if err != nil {
			return fmt.Errorf("failed to resolve player names: %w", err)
		}
	}

	data := make([]filter.RunData, len(runs))
	for i, run := range runs {
		data[i] = filter.FromRun(run, names)
	}

	if filterExpr != "" {
		compiled, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		data, err = filter.Apply(compiled, data)
		if err != nil {
			return err
		}
	}

	if len(data) == 0 {
		fmt.Println("No runs found matching the criteria.")
		return nil
	}

	fmt.Printf("\nFound %d runs:\n", len(data))
	fmt.Println(strings.Repeat("-", 80))
	for _, run := range data {
		players := strings.Join(run.Players, ", ")
		if players == "" {
			players = "(unknown)"
		}
		fmt.Printf("• %s  %s  %s", run.ID, formatSeconds(run.Seconds), players)
		if run.Status != "" {
			fmt.Printf("  [%s]", strings.ToUpper(run.Status))
		}
		fmt.Println()
		if !run.Date.IsZero() {
			fmt.Printf("  Date: %s\n", run.Date.Format("2006-01-02"))
		}
		if run.Comment != "" {
			fmt.Printf("  %s\n", run.Comment)
		}
	}

	return nil
}

func formatSeconds(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
