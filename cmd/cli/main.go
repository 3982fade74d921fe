package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"rxcheck/adapters/excel"
	"rxcheck/domain/taxonomy"
	"rxcheck/internal/config"
	"rxcheck/internal/container"
	"rxcheck/models"
	"rxcheck/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "rxcheck",
		Short:         "Validate proposed reactions and explain failures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newBatchCmd(),
		newTaxonomyCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer builds the pipeline from the environment plus flag
// overrides. heuristic forces the offline diagnostician.
func loadContainer(ctx context.Context, heuristic bool, concurrency int) (*container.Container, error) {
	overrides := config.Overrides{BatchConcurrency: concurrency}
	if heuristic {
		overrides.DiagnosticMode = models.ProviderHeuristic
	}
	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return c, nil
}

func newValidateCmd() *cobra.Command {
	var (
		product   string
		reactants []string
		asJSON    bool
		verbose   bool
		heuristic bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate one reaction and print the verdict message",
		Example: `  rxcheck validate --product 'CCOC(C)=O' --reactant CCO --reactant 'CC(=O)O'
  rxcheck validate -p 'CC(=O)OCC1=CC=CC=C1C(=O)O' -r 'CC(=O)O[C1]=CC=CC=C1C(=O)O' -r 'CC1=CC=CC1=O' --heuristic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadContainer(ctx, heuristic, 0)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			result, err := c.Validation.ValidateReaction(ctx, product, reactants)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			if verbose {
				fmt.Fprintf(out, "run:     %s\nverdict: %s\nstates:  %v\n", result.RunID, result.Verdict, result.States)
				if result.Evidence != nil {
					fmt.Fprintf(out, "evidence:\n  %s\n", strings.ReplaceAll(result.Evidence.Text(), "\n", "\n  "))
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, result.Message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&product, "product", "p", "", "Product SMILES")
	cmd.Flags().StringArrayVarP(&reactants, "reactant", "r", nil, "Reactant SMILES (repeat in order)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print verdict, state trail and evidence")
	cmd.Flags().BoolVar(&heuristic, "heuristic", false, "Use the offline diagnostician instead of the language model")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var (
		concurrency int
		asJSON      bool
		heuristic   bool
	)

	cmd := &cobra.Command{
		Use:   "batch [file.xlsx|file.csv]",
		Short: "Validate every reaction in a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadContainer(ctx, heuristic, concurrency)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			subs, err := excel.NewDataReader(args[0]).ReadSubmissions()
			if err != nil {
				return err
			}

			report, err := c.Batch.Run(ctx, subs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, report)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tVERDICT\tPRODUCT\tMESSAGE")
			for _, item := range report.Items {
				verdict, message := "error", item.Error
				if item.Result != nil {
					verdict, message = string(item.Result.Verdict), firstLine(item.Result.Message)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.Submission.Row, verdict, item.Submission.Product, message)
			}
			w.Flush()
			fmt.Fprintf(out, "\nbatch %s: %v, %d failed, mean %.1fms p95 %.1fms\n",
				report.BatchID, report.Verdicts, report.Failed, report.Latency.MeanMS, report.Latency.P95MS)
			for _, cat := range taxonomy.Categories() {
				if rate := report.CategoryRates[cat]; rate > 0 {
					fmt.Fprintf(out, "  %-22s %5.1f%% of molecules\n", cat, 100*rate)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Reactions validated at once (default BATCH_CONCURRENCY)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the batch report as JSON")
	cmd.Flags().BoolVar(&heuristic, "heuristic", false, "Use the offline diagnostician instead of the language model")
	return cmd
}

func newTaxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List the error categories in vector order",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "catalog %s\n", taxonomy.CatalogVersion)
			fmt.Fprintln(w, "POS\tCATEGORY\tMARKER")
			for i, cat := range taxonomy.Categories() {
				fmt.Fprintf(w, "%d\t%s\t%q\n", i, cat, taxonomy.Marker(cat))
			}
			return w.Flush()
		},
	}
}

func newRunsCmd() *cobra.Command {
	var (
		verdict string
		batchID string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted validation runs (requires DATABASE_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadContainer(ctx, true, 0)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			if c.RunRepo == nil {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			runs, err := c.RunRepo.ListRuns(ctx, ports.RunFilter{Verdict: verdict, BatchID: batchID, Limit: limit})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tVERDICT\tPRODUCT\tREACTANTS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.Verdict, run.Product, strings.Join(run.Reactants, " + "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&verdict, "verdict", "", "Filter by verdict (valid|invalid_structure|reaction_mismatch)")
	cmd.Flags().StringVar(&batchID, "batch", "", "Filter by batch ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
