package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SARARANJBAR/Radiomics-Ki67/experiment"
	"github.com/SARARANJBAR/Radiomics-Ki67/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ki67",
	Short: "Train and evaluate Ki67 abundance regressors on radiomics feature tables",
	Long: `ki67 runs tabular regression experiments on biopsy feature tables produced
by an offline radiomics extraction pipeline. Column roles, preprocessing,
estimator family and split policy all come from a YAML experiment file.`,
	SilenceUsage: true,
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run one experiment from a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		quiet, _ := cmd.Flags().GetBool("quiet")
		cfg, err := experiment.LoadConfig(path)
		if err != nil {
			return err
		}
		var verbose func(string)
		if !quiet {
			verbose = func(s string) { fmt.Fprintln(cmd.OutOrStdout(), s) }
		}
		report, err := cfg.Run(verbose)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "evaluated %d rows (%d excluded for missing target)\n",
			report.Test.Evaluated, report.DroppedTargets)
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", report.Test)
		if cfg.Store != "" {
			s, err := store.Open(cfg.Store)
			if err != nil {
				return err
			}
			defer s.Close()
			id, err := s.Append(store.Run{
				Dataset:        cfg.Dataset,
				Estimator:      cfg.Estimator,
				Params:         cfg.Params,
				Metrics:        report.Test,
				DroppedTargets: report.DroppedTargets,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded as run %d in %v\n", id, cfg.Store)
		}
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded experiment runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("store")
		dataset, _ := cmd.Flags().GetString("dataset")
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()
		runs, err := s.List(dataset)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tDATASET\tESTIMATOR\tRMSE\tR2\tN")
		for _, r := range runs {
			r2 := "undefined"
			if r.Metrics.R2Defined() {
				r2 = fmt.Sprintf("%.4f", r.Metrics.R2)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f\t%s\t%d\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Dataset, r.Estimator,
				r.Metrics.RMSE, r2, r.Metrics.Evaluated)
		}
		return w.Flush()
	},
}

func init() {
	trainCmd.Flags().String("config", "experiment.yaml", "experiment config file")
	trainCmd.Flags().Bool("quiet", false, "suppress per-partition metrics")
	runsCmd.Flags().String("store", "runs.db", "run store path")
	runsCmd.Flags().String("dataset", "", "only runs for this dataset")
	rootCmd.AddCommand(trainCmd, runsCmd)
	rootCmd.SetOut(os.Stdout)
}
