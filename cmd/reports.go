package main

import (
	"github.com/spf13/cobra"

	"github.com/tracewell/skiptrace/internal/store"
)

var (
	reportsName  string
	reportsLimit int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect stored analysis reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		reports, err := st.ListReports(cmd.Context(), store.ReportFilter{
			Name:  reportsName,
			Limit: reportsLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(reports)
	},
}

var reportsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := st.GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		return st.DeleteReport(cmd.Context(), args[0])
	},
}

func init() {
	reportsListCmd.Flags().StringVar(&reportsName, "subject", "", "filter by subject name")
	reportsListCmd.Flags().IntVar(&reportsLimit, "limit", 0, "maximum reports to list")
	reportsCmd.AddCommand(reportsListCmd, reportsGetCmd, reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}
