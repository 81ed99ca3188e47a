package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tracewell/skiptrace/internal/pipeline"
	"github.com/tracewell/skiptrace/internal/store"
)

var (
	analyzeSubject subjectFlags
	analyzeInput   string
	analyzeNoSave  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline over a document set",
	Long:  "Reads a JSON array of documents from --input (or stdin), extracts and cross-verifies entities, deduplicates results, and prints the report. The report is persisted unless --no-save is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		var r io.Reader = os.Stdin
		if analyzeInput != "" {
			f, err := os.Open(analyzeInput)
			if err != nil {
				return eris.Wrapf(err, "open %s", analyzeInput)
			}
			defer f.Close()
			r = f
		}

		var docs []pipeline.Document
		if err := json.NewDecoder(r).Decode(&docs); err != nil {
			return eris.Wrap(err, "decode documents")
		}

		table, err := loadGeoTable()
		if err != nil {
			return err
		}

		report, err := pipeline.New(cfg, table).Analyze(cmd.Context(), analyzeSubject.context(), docs)
		if err != nil {
			return err
		}

		if !analyzeNoSave {
			st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := st.SaveReport(cmd.Context(), report); err != nil {
				return err
			}
			zap.L().Info("report saved", zap.String("report", report.ID))
		}

		return printJSON(report)
	},
}

func init() {
	analyzeSubject.register(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "path to a JSON document array (default stdin)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "skip persisting the report")
	rootCmd.AddCommand(analyzeCmd)
}
