package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tracewell/skiptrace/internal/extract"
)

var (
	extractSubject subjectFlags
	extractSource  string
	extractAll     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract contact entities from result text",
	Long:  "Runs the pattern library over the given text (or stdin when omitted) and prints extracted entities ranked by confidence.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("extract"); err != nil {
			return err
		}

		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			text = string(data)
		}

		table, err := loadGeoTable()
		if err != nil {
			return err
		}

		limit := cfg.Extract.InteractiveCap
		if extractAll {
			limit = 0
		}

		entities := extract.New(table).Extract(text, extractSubject.context(), extract.Options{
			MaxEntities: limit,
			Source:      extractSource,
		})
		return printJSON(entities)
	},
}

func init() {
	extractSubject.register(extractCmd)
	extractCmd.Flags().StringVar(&extractSource, "source", "cli", "source label for extracted entities")
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "return every entity instead of the interactive cap")
	rootCmd.AddCommand(extractCmd)
}
