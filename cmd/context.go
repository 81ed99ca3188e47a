package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
)

// subjectFlags holds the search-context flags shared by the interactive
// commands.
type subjectFlags struct {
	name    string
	city    string
	state   string
	phone   string
	email   string
	dob     string
	address string
}

func (f *subjectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "subject full name (required)")
	cmd.Flags().StringVar(&f.city, "city", "", "subject city")
	cmd.Flags().StringVar(&f.state, "state", "", "subject state code or name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "known phone number")
	cmd.Flags().StringVar(&f.email, "email", "", "known email address")
	cmd.Flags().StringVar(&f.dob, "dob", "", "date of birth")
	cmd.Flags().StringVar(&f.address, "address", "", "known address")
	cmd.MarkFlagRequired("name")
}

func (f *subjectFlags) context() model.SearchContext {
	return model.SearchContext{
		Name:    f.name,
		City:    f.city,
		State:   f.state,
		Phone:   f.phone,
		Email:   f.email,
		DOB:     f.dob,
		Address: f.address,
	}
}

func loadGeoTable() (*geo.Table, error) {
	table, err := geo.Load(cfg.Geo.RegionsPath)
	if err != nil {
		return nil, eris.Wrap(err, "load geo table")
	}
	return table, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
