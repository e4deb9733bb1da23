package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/event-discovery-service/internal/domain"
)

var searchFlags struct {
	address  string
	lat, lon float64
	radius   float64
	category string
	date     string
	keyword  string
	jsonOut  bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List events near an address or coordinate",
	Long:  "Runs one discovery and prints matching events ranked by distance from the origin.",
	Example: `  nearby search --address "Union Station, Toronto" --radius 5 --category music
  nearby search --lat 43.6532 --lon -79.3832 --date 2024-05-01 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		q, err := buildQuery(cmd)
		if err != nil {
			return err
		}
		if q.Origin == nil {
			origin, err := disc.ResolveOrigin(ctx, searchFlags.address)
			if err != nil {
				return err
			}
			q.Origin = &origin
		}

		result, err := disc.Discover(ctx, q)
		if err != nil {
			var nerr *domain.NotFoundError
			if errors.As(err, &nerr) {
				fmt.Fprintln(cmd.OutOrStdout(), nerr.Message)
				return nil
			}
			return err
		}

		if searchFlags.jsonOut {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

// buildQuery maps flags onto a query. Origin is left nil when --address is used.
// Every flag is checked here so a bad search never reaches the geocoder.
func buildQuery(cmd *cobra.Command) (domain.Query, error) {
	if err := domain.ValidateRadius(searchFlags.radius); err != nil {
		return domain.Query{}, err
	}
	q := domain.Query{RadiusKm: searchFlags.radius, Keyword: searchFlags.keyword}

	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	switch {
	case latSet != lonSet:
		return domain.Query{}, errors.New("--lat and --lon must be given together")
	case latSet && searchFlags.address != "":
		return domain.Query{}, errors.New("use either --address or --lat/--lon")
	case latSet:
		origin, err := domain.NewLocation(fmt.Sprintf("%.6f,%.6f", searchFlags.lat, searchFlags.lon), searchFlags.lat, searchFlags.lon)
		if err != nil {
			return domain.Query{}, err
		}
		q.Origin = &origin
	case searchFlags.address == "":
		return domain.Query{}, errors.New("one of --address or --lat/--lon is required")
	}

	if searchFlags.category != "" {
		c, err := domain.ParseCategory(searchFlags.category)
		if err != nil {
			return domain.Query{}, err
		}
		q.Category = c
	}
	if searchFlags.date != "" {
		d, err := time.Parse(time.DateOnly, searchFlags.date)
		if err != nil {
			return domain.Query{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		q.Date = &d
	}
	return q, nil
}

func addSearchFlags(f *pflag.FlagSet) {
	f.StringVarP(&searchFlags.address, "address", "a", "", "free-text origin address, geocoded via Nominatim")
	f.Float64Var(&searchFlags.lat, "lat", 0, "origin latitude")
	f.Float64Var(&searchFlags.lon, "lon", 0, "origin longitude")
	f.Float64VarP(&searchFlags.radius, "radius", "r", 25, "search radius in km")
	f.StringVarP(&searchFlags.category, "category", "c", "", "music, sports, arts_theatre, film or miscellaneous")
	f.StringVar(&searchFlags.date, "date", "", "only events on this UTC day (YYYY-MM-DD)")
	f.StringVarP(&searchFlags.keyword, "keyword", "k", "", "free-text keyword")
	f.BoolVar(&searchFlags.jsonOut, "json", false, "print the raw result as JSON")
}

func init() {
	addSearchFlags(searchCmd.Flags())
	rootCmd.AddCommand(searchCmd)
}
