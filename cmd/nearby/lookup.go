package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event <id>",
	Short: "Show one event by its Ticketmaster ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := disc.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), e)
	},
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve an address to coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := disc.ResolveOrigin(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.6f,%.6f\n", loc.Address(), loc.Latitude(), loc.Longitude())
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventCmd, geocodeCmd)
}
