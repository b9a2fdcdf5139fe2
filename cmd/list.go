package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timvw/muxpick/internal/mux"
	"github.com/timvw/muxpick/internal/picker"
	"github.com/timvw/muxpick/internal/session"
)

var flagJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the session table once",
	Long: `Run a single listing cycle and print the session table to stdout,
without the interactive prompt.

With --json the aggregated session records are printed as a JSON array
instead, for scripting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		m, err := mux.Detect(cfg.Tmux)
		if err != nil {
			return err
		}

		agg := &session.Aggregator{Mux: m}
		sessions, err := agg.Aggregate(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if flagJSON {
			data, err := json.MarshalIndent(sessions, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Print(picker.RenderTable(sessions, cfg.MaxRowHeight, cfg.TimeFormat, widthFunc()))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "print session records as JSON")
	rootCmd.AddCommand(listCmd)
}
