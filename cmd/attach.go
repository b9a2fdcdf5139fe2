package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timvw/muxpick/internal/mux"
)

var attachCmd = &cobra.Command{
	Use:   "attach <name>",
	Short: "Attach to a session, creating it first if needed",
	Long: `Attach to the named session without going through the prompt.

The session is created when no session with that name exists yet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := mux.ValidateSessionName(name); err != nil {
			return err
		}

		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		m, err := mux.Detect(cfg.Tmux)
		if err != nil {
			return err
		}

		exists, err := m.Has(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("checking for session %s: %w", name, err)
		}
		if exists {
			return m.Attach(cmd.Context(), name)
		}
		return m.Create(cmd.Context(), name)
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
