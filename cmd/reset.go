package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved unfinished attempts",
	Long: `Delete every saved attempt snapshot so no problem resumes where it was left.
Recorded attempt and session events are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to reset without --yes")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SnapshotRepo().Prune(cmd.Context(), 0); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved attempts discarded.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
