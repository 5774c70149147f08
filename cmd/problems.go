package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Browse the problem bank",
}

var problemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all problems (optionally filtered by tag or mode)",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		mode, _ := cmd.Flags().GetString("mode")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %-40s  %-9s  %s\n", "ID", "Title", "Mode", "Tags")
		fmt.Fprintln(out, strings.Repeat("─", 90))

		n := 0
		for _, p := range bank.List() {
			if mode != "" && string(p.Mode) != mode {
				continue
			}
			if tag != "" && !hasTag(p.Tags, tag) {
				continue
			}
			title := p.Title
			if len(title) > 40 {
				title = title[:37] + "..."
			}
			fmt.Fprintf(out, "%-24s  %-40s  %-9s  %s\n", p.ID, title, p.Mode, strings.Join(p.Tags, ", "))
			n++
		}

		fmt.Fprintf(out, "\n%d problems\n", n)
		return nil
	},
}

var problemsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}
		p, err := bank.Get(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s — %s\n\n", p.ID, p.Title)
		fmt.Fprintf(out, "%s\n\n", p.Argument)
		fmt.Fprintf(out, "Mode:    %s\n", p.Mode)
		fmt.Fprintf(out, "Terms:   %s\n", strings.Join(p.Options, ", "))
		if len(p.Tags) > 0 {
			fmt.Fprintf(out, "Tags:    %s\n", strings.Join(p.Tags, ", "))
		}
		if p.Source != "" {
			fmt.Fprintf(out, "Source:  %s\n", p.Source)
		}
		return nil
	},
}

func init() {
	problemsListCmd.Flags().String("tag", "", "Only problems with this tag")
	problemsListCmd.Flags().String("mode", "", "Only problems in this mode (five-step or two-step)")

	problemsCmd.AddCommand(problemsListCmd)
	problemsCmd.AddCommand(problemsShowCmd)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
