package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/trilogic/internal/validate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate one step of a submission (no database)",
	Long: `Check a learner submission against a problem's answer and print the verdict.

The submission is the same JSON document the HTTP check endpoint accepts.
Nothing is recorded. Useful for testing new problem files.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("problem", "", "Problem ID (required)")
	checkCmd.Flags().Int("step", 1, "Step to check")
	checkCmd.Flags().String("file", "-", "Submission JSON file, or - for stdin")
	checkCmd.Flags().Bool("json", false, "Print the verdict as JSON")
	_ = checkCmd.MarkFlagRequired("problem")
}

func runCheck(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("problem")
	step, _ := cmd.Flags().GetInt("step")
	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bank, err := loadBank(cfg)
	if err != nil {
		return err
	}
	p, err := bank.Get(id)
	if err != nil {
		return err
	}

	maxStep := 5
	if p.Mode == validate.ModeTwoStep {
		maxStep = 2
	}
	if step < 1 || step > maxStep {
		return fmt.Errorf("invalid step %d: %s problems have steps 1-%d", step, p.Mode, maxStep)
	}

	data, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	var sub validate.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("parse submission: %w", err)
	}

	verdict := validate.Check(p.Mode, step, sub, sub.Registry(), p.Spec)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	}

	result := "incorrect"
	if verdict.Correct {
		result = "correct"
	}
	fmt.Fprintf(out, "%s step %d: %s\n", p.ID, step, result)
	if p.Mode == validate.ModeFiveStep && step == 4 && verdict.MatchedVariant != validate.NoMatch {
		fmt.Fprintf(out, "matched accepted answer %d\n", verdict.MatchedVariant)
	}
	return nil
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	return data, nil
}
