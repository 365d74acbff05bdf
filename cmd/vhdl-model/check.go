package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-model/internal/check"
	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Run structural checks over the model",
	Long: `Run structural checks over the model. Rule severities come from the
check.rules section of the config. The command fails when any violation has
severity error.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "print violations as JSON")
}

var errViolations = errors.New("check found errors")

// checkOutput is the --json document.
type checkOutput struct {
	Violations  []check.Violation  `json:"violations"`
	Summary     check.Summary      `json:"summary"`
	ParseErrors []parseErrorOutput `json:"parse_errors,omitempty"`
}

type parseErrorOutput struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	result, cfg, err := runIndex(cmd, args[0])
	if err != nil {
		return err
	}

	res := check.Run(check.Input{
		Design:          result.Design,
		Positions:       result.Positions,
		ThirdPartyFiles: result.ThirdPartyFiles,
	}, cfg)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		doc := checkOutput{Violations: res.Violations, Summary: res.Summary}
		for _, pe := range result.ParseErrors {
			doc.ParseErrors = append(doc.ParseErrors, parseErrorOutput{File: pe.File, Message: pe.Error()})
		}
		v, err := validator.NewOutputValidator()
		if err != nil {
			return fmt.Errorf("loading output validator: %w", err)
		}
		if err := v.Validate(doc); err != nil {
			return fmt.Errorf("CRITICAL: Check output contract violation: %w", err)
		}
		if err := encodeJSON(out, doc); err != nil {
			return err
		}
	} else {
		printViolations(out, res)
		printParseErrors(out, result.ParseErrors)
	}

	if res.Summary.Errors > 0 {
		return errViolations
	}
	return nil
}

func printViolations(out io.Writer, res *check.Result) {
	for _, v := range res.Violations {
		severityColor(v.Severity).Fprintf(out, "%-7s", v.Severity)
		fmt.Fprintf(out, " %s:%d: [%s] %s\n", v.File, v.Line, v.Rule, v.Message)
	}
	s := res.Summary
	if s.TotalViolations == 0 {
		okColor.Fprintln(out, "No violations")
		return
	}
	fmt.Fprintf(out, "\n%d violations: %s, %s, %s\n", s.TotalViolations,
		errorColor.Sprintf("%d errors", s.Errors),
		warnColor.Sprintf("%d warnings", s.Warnings),
		infoColor.Sprintf("%d info", s.Info))
}

func severityColor(severity string) *color.Color {
	switch severity {
	case config.SeverityError:
		return errorColor
	case config.SeverityWarning:
		return warnColor
	}
	return infoColor
}
