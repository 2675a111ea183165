package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/codegen"
	"github.com/roach88/idlcpp/internal/flavor"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Flavors  []string `json:"flavors"`
	Warnings []Issue  `json:"warnings,omitempty"`
	Errors   []Issue  `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Flavor string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <idl>",
		Short: "Check an IDL without writing any files",
		Long: `Load an IDL strictly and render it in memory.

Performs schema validation, name and public key checks, and a full render
for every flavor (or only --flavor), so constructs that have no C++
rendering are reported without generating output files.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Flavor, "flavor", "", "only render with this flavor")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger(cmd)
	defer func() { _ = log.Sync() }()

	flavors := flavor.Names()
	if opts.Flavor != "" {
		f, err := flavor.Get(opts.Flavor)
		if err != nil {
			return outputCommandError(formatter, ErrCodeConfig, err.Error())
		}
		flavors = []string{f.Name}
	}

	formatter.VerboseLog("Loading %s", path)
	doc, issues := loadIDL(cmd.Context(), path, true, log)
	if len(issues) > 0 {
		if code := loadExitCode(issues); code == ExitCommandError {
			return outputCommandError(formatter, issues[0].Code, issues[0].Message)
		}
		return outputValidationErrors(formatter, ValidationResult{Flavors: flavors, Errors: issues})
	}

	result := ValidationResult{Flavors: flavors}
	for _, name := range flavors {
		formatter.VerboseLog("Rendering with %s", name)
		r, err := codegen.NewRenderer(codegen.Options{Flavor: name, Logger: log.With(zap.String("check", "validate"))})
		if err != nil {
			result.Errors = append(result.Errors, renderIssue(err, name))
			continue
		}
		if _, err := r.RenderRoot(doc.Root); err != nil {
			result.Errors = append(result.Errors, renderIssue(err, name))
		}
	}
	for _, w := range doc.Warnings {
		result.Warnings = append(result.Warnings, loadIssue(w))
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ IDL valid for %d flavor(s)\n", len(result.Flavors))
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		resp := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	printIssues(formatter, errs)

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
