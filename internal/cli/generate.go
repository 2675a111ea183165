package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/codegen"
	"github.com/roach88/idlcpp/internal/config"
	"github.com/roach88/idlcpp/internal/flavor"
	"github.com/roach88/idlcpp/internal/writer"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Config                   string
	Output                   string
	Plugin                   string
	Flavor                   string
	RenderParentInstructions bool
	IncludeInternal          bool
	FormatCode               bool
	Formatter                string
	FormatterArgs            string
	KeepOutput               bool
	DryRun                   bool
}

// GenerateStats counts the entities that were rendered.
type GenerateStats struct {
	Programs     int `json:"programs"`
	Accounts     int `json:"accounts"`
	DefinedTypes int `json:"defined_types"`
	Instructions int `json:"instructions"`
	Errors       int `json:"errors"`
}

// GenerateResult is the payload of a successful generate.
type GenerateResult struct {
	RunID     string        `json:"run_id"`
	IDL       string        `json:"idl"`
	Output    string        `json:"output"`
	Plugin    string        `json:"plugin"`
	Flavor    string        `json:"flavor"`
	DryRun    bool          `json:"dry_run"`
	Digest    string        `json:"digest"`
	Files     []string      `json:"files"`
	Formatted int           `json:"formatted"`
	Stats     GenerateStats `json:"stats"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [idl]",
		Short: "Generate C++ client code from an IDL",
		Long: `Generate a C++ client module from a root-node IDL (.json or .cue).

Settings come from --config when given; flags that are set explicitly
override the file. The output directory is cleared first unless
--keep-output is set.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Config, "config", "", "config file (.yaml, .yml or .toml)")
	f.StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "output directory")
	f.StringVar(&opts.Plugin, "plugin", codegen.DefaultPlugin, "generated module name")
	f.StringVar(&opts.Flavor, "flavor", flavor.Unreal5, "output flavor (see 'idlcpp flavors')")
	f.BoolVar(&opts.RenderParentInstructions, "render-parent-instructions", false, "also render instructions that only group sub-instructions")
	f.BoolVar(&opts.IncludeInternal, "include-internal", false, "render entities marked internal")
	f.BoolVar(&opts.FormatCode, "format-code", false, "run the formatter over generated sources")
	f.StringVar(&opts.Formatter, "formatter", writer.DefaultFormatter, "formatter command")
	f.StringVar(&opts.FormatterArgs, "formatter-args", "", "extra formatter arguments, shell quoted")
	f.BoolVar(&opts.KeepOutput, "keep-output", false, "do not clear the output directory first")
	f.BoolVar(&opts.DryRun, "dry-run", false, "render without writing files")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(opts *GenerateOptions, args []string, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output") || opts.Config == "" {
		cfg.Output = opts.Output
	}
	if flags.Changed("plugin") || opts.Config == "" {
		cfg.Plugin = opts.Plugin
	}
	if flags.Changed("flavor") || opts.Config == "" {
		cfg.Flavor = opts.Flavor
	}
	if flags.Changed("render-parent-instructions") {
		cfg.RenderParentInstructions = opts.RenderParentInstructions
	}
	if flags.Changed("include-internal") {
		cfg.IncludeInternal = opts.IncludeInternal
	}
	if flags.Changed("keep-output") {
		cfg.KeepOutput = opts.KeepOutput
	}
	if flags.Changed("format-code") {
		cfg.Formatter.Enabled = opts.FormatCode
	}
	if flags.Changed("formatter") || opts.Config == "" {
		cfg.Formatter.Command = opts.Formatter
	}
	if flags.Changed("formatter-args") {
		cfg.Formatter.Args = opts.FormatterArgs
	}
	if len(args) > 0 {
		cfg.IDL = args[0]
	}
	return cfg, cfg.Validate()
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	cfg, err := resolveConfig(opts, args, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err.Error())
	}
	if cfg.IDL == "" {
		return outputCommandError(formatter, ErrCodeNoInput, "no IDL given: pass it as an argument or set idl in the config file")
	}

	runID := uuid.NewString()
	log := opts.logger(cmd).With(zap.String("run_id", runID))
	defer func() { _ = log.Sync() }()

	formatter.VerboseLog("Loading %s", cfg.IDL)
	doc, issues := loadIDL(ctx, cfg.IDL, false, log)
	if len(issues) > 0 {
		return outputIssues(formatter, "loading "+cfg.IDL, issues, loadExitCode(issues))
	}

	ropts := cfg.RendererOptions()
	ropts.Logger = log
	r, err := codegen.NewRenderer(ropts)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err.Error())
	}
	m, err := r.RenderRoot(doc.Root)
	if err != nil {
		issue := renderIssue(err, r.Flavor().Name)
		return outputIssues(formatter, "generation failed", []Issue{issue}, ExitFailure)
	}

	result := &GenerateResult{
		RunID:  runID,
		IDL:    cfg.IDL,
		Output: cfg.Output,
		Plugin: r.Plugin(),
		Flavor: r.Flavor().Name,
		DryRun: opts.DryRun,
		Digest: m.Digest(),
		Files:  m.Paths(),
		Stats:  GenerateStats(r.Stats(doc.Root)),
	}

	if !opts.DryRun {
		written, err := writer.Write(ctx, cfg.Output, m, writer.Options{KeepExisting: cfg.KeepOutput, Logger: log})
		if err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitFailure, "writing output", err)
		}
		if cfg.Formatter.Enabled {
			formatted := writer.Format(ctx, written, writer.Formatter{
				Command: cfg.Formatter.Command,
				Args:    cfg.Formatter.Args,
				Logger:  log,
			})
			result.Formatted = len(formatted)
		}
	}
	log.Info("generation finished",
		zap.String("plugin", result.Plugin),
		zap.Int("files", len(result.Files)),
		zap.Bool("dry_run", result.DryRun))

	return outputGenerateSuccess(formatter, result)
}

// outputGenerateSuccess outputs the generation summary.
func outputGenerateSuccess(formatter *OutputFormatter, result *GenerateResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	verb := "Generated"
	if result.DryRun {
		verb = "Rendered"
	}
	fmt.Fprintf(formatter.Writer, "✓ %s %d file(s) for %s (%s)\n\n", verb, len(result.Files), result.Plugin, result.Flavor)

	s := result.Stats
	if err := formatter.Table([][]string{
		{"Entity", "Count"},
		{"Programs", strconv.Itoa(s.Programs)},
		{"Accounts", strconv.Itoa(s.Accounts)},
		{"Defined types", strconv.Itoa(s.DefinedTypes)},
		{"Instructions", strconv.Itoa(s.Instructions)},
		{"Errors", strconv.Itoa(s.Errors)},
	}); err != nil {
		return err
	}

	if result.DryRun {
		fmt.Fprintln(formatter.Writer, "Dry run: nothing written")
	} else {
		fmt.Fprintf(formatter.Writer, "Output: %s\n", result.Output)
		if result.Formatted > 0 {
			fmt.Fprintf(formatter.Writer, "Formatted: %d file(s)\n", result.Formatted)
		}
	}
	for _, f := range result.Files {
		formatter.VerboseLog("  %s", filepath.ToSlash(f))
	}
	return nil
}

// outputCommandError reports a usage-level problem (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputIssues reports problems found in the IDL or while rendering it.
func outputIssues(formatter *OutputFormatter, what string, issues []Issue, exit int) error {
	if formatter.Format == "json" {
		_ = formatter.Error(issues[0].Code, issues[0].Message, issues)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s\n\n", what)
		printIssues(formatter, issues)
	}
	return NewExitError(exit, fmt.Sprintf("%s: %s: %s", what, issues[0].Code, issues[0].Message))
}

func printIssues(formatter *OutputFormatter, issues []Issue) {
	for _, i := range issues {
		if i.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", i.File, i.Line, i.Column)
		}
		if i.Flavor != "" {
			fmt.Fprintf(formatter.Writer, "  [%s] %s: %s\n", i.Flavor, i.Code, i.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", i.Code, i.Message)
		}
		if i.Hint != "" {
			fmt.Fprintf(formatter.Writer, "  hint: %s\n", i.Hint)
		}
		fmt.Fprintln(formatter.Writer)
	}
}
