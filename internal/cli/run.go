package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fedcore/internal/harness"
)

// Golden states reported per script.
const (
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
	GoldenMissing  = "missing"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // script filter (glob pattern on the file name)
	GoldenDir string

	// RunIDs overrides the run ID source. Nil means UUIDv7.
	RunIDs harness.RunIDGenerator
}

// ScriptResult holds the result of a single script execution.
type ScriptResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	RunID  string   `json:"run_id,omitempty"`
	Pass   bool     `json:"pass"`
	Steps  int      `json:"steps"`
	Golden string   `json:"golden,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// RunResult holds the overall result.
type RunResult struct {
	Scripts []ScriptResult `json:"scripts"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Total   int            `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [scripts-dir]",
		Short: "Run construction scripts",
		Long: `Run construction scripts against the constructor library.

Each script declares input fragments and constructor steps with expected
reprs, types or failure kinds. The rendered trace of every script is
compared against <golden-dir>/<name>.golden when that file exists.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (invalid paths, etc.)

Examples:
  fedcore run ./testdata/scripts
  fedcore run ./testdata/scripts --filter "zip*"
  fedcore run ./testdata/scripts --update
  fedcore run --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.settings().ScriptsDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runScripts(opts, dir, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scripts by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden trace directory (default <scripts-dir>/../golden)")

	return cmd
}

func runScripts(opts *RunOptions, scriptsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if info, err := os.Stat(scriptsDir); err != nil || !info.IsDir() {
		msg := fmt.Sprintf("scripts directory not found: %s", scriptsDir)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	files, err := findScriptFiles(scriptsDir, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to find scripts", err)
	}

	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = opts.settings().GoldenDirFor(scriptsDir)
	}

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = harness.UUIDv7Generator{}
	}
	formatter.TraceID = runIDs.Generate()
	h := harness.New(
		harness.WithLogger(opts.logger().With("trace_id", formatter.TraceID)),
		harness.WithRunIDGenerator(runIDs),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter.VerboseLog("Found %d script(s) in %s", len(files), scriptsDir)

	result := RunResult{Scripts: make([]ScriptResult, 0, len(files)), Total: len(files)}
	for _, file := range files {
		sr := runScript(ctx, h, file, goldenDir, opts)
		if !formatter.IsJSON() {
			printScriptResult(cmd, sr)
		}
		result.Scripts = append(result.Scripts, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	var failure *CLIError
	if result.Failed > 0 {
		failure = &CLIError{
			Code:    ErrCodeRunFailed,
			Message: fmt.Sprintf("%d script(s) failed", result.Failed),
		}
	}

	if formatter.IsJSON() {
		if err := formatter.Result(result, failure); err != nil {
			return err
		}
	} else {
		outputRunText(cmd, result)
	}

	if failure != nil {
		return NewExitError(ExitFailure, failure.Message)
	}
	return nil
}

// findScriptFiles returns the *.yaml and *.yml files directly in dir,
// sorted, whose base name without extension matches filter.
func findScriptFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !harness.IsScriptFile(e.Name()) {
			continue
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// runScript loads, executes and golden-checks one script file.
func runScript(ctx context.Context, h *harness.Harness, file, goldenDir string, opts *RunOptions) ScriptResult {
	sr := ScriptResult{Name: filepath.Base(file), File: file}

	script, err := harness.LoadScript(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load script: %v", err)}
		return sr
	}
	sr.Name = script.Name

	result, err := h.Run(ctx, script)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.RunID = result.RunID
	sr.Steps = len(result.Steps)
	sr.Pass = result.Pass
	sr.Errors = result.Errors

	trace := harness.RenderTrace(result)
	goldenPath := filepath.Join(goldenDir, script.Name+".golden")

	if opts.Update {
		if err := os.MkdirAll(goldenDir, 0o755); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to create golden directory: %v", err))
			return sr
		}
		if err := os.WriteFile(goldenPath, trace, 0o644); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to write golden file: %v", err))
			return sr
		}
		sr.Golden = GoldenUpdated
		return sr
	}

	want, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		sr.Golden = GoldenMissing
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
	case bytes.Equal(want, trace):
		sr.Golden = GoldenMatch
	default:
		sr.Golden = GoldenMismatch
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
	}
	return sr
}

func printScriptResult(cmd *cobra.Command, sr ScriptResult) {
	w := cmd.OutOrStdout()
	line := fmt.Sprintf("%s %s", marker(sr.Pass), sr.Name)
	if sr.Golden == GoldenUpdated {
		line += dimText.Sprint(" (golden updated)")
	}
	fmt.Fprintln(w, line)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(e, "\n", "\n  "))
	}
}

func outputRunText(cmd *cobra.Command, result RunResult) {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scripts found.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintf(w, "%s All scripts passed\n", marker(true))
	}
}
