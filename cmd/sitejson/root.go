package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	sitejson "github.com/goliatone/go-sitejson"
	"github.com/goliatone/go-sitejson/cmd/sitejson/internal/bootstrap"
)

// version is set at link time.
var version = "dev"

var moduleBuilder = bootstrap.BuildModule

type cliOptions struct {
	fs          afero.Fs
	configPath  string
	outputDir   string
	dryRun      bool
	metricsFile string
	logLevel    string
}

func newRootCommand() *cobra.Command {
	return newRootCommandWithFS(afero.NewOsFs())
}

func newRootCommandWithFS(fs afero.Fs) *cobra.Command {
	opts := &cliOptions{fs: fs}
	root := &cobra.Command{
		Use:           "sitejson",
		Short:         "Convert markdown trees into JSON:API files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./sitejson.{yaml,json,toml})")
	root.AddCommand(newBuildCommand(opts), newVersionCommand())
	return root
}

func newBuildCommand(opts *cliOptions) *cobra.Command {
	build := &cobra.Command{
		Use:   "build [roots...]",
		Short: "Build JSON output for one or more markdown roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runBuild(ctx, cmd.OutOrStdout(), opts, args)
		},
	}
	build.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory (overrides outputDir)")
	build.Flags().BoolVar(&opts.dryRun, "dry-run", false, "run every step without writing files")
	build.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	build.Flags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")
	return build
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sitejson version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

func runBuild(ctx context.Context, out io.Writer, opts *cliOptions, roots []string) error {
	cfg, err := bootstrap.LoadConfig(opts.fs, opts.configPath)
	if err != nil {
		return err
	}
	if dir := strings.TrimSpace(opts.outputDir); dir != "" {
		cfg.OutputDir = dir
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		cfg.Logging.Level = level
	}

	module, err := moduleBuilder(bootstrap.Options{
		FS:     opts.fs,
		Config: cfg,
		DryRun: opts.dryRun,
	})
	if err != nil {
		return err
	}

	result, buildErr := module.Module.Build(ctx, roots...)
	if opts.metricsFile != "" {
		if err := module.Metrics.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if buildErr != nil {
		return buildErr
	}
	printSummary(out, result)
	return nil
}

func printSummary(out io.Writer, result *sitejson.BuildResult) {
	if result == nil {
		return
	}
	mode := "build"
	if result.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(out, "%s %s: %d documents, %d files, %d pages, %d chunks in %s\n",
		mode, result.RunID, result.Documents, len(result.Files), result.Pages, result.Chunks,
		result.Duration.Round(time.Millisecond))
	for _, root := range result.Roots {
		if root.Skipped {
			fmt.Fprintf(out, "  %s: skipped (missing)\n", root.Root)
			continue
		}
		fmt.Fprintf(out, "  %s: %d documents, %d files\n", root.Root, root.Documents, len(root.Files))
	}
}
