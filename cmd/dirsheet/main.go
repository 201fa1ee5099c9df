package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/IvanShishkin/dirsheet/internal/config"
	"github.com/IvanShishkin/dirsheet/internal/core"
	"github.com/IvanShishkin/dirsheet/internal/report"
	"github.com/IvanShishkin/dirsheet/internal/shell"
	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the process-wide wiring for one invocation
type app struct {
	in          io.Reader
	out         io.Writer
	interactive bool // stdin and stdout are terminals

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	a := &app{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: interactive,
	}

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dirsheet",
		Short: "Export a folder's file inventory to a spreadsheet",
		Long: `Recursively scans a folder and writes one row per file (folder, name,
path, size, dates, extension, hidden and access flags) to an Excel workbook.`,
		Version:       core.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("format", "", "Report format: xlsx, csv, json, yaml, md (default: from output extension, else xlsx)")
	flags.StringP("output", "o", "", "Output file path")
	flags.String("sheet", config.DefaultSheetName, "Worksheet name for xlsx reports")
	flags.String("metrics-file", "", "Write scan metrics in Prometheus textfile format")
	flags.String("upload", "", "Upload the report to s3://bucket/key after saving")
	flags.String("s3-region", "", "S3 region")
	flags.String("s3-endpoint", "", "S3-compatible endpoint URL")
	flags.Bool("s3-path-style", false, "Use path-style S3 addressing")
	flags.Int("upload-timeout", 0, "Upload timeout in seconds (0: no timeout)")

	// Disable built-in help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(scanCmd(a))
	rootCmd.AddCommand(shellCmd(a))
	rootCmd.AddCommand(columnsCmd())

	return rootCmd
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Verbose {
		a.logger, err = zap.NewDevelopment()
	} else {
		// Warnings keep skipped-file diagnostics visible
		zcfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.WarnLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		a.logger, err = zcfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// scanCmd creates the scan command
func scanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [folder]",
		Short: "Scan a folder and save the file details report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := core.NewPipeline(a.cfg, a.logger)

			if a.interactive {
				pipeline.Scanner().SetProgressCallback(func(phase string, current int, message string) {
					if phase == "scanning" && current > 0 {
						fmt.Fprintf(a.out, "\r  Scanning... %d files", current)
					}
				})
			}

			fmt.Fprintf(a.out, "\n  Scanning folder %s...\n", args[0])
			results, err := pipeline.Scan(args[0])
			if errors.Is(err, core.ErrNoFiles) {
				fmt.Fprintf(a.out, "\n  %s\n\n", core.Describe(err))
				return err
			}
			if err != nil {
				return err
			}

			output := pipeline.OutputPath("")
			if a.cfg.OutputFile == "" && a.interactive {
				output = a.promptOutput(output)
			}

			err = pipeline.Export(cmd.Context(), results, output)
			if results.ReportPath != "" {
				report.PrintSummary(a.out, results)
				if results.UploadedTo != "" {
					fmt.Fprintf(a.out, "  Uploaded: %s\n\n", results.UploadedTo)
				}
			}
			if err != nil {
				return errors.New(core.Describe(err))
			}
			return nil
		},
	}
}

// promptOutput asks for the report path, returning def on empty input
func (a *app) promptOutput(def string) string {
	fmt.Fprintf(a.out, "\n  Save report as [%s]: ", def)

	reader := bufio.NewReader(a.in)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	if filepath.Ext(input) == "" {
		input += filepath.Ext(def)
	}
	return input
}

// shellCmd creates the interactive shell command
func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Pick a folder and save location interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive {
				return errors.New("shell requires an interactive terminal")
			}

			// The TUI owns the terminal, diagnostics only in verbose mode
			logger := zap.NewNop()
			if a.cfg.Verbose {
				logger = a.logger
			}

			return shell.Run(cmd.Context(), core.NewPipeline(a.cfg, logger), a.cfg.ResolveFormat())
		},
	}
}

// columnsCmd lists the report columns
func columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List report columns in output order",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for i, c := range models.Columns() {
				fmt.Fprintf(out, "  %2d  %s\n", i+1, c)
			}
			fmt.Fprintf(out, "\n  Formats: %s\n", strings.Join(report.Formats, ", "))
		},
	}
}
