// Package cli wires the integrator command line: positional arguments,
// flags, configuration, logging and exit status.
package cli

import (
	"errors"
	"fmt"
	"integral-solver/internal/app"
	"integral-solver/internal/domain"
	"integral-solver/internal/infrastructure"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath  string
	workers     int
	seeds       int
	tolerance   float64
	minWidth    float64
	termination string
	mode        string
	logLevel    string
	logFile     string
	decimals    int
	noTime      bool
}

// NewRootCommand builds the integrator command. The result is printed to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "integrator [x min] [x max] [type]",
		Short: "Adaptive trapezoid integration on a pool of workers",
		Long:  longDescription(),
		Example: "  integrator 2 5 4\n" +
			"  integrator --workers 8 --termination spin 0 3.14159 4\n" +
			"  integrator -1 1 3",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return fmt.Errorf("%w: got %d of 3", domain.ErrUsage, len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to an optional YAML config file")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of workers (default: number of CPUs)")
	flags.IntVar(&opts.seeds, "seeds", 0, "Number of seed intervals (default: one per worker)")
	flags.Float64Var(&opts.tolerance, "tolerance", domain.DefaultTolerance, "Accept an interval when both estimates differ by at most this much")
	flags.Float64Var(&opts.minWidth, "min-width", domain.DefaultMinWidth, "Accept an interval when it is no wider than this")
	flags.StringVar(&opts.termination, "termination", "wait", "Idle worker behaviour: wait or spin")
	flags.StringVar(&opts.mode, "mode", "bag", "Computation mode: bag or sequential")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file")
	flags.IntVar(&opts.decimals, "decimals", domain.DefaultDecimals, "Digits printed after the decimal point")
	flags.BoolVar(&opts.noTime, "no-time", false, "Do not print the elapsed time")

	cmd.SetOut(out)
	return cmd
}

// Execute runs the command with args and returns the process exit status.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(separateNegativeBounds(args))

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrUsage):
		fmt.Fprint(stdout, usageText(cmd.Name()))
	case errors.Is(err, domain.ErrUnknownFunctionType):
		fmt.Fprintln(stdout, "Unknown function type.")
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	lower, upper, fn, err := parseArgs(args)
	if err != nil {
		return err
	}

	bootstrap, err := infrastructure.NewLogger(o.logLevel, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	config, err := infrastructure.NewYAMLConfigReader(bootstrap).ReadConfig(o.configPath)
	if err != nil {
		return err
	}
	o.applyFlags(cmd, config)
	if err := config.Validate(); err != nil {
		return err
	}

	// Пересоздаём логгер с уровнем из конфигурации
	logger, err := infrastructure.NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Debug("Configuration resolved", zap.Any("config", config))

	result, err := app.NewIntegrator(logger, config).Integrate(fn, lower, upper)
	if err != nil {
		return err
	}

	writer := infrastructure.NewTextResultWriter(logger, config.Decimals, config.PrintTime())
	return writer.WriteResult(cmd.OutOrStdout(), result)
}

// applyFlags overrides config values with flags given explicitly.
func (o *options) applyFlags(cmd *cobra.Command, config *domain.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		config.Workers = o.workers
	}
	if flags.Changed("seeds") {
		config.SeedIntervals = o.seeds
	}
	if flags.Changed("tolerance") {
		config.Tolerance = o.tolerance
	}
	if flags.Changed("min-width") {
		config.MinWidth = o.minWidth
	}
	if flags.Changed("termination") {
		config.Termination = o.termination
	}
	if flags.Changed("mode") {
		config.Mode = o.mode
	}
	if flags.Changed("log-level") {
		config.LogLevel = o.logLevel
	}
	if flags.Changed("log-file") {
		config.LogFile = o.logFile
	}
	if flags.Changed("decimals") {
		config.Decimals = o.decimals
	}
	if flags.Changed("no-time") {
		showTime := !o.noTime
		config.ShowTime = &showTime
	}
}

func parseArgs(args []string) (float64, float64, domain.Function, error) {
	lower, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, domain.Function{}, fmt.Errorf("%w: x min %q is not a number", domain.ErrInvalidBounds, args[0])
	}
	upper, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, domain.Function{}, fmt.Errorf("%w: x max %q is not a number", domain.ErrInvalidBounds, args[1])
	}
	if err := domain.ValidateBounds(lower, upper); err != nil {
		return 0, 0, domain.Function{}, err
	}

	id, err := strconv.Atoi(args[2])
	if err != nil {
		return 0, 0, domain.Function{}, fmt.Errorf("%w: %q", domain.ErrUnknownFunctionType, args[2])
	}
	fn, err := domain.LookupFunction(id)
	if err != nil {
		return 0, 0, domain.Function{}, err
	}
	return lower, upper, fn, nil
}

// separateNegativeBounds inserts "--" before the first negative number so
// pflag does not read it as a shorthand flag.
func separateNegativeBounds(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		if _, err := strconv.ParseFloat(arg, 64); err != nil {
			continue
		}

		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "--")
		return append(out, args[i:]...)
	}

	if args == nil {
		return []string{}
	}
	return args
}

func longDescription() string {
	var sb strings.Builder
	sb.WriteString("Computes the definite integral of a fixed function over [x min, x max]\n")
	sb.WriteString("by adaptive trapezoid subdivision shared by a fixed pool of workers.\n\n")
	sb.WriteString(functionList())
	sb.WriteString("\nFlags must precede negative bounds.")
	return sb.String()
}

func functionList() string {
	var sb strings.Builder
	sb.WriteString("Available functions:\n")
	for _, fn := range domain.Functions() {
		fmt.Fprintf(&sb, "Type %d: %s\n", fn.ID, fn.Formula)
	}
	return sb.String()
}

func usageText(name string) string {
	fns := domain.Functions()
	ids := make([]string, len(fns))
	for i, fn := range fns {
		ids[i] = strconv.Itoa(fn.ID)
	}

	types := ids[0]
	if len(ids) > 1 {
		types = strings.Join(ids[:len(ids)-1], ", ") + " or " + ids[len(ids)-1]
	}

	var sb strings.Builder
	sb.WriteString(functionList())
	fmt.Fprintf(&sb, "Usage: %s [x min] [x max] [type (%s)]\n", name, types)
	fmt.Fprintf(&sb, "Example: %s 2 5 4\n", name)
	return sb.String()
}
