// Command secretsweeper-mask is the CLI entry point for the secretsweeper
// engine: it reads a byte stream (a file or stdin), redacts every
// occurrence of a caller-supplied set of patterns, and writes the masked
// result to a file or stdout.
//
// It is a urfave/cli.App with a tagged config struct bound by
// cliconfig.Loader, a console logger, and the usual debug/log-level/
// no-color global flags.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/masklog/secretsweeper"
	"github.com/masklog/secretsweeper/cliconfig"
	"github.com/masklog/secretsweeper/logger"
	"github.com/masklog/secretsweeper/redact"
)

// Config is the tagged struct cliconfig.Loader binds flags, environment
// variables, and an optional config file onto.
type Config struct {
	Patterns       []string `cli:"pattern" normalize:"list"`
	PatternFile    string   `cli:"pattern-file" normalize:"filepath"`
	PatternEnvGlob []string `cli:"pattern-env-glob" normalize:"list"`
	Limit          int      `cli:"limit"`
	In             string   `cli:"in" normalize:"filepath"`
	Out            string   `cli:"out" normalize:"filepath"`

	Config   string `cli:"config"`
	Debug    bool   `cli:"debug"`
	LogLevel string `cli:"log-level"`
	NoColor  bool   `cli:"no-color"`
}

var (
	patternFlag = cli.StringSliceFlag{
		Name:  "pattern",
		Value: &cli.StringSlice{},
		Usage: "A literal byte pattern to redact. May be repeated.",
	}
	patternFileFlag = cli.StringFlag{
		Name:  "pattern-file",
		Usage: "Path to a file of patterns to redact, one per line.",
	}
	patternEnvGlobFlag = cli.StringSliceFlag{
		Name:  "pattern-env-glob",
		Value: &cli.StringSlice{},
		Usage: "A glob (path.Match syntax) matched against environment variable names; matching values become patterns to redact. May be repeated.",
	}
	limitFlag = cli.IntFlag{
		Name:  "limit",
		Value: secretsweeper.DefaultLimit,
		Usage: "Maximum number of asterisks emitted per masked run; 0 deletes the run entirely.",
	}
	inFlag = cli.StringFlag{
		Name:  "in",
		Usage: "Path to the input file. Defaults to stdin.",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "Path to the output file. Defaults to stdout.",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Path to a config file of key=value pattern/limit/in/out settings.",
	}
	debugFlag = cli.BoolFlag{
		Name:   "debug",
		Usage:  "Enable debug logging. Synonym for --log-level debug.",
		EnvVar: "SECRETSWEEPER_DEBUG",
	}
	logLevelFlag = cli.StringFlag{
		Name:   "log-level",
		Usage:  "One of debug, notice, warn.",
		EnvVar: "SECRETSWEEPER_LOG_LEVEL",
		Value:  "notice",
	}
	noColorFlag = cli.BoolFlag{
		Name:   "no-color",
		Usage:  "Disable color output.",
		EnvVar: "SECRETSWEEPER_NO_COLOR",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "secretsweeper-mask"
	app.Usage = "Redact literal byte patterns from a file or stdin"
	app.Flags = []cli.Flag{
		patternFlag,
		patternFileFlag,
		patternEnvGlobFlag,
		limitFlag,
		inFlag,
		outFlag,
		configFlag,
		debugFlag,
		logLevelFlag,
		noColorFlag,
	}
	app.Action = action

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func action(c *cli.Context) error {
	cfg := Config{Limit: secretsweeper.DefaultLimit}
	loader := cliconfig.Loader{CLI: c, Config: &cfg}
	warnings, err := loader.Load()
	if err != nil {
		return err
	}

	l := createLogger(cfg)
	for _, w := range warnings {
		l.Warn("%s", w)
	}

	patterns, err := collectPatterns(l, cfg)
	if err != nil {
		return err
	}

	in := os.Stdin
	if cfg.In != "" {
		f, err := os.Open(cfg.In)
		if err != nil {
			return fmt.Errorf("opening input %s: %w", cfg.In, err)
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", cfg.Out, err)
		}
		defer f.Close()
		out = f
	}

	w, err := secretsweeper.NewStream(in, redact.Seq(patterns), cfg.Limit)
	if err != nil {
		return err
	}

	l.Debug("masking %d pattern(s) with limit %d", len(patterns), cfg.Limit)

	if _, err := io.Copy(out, w); err != nil {
		return fmt.Errorf("masking input: %w", err)
	}

	return nil
}

// collectPatterns gathers patterns from --pattern, --pattern-file, and
// --pattern-env-glob, logging (at debug level) the names of environment
// variables that matched a glob but whose value was too short to redact.
//
// --pattern values and environment-sourced values are passed through
// redact.NormalizeMultiline: a --pattern value containing a literal newline
// (for instance one sourced from a --config file whose value was quoted and
// so had "\n" escapes expanded by cliconfig's parser) or an environment
// variable holding a multi-line secret such as a pasted private key may
// carry stray "\r" or per-line whitespace that would otherwise stop it from
// matching the clean secret it was meant to catch. --pattern-file lines are
// already one pattern per line and left as-is.
func collectPatterns(l logger.Logger, cfg Config) ([]string, error) {
	var patterns []string

	for _, p := range cfg.Patterns {
		patterns = append(patterns, redact.NormalizeMultiline(p))
	}

	if cfg.PatternFile != "" {
		lines, err := readLines(cfg.PatternFile)
		if err != nil {
			return nil, fmt.Errorf("reading pattern file %s: %w", cfg.PatternFile, err)
		}
		patterns = append(patterns, lines...)
	}

	if len(cfg.PatternEnvGlob) > 0 {
		values, short, err := redact.NeedlesFromEnv(cfg.PatternEnvGlob)
		if err != nil {
			return nil, fmt.Errorf("matching --pattern-env-glob: %w", err)
		}
		for _, name := range short {
			l.Debug("environment variable %s matched a pattern-env-glob but was too short to redact", name)
		}
		for _, v := range values {
			patterns = append(patterns, redact.NormalizeMultiline(v))
		}
	}

	out := patterns[:0]
	for _, p := range patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// readLines returns the non-blank lines of path, one pattern per line, with
// any trailing "\r" trimmed.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// createLogger builds a console logger the same way clicommand.CreateLogger
// does: text printer to stderr, colour unless --no-color or non-tty, level
// from --log-level with --debug taking precedence.
func createLogger(cfg Config) logger.Logger {
	printer := logger.NewTextPrinter(os.Stderr)
	printer.Colors = logger.ColorsSupported() && !cfg.NoColor

	l := logger.NewConsoleLogger(printer)
	l.SetLevel(logger.NOTICE)

	if cfg.LogLevel != "" {
		if level, err := logger.LevelFromString(cfg.LogLevel); err == nil {
			l.SetLevel(level)
		}
	}
	if cfg.Debug {
		l.SetLevel(logger.DEBUG)
	}

	return l
}
