package cliconfig_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli"
	"gotest.tools/v3/assert"

	"github.com/masklog/secretsweeper/cliconfig"
)

type testConfig struct {
	Patterns []string `cli:"pattern" normalize:"list"`
	In       string   `cli:"in" normalize:"filepath"`
	Limit    int      `cli:"limit"`
}

// newContext builds a cli.Context the same way cli.App does when parsing
// real command-line arguments: each flag is registered onto a FlagSet via
// its own Apply method, then parsed.
func newContext(t *testing.T, flags []cli.Flag, args []string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	assert.NilError(t, set.Parse(args))

	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoaderBindsFlagsOntoTaggedConfig(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, []cli.Flag{
		cli.StringSliceFlag{Name: "pattern", Value: &cli.StringSlice{}},
		cli.IntFlag{Name: "limit"},
	}, []string{"--pattern", "a,b", "--pattern", "c", "--limit", "15"})

	cfg := testConfig{}
	loader := cliconfig.Loader{CLI: ctx, Config: &cfg}
	warnings, err := loader.Load()
	assert.NilError(t, err)
	assert.Assert(t, len(warnings) == 0)
	assert.DeepEqual(t, cfg.Patterns, []string{"a", "b", "c"})
	assert.Equal(t, cfg.Limit, 15)
}

func TestLoaderNormalizesFilepathField(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, []cli.Flag{
		cli.StringFlag{Name: "in"},
	}, []string{"--in", "./secrets.txt"})

	cfg := testConfig{}
	loader := cliconfig.Loader{CLI: ctx, Config: &cfg}
	_, err := loader.Load()
	assert.NilError(t, err)

	wd, err := os.Getwd()
	assert.NilError(t, err)
	assert.Equal(t, cfg.In, filepath.Join(wd, "secrets.txt"))
}

func TestLoaderErrorsOnMissingConfigFile(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, []cli.Flag{
		cli.StringFlag{Name: "config"},
	}, []string{"--config", "/no/such/config/file"})

	cfg := testConfig{}
	loader := cliconfig.Loader{CLI: ctx, Config: &cfg}
	_, err := loader.Load()
	assert.ErrorContains(t, err, "could not be found")
}
