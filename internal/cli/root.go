// Package cli implements the lpdb command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/lpdb-go/pkg/config"
	"github.com/r9s-ai/lpdb-go/pkg/httpclient"
	"github.com/r9s-ai/lpdb-go/pkg/lpdb"
)

const (
	defaultConfigPath = "lpdb.yaml"
	defaultEnvFile    = ".env"
)

type globalOptions struct {
	cfgPath string
	envFile string
	debug   bool

	// httpClient replaces the configured transport; set by tests.
	httpClient httpclient.HTTPDoer
}

// Execute runs the command tree with os.Args and reports errors on stderr.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&globalOptions{})
}

func newRootCmdWith(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lpdb",
		Short:         "Query the Liquipedia database (LPDB) v3 API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.cfgPath, "config", "c", defaultConfigPath, "config yaml path (optional)")
	pf.StringVar(&g.envFile, "env-file", defaultEnvFile, "dotenv file loaded before reading config")
	pf.BoolVar(&g.debug, "debug", false, "print upstream requests and responses to stderr")

	cmd.AddCommand(newQueryCmd(g))
	cmd.AddCommand(newConditionsCmd())
	cmd.AddCommand(newResourcesCmd(g))
	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig loads the dotenv file, then the YAML config. Missing default
// files are not an error.
func (g *globalOptions) loadConfig() (*config.Config, error) {
	if path := strings.TrimSpace(g.envFile); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %q: %w", path, err)
		}
	}
	cfg, err := config.LoadIfExists(strings.TrimSpace(g.cfgPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", g.cfgPath, err)
	}
	if g.debug {
		cfg.Logging.Debug = true
	}
	return cfg, nil
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed).SprintFunc()
	if !isTerminal(w) {
		red = fmt.Sprint
	}
	_, _ = fmt.Fprintf(w, "%s %v\n", red("error:"), err)
	var apiErr *lpdb.APIError
	if errors.As(err, &apiErr) {
		for _, msg := range apiErr.Errors() {
			_, _ = fmt.Fprintf(w, "  %s\n", msg)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
