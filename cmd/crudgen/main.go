// Command crudgen generates typed CRUD clients from an entity schema file
// and inspects the statements and tables behind them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/internal/config"
)

// Version information (set by build).
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newApp(afero.NewOsFs()).command().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app holds the state shared by the commands. cfg and logger are set
// before any command runs.
type app struct {
	v      *viper.Viper
	fs     afero.Fs
	cfg    *config.Config
	logger *slog.Logger
}

func newApp(fs afero.Fs) *app {
	return &app{v: config.New(), fs: fs}
}

func (a *app) command() *cobra.Command {
	var file string
	root := &cobra.Command{
		Use:           "crudgen",
		Short:         "Generate typed CRUD clients from entity schemas",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				a.v.SetConfigFile(file)
			}
			cfg, err := config.Load(a.v, a.fs)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&file, "config", "", "config file (default ./.crudgen.yaml)")
	pf.String("schema", "", "schema file")
	pf.String("dialect", "", "SQL dialect: postgres, mysql or sqlite")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: text or json")
	a.bind(pf, map[string]string{
		"schema":     config.KeySchema,
		"dialect":    config.KeyDialect,
		"log-level":  config.KeyLogLevel,
		"log-format": config.KeyLogFormat,
	})

	root.AddCommand(
		a.generateCommand(),
		a.sqlCommand(),
		a.checkCommand(),
	)
	return root
}

// bind makes each flag override its configuration key when set on the
// command line.
func (a *app) bind(fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("crudgen: bind flag %q: %v", name, err))
		}
	}
}

// load reads the configured schema file.
func (a *app) load() (*load.File, error) {
	return (&load.Config{Path: a.cfg.Schema, Fs: a.fs}).Load()
}
