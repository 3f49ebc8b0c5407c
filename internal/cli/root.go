// Package cli implements the rdfstore command line front end.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/rdfstore"
	"github.com/opd-ai/rdfstore/config"
	"github.com/opd-ai/rdfstore/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Data []string // Turtle files loaded before the command runs

	viper  *viper.Viper
	config *config.Config
}

// NewRootCommand creates the root command for the rdfstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "rdfstore",
		Short: "Embedded RDF quad store",
		Long: `Add, query and exchange RDF statements in an embedded quad store.

Terms are plain text: "_:label" is a blank node, http:// and https:// text
is an IRI and anything else is a literal. Settings come from flags,
RDFSTORE_* environment variables and an optional config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(opts.viper)
			if err != nil {
				return err
			}
			if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			opts.config = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("backend", "memory", "storage backend (memory|sqlite)")
	flags.String("sqlite-path", ":memory:", "sqlite database path")
	flags.String("log-level", "warn", "log level")
	flags.String("log-format", "text", "log format (text|json)")
	flags.Bool("deterministic", false, "fixed clock and seeded blank node labels")
	flags.String("seed", "rdfstore", "seed for deterministic mode")
	flags.StringSliceVar(&opts.Data, "data", nil, "Turtle files to load before running the command")

	for key, name := range map[string]string{
		config.KeyConfigFile:    "config",
		config.KeyBackend:       "backend",
		config.KeySQLitePath:    "sqlite-path",
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
		config.KeyDeterministic: "deterministic",
		config.KeySeed:          "seed",
	} {
		if err := opts.viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewContainsCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewQuadsCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))

	return cmd
}

// withStore opens a store from the resolved configuration, loads every
// --data file into it and passes it to fn.
func withStore(cmd *cobra.Command, opts *RootOptions, fn func(*rdfstore.Store) error) error {
	store, err := rdfstore.New(rdfstore.OptionsFromConfig(opts.config))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "withStore",
				"error":    err.Error(),
			}).Warn("Failed to close store")
		}
	}()

	for _, path := range opts.Data {
		if err := loadFile(cmd, store, path, ""); err != nil {
			return err
		}
	}
	if err := fn(store); err != nil {
		return err
	}
	logrus.WithFields(logging.OperationFields(cmd.Name(), "ok", logrus.Fields{
		"function": "withStore",
		"backend":  opts.config.Backend,
	})).Debug("Command completed")
	return nil
}

// loadFile loads the Turtle document at path, or standard input for "-".
func loadFile(cmd *cobra.Command, store *rdfstore.Store, path, base string) error {
	text, err := readSource(cmd, path)
	if err != nil {
		return err
	}
	if err := store.LoadTurtle(text, base); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "loadFile",
		"path":     path,
	}).Debug("Loaded Turtle document")
	return nil
}

// readSource reads a file, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// argument returns the literal argument, or the content of standard input
// when it is "-".
func argument(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	text, err := readSource(cmd, arg)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, "\n"), nil
}
