package main

import (
	"fmt"
	"os"
	"time"

	"github.com/leonelquinteros/gotext"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"darkterminal/pkg/game/catalog"
	"darkterminal/pkg/game/computer"
)

var (
	logLevel string
	locale   string
)

func initLogging() error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", logLevel)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	return nil
}

func initGettext() {
	if locale != "" {
		gotext.Configure("locales", locale, "default")
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "darkterminal",
		Short:         "Secured station terminals: hack, use and persist them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initGettext()
			return initLogging()
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&locale, "locale", "", "Load translations for this locale from ./locales")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newCheckCmd())
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "encode [terminal...]",
		Short: "Print the save record of catalog terminals, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFromFile(catalogPath)
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = cat.Names()
			}
			for _, name := range names {
				def, err := cat.Find(name)
				if err != nil {
					return err
				}
				c, err := def.Build(log.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), computer.Encode(c))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "terminals.yaml", "Catalog file")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <catalog>",
		Short: "Validate a catalog and build every terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			computers, err := cat.BuildAll(log.Logger)
			if err != nil {
				return err
			}
			for _, c := range computers {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s security %d, %d options, %d failures\n",
					c.Name, c.Security(), len(c.Options()), len(c.Failures()))
			}
			return nil
		},
	}
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("darkterminal failed")
		os.Exit(1)
	}
}
