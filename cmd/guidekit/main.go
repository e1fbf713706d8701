package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOpts holds flags shared by every subcommand.
type globalOpts struct {
	logLevel string
	log      zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{logLevel: envStr("GUIDEKIT_LOG_LEVEL", "info")}
	root := &cobra.Command{
		Use:           "guidekit",
		Short:         "Repair guide client core: session, screens and topic search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", g.logLevel, "Log level: debug|info|warn|error (defaults GUIDEKIT_LOG_LEVEL or info)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(g.logLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		g.log = log
		return nil
	}
	root.AddCommand(newServeCmd(g), newSearchCmd(), newSitesCmd())
	return root
}

// newLogger builds the process logger. Terminals get the console writer.
func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
