// Command baalsd is a urfave/cli/v2 app with one subcommand tree per
// concern (wallet, transaction, query, dev), flags declared as
// package-level vars, and fatal errors printed to stderr with a
// non-zero exit code rather than propagated as panics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/baals/baals-go/log"
	"github.com/urfave/cli/v2"
)

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "baalsd: "+format+"\n", args...)
	os.Exit(1)
}

var (
	logFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Value: "text",
		Usage: "log output format: text or json",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Value: "info",
		Usage: "minimum log level: debug, info, warn, or error",
	}
)

func configureLogging(ctx *cli.Context) error {
	var level slog.Level
	switch ctx.String(logLevelFlag.Name) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown --log-level %q", ctx.String(logLevelFlag.Name))
	}

	opts := &slog.HandlerOptions{Level: level}
	switch ctx.String(logFormatFlag.Name) {
	case "text":
		log.SetHandler(slog.NewTextHandler(os.Stderr, opts))
	case "json":
		log.SetHandler(slog.NewJSONHandler(os.Stderr, opts))
	default:
		return fmt.Errorf("unknown --log-format %q", ctx.String(logFormatFlag.Name))
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "baalsd",
		Usage: "embeddable append-only ledger engine, CLI surface",
		Flags: []cli.Flag{logFormatFlag, logLevelFlag},
		Before: func(ctx *cli.Context) error {
			return configureLogging(ctx)
		},
		Commands: []*cli.Command{
			walletCommand,
			transactionCommand,
			queryCommand,
			devCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
