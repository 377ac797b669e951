package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/delaneyj/linesignal/signal"
	"github.com/urfave/cli/v3"
)

const (
	logLevelKey = "log-level"
	profileKey  = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "linesignal",
		Usage: "Benchmarks and graph dumps for linesignal",
		Commands: []*cli.Command{
			{
				Name:  "bench",
				Usage: "Run a benchmark",
				Commands: []*cli.Command{
					propagateCommand(),
					reactivelyCommand(),
					disposeCommand(),
				},
			},
			graphCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  logLevelKey,
		Usage: "Engine log level: debug, info, warn or error",
		Value: "warn",
	}
}

func newLogger(cmd *cli.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String(logLevelKey))); err != nil {
		return nil, fmt.Errorf("parse --%s: %w", logLevelKey, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// newSystem returns a system that aborts the run on the first computation
// error; a benchmark with a failing node measures nothing useful.
func newSystem(logger *slog.Logger, opts ...signal.SystemOption) *signal.System {
	opts = append([]signal.SystemOption{
		signal.WithLogger(logger),
		signal.WithOnError(func(n *signal.Node, err error) {
			log.Panicf("%s: %v", n, err)
		}),
	}, opts...)
	return signal.NewSystem(opts...)
}
