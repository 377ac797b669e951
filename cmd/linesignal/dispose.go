package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/linesignal/schedule"
	"github.com/delaneyj/linesignal/signal"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	scopesKey  = "scopes"
	effectsKey = "effects"
	budgetKey  = "budget"
)

func disposeCommand() *cli.Command {
	return &cli.Command{
		Name:  "dispose",
		Usage: "Time tearing down scopes full of effects, with idle time slicing",
		Flags: []cli.Flag{
			logLevelFlag(),
			&cli.UintFlag{
				Name:  scopesKey,
				Usage: "Scopes created and disposed",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  effectsKey,
				Usage: "Effects per scope, each reading a shared source through a private computed",
				Value: 1_000,
			},
			&cli.DurationFlag{
				Name:  budgetKey,
				Usage: "Disposal slice budget",
				Value: 5 * time.Millisecond,
			},
		},
		Action: dispose,
	}
}

func dispose(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	scopes := int(cmd.Uint(scopesKey))
	effects := int(cmd.Uint(effectsKey))
	budget := cmd.Duration(budgetKey)

	loop := schedule.NewLoop(schedule.WithLoopLogger(logger))
	finished := 0
	sys := newSystem(logger,
		signal.WithHost(loop.Host()),
		signal.WithSliceBudget(budget),
		signal.WithOnDisposeDone(func(*signal.Node) {
			finished++
		}),
	)

	log.Printf("building %d scopes of %d effects", scopes, effects)
	src := signal.New(sys, 0, signal.WithName("src"))
	handles := make([]signal.Disposer, scopes)
	for i := range handles {
		handles[i] = signal.Scope(sys, func() {
			for j := 0; j < effects; j++ {
				c := signal.Computed(sys, func() int {
					return src.Get() + j
				})
				signal.Effect(sys, func() error {
					c.Get()
					return nil
				})
			}
		}, signal.WithName(fmt.Sprintf("scope%d", i)))
	}
	edges := sys.LiveEdges()

	start := time.Now()
	for _, h := range handles {
		h.Dispose()
	}
	syncTime := time.Since(start)
	deferred := sys.PendingDisposals()

	start = time.Now()
	callbacks := loop.RunUntilIdle()
	idleTime := time.Since(start)

	if n := len(src.Node().Downstreams()); n != 0 {
		return fmt.Errorf("%d edges still read the source after disposal", n)
	}
	if n := sys.LiveEdges(); n != 0 {
		return fmt.Errorf("%d edges left after disposal", n)
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Disposal")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"scopes", "nodes", "edges", "budget", "sync", "deferred", "idle callbacks", "idle", "finished", "edges left"})
	tbl.AppendRow(table.Row{
		humanize.Comma(int64(scopes)),
		humanize.Comma(int64(scopes * effects * 2)),
		humanize.Comma(int64(edges)),
		budget,
		syncTime,
		deferred,
		humanize.Comma(int64(callbacks)),
		idleTime,
		finished,
		humanize.Comma(int64(sys.LiveEdges())),
	})
	tbl.Render()
	return nil
}
