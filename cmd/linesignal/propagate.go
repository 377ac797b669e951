package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/linesignal/signal"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	maxWidthKey  = "max-width"
	maxHeightKey = "max-height"
	itersKey     = "iters"
)

func propagateCommand() *cli.Command {
	return &cli.Command{
		Name:  "propagate",
		Usage: "Time a write through w chains of h computeds, each ending in an effect",
		Flags: []cli.Flag{
			logLevelFlag(),
			&cli.UintFlag{
				Name:  maxWidthKey,
				Usage: "Largest number of chains, stepping by powers of ten",
				Value: 1_000,
			},
			&cli.UintFlag{
				Name:  maxHeightKey,
				Usage: "Largest chain length, stepping by powers of ten",
				Value: 1_000,
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes timed per graph",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: propagate,
	}
}

func powersOfTen(limit uint64) []int {
	var out []int
	for v := uint64(1); v <= limit; v *= 10 {
		out = append(out, int(v))
	}
	return out
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	log.Printf("warming up")

	tbl := table.NewWriter()
	tbl.SetTitle("Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "edges"})

	for _, w := range powersOfTen(cmd.Uint(maxWidthKey)) {
		for _, h := range powersOfTen(cmd.Uint(maxHeightKey)) {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := newSystem(logger)
			src := signal.New(sys, 1)
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					prev := last
					last = signal.Computed(sys, func() int {
						return prev.Get() + 1
					})
				}
				signal.Effect(sys, func() error {
					last.Get()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				fmt.Sprintf("propagate: %d * %d", w, h),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				sys.LiveEdges(),
			})
		}
	}

	tbl.Render()
	return nil
}
