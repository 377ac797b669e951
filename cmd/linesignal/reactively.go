package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/linesignal/signal"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	repeatsKey = "repeats"
	scaleKey   = "scale"
)

func reactivelyCommand() *cli.Command {
	return &cli.Command{
		Name:  "reactively",
		Usage: "Run the layered dynamic graph suite",
		Flags: []cli.Flag{
			logLevelFlag(),
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Runs per config, the fastest is reported",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  scaleKey,
				Usage: "Multiplier applied to every config's iteration count",
				Value: 1,
			},
		},
		Action: reactively,
	}
}

type layeredConfig struct {
	name           string
	width          int
	totalLayers    int
	staticFraction float64 // fraction of nodes that always read the same sources
	nSources       int     // sources read by each node
	readFraction   float64 // fraction of the last layer read after every write
	iterations     int64
}

var layeredConfigs = []layeredConfig{
	{name: "simple component", width: 10, totalLayers: 5, staticFraction: 1, nSources: 2, readFraction: 0.2, iterations: 600000},
	{name: "dynamic component", width: 10, totalLayers: 10, staticFraction: 0.75, nSources: 6, readFraction: 0.2, iterations: 15000},
	{name: "large web app", width: 1000, totalLayers: 12, staticFraction: 0.95, nSources: 4, readFraction: 1, iterations: 7000},
	{name: "wide dense", width: 1000, totalLayers: 5, staticFraction: 1, nSources: 25, readFraction: 1, iterations: 3000},
	{name: "deep", width: 5, totalLayers: 500, staticFraction: 1, nSources: 3, readFraction: 1, iterations: 500},
	{name: "very dynamic", width: 100, totalLayers: 15, staticFraction: 0.5, nSources: 6, readFraction: 1, iterations: 2000},
}

func (cfg layeredConfig) title() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
	if cfg.staticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if cfg.readFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
	}
	return sb.String()
}

func reactively(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	repeats := int(cmd.Uint(repeatsKey))
	scale := cmd.Float(scaleKey)

	log.Print("Starting layered benchmark, please wait...")
	defer log.Print("Finished layered benchmark")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "computations", "updateRate", "title",
	})

	for _, cfg := range layeredConfigs {
		cfg.iterations = int64(math.Max(1, math.Round(float64(cfg.iterations)*scale)))
		log.Printf("Running '%s' config", cfg.name)

		counter := new(int64)
		sys := newSystem(logger)
		graph := makeLayeredGraph(sys, cfg, counter)

		// warm up
		runLayeredGraph(graph, cfg)

		best := time.Duration(math.MaxInt64)
		var bestCount int64
		for i := 0; i < repeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, repeats, (i+1)*100/repeats)
			*counter = 0
			start := time.Now()
			runLayeredGraph(graph, cfg)
			if d := time.Since(start); d < best {
				best = d
				bestCount = *counter
			}
		}

		updateRate := float64(bestCount) / (float64(best) / float64(time.Millisecond))
		table.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best),
			humanize.Comma(bestCount),
			humanize.Comma(int64(updateRate)),
			cfg.title(),
		})
	}
	table.Render()
	return nil
}

type layeredGraph struct {
	sources []*signal.Signal[int]
	layers  [][]*signal.Signal[int]
}

func makeLayeredGraph(sys *signal.System, cfg layeredConfig, counter *int64) *layeredGraph {
	g := &layeredGraph{sources: make([]*signal.Signal[int], cfg.width)}
	for i := range g.sources {
		g.sources[i] = signal.New(sys, i)
	}

	random := rand.New(rand.NewSource(0))
	prev := g.sources
	for l := 0; l < cfg.totalLayers-1; l++ {
		row := makeLayeredRow(sys, prev, cfg, counter, random)
		g.layers = append(g.layers, row)
		prev = row
	}
	return g
}

func makeLayeredRow(sys *signal.System, sources []*signal.Signal[int], cfg layeredConfig, counter *int64, random *rand.Rand) []*signal.Signal[int] {
	row := make([]*signal.Signal[int], len(sources))
	for myDex := range sources {
		mySources := make([]*signal.Signal[int], 0, cfg.nSources)
		for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
			mySources = append(mySources, sources[(myDex+sourceDex)%len(sources)])
		}

		if random.Float64() < cfg.staticFraction {
			row[myDex] = signal.Computed(sys, func() int {
				*counter++
				sum := 0
				for _, source := range mySources {
					sum += source.Get()
				}
				return sum
			})
			continue
		}

		first, tail := mySources[0], mySources[1:]
		row[myDex] = signal.Computed(sys, func() int {
			*counter++
			sum := first.Get()
			shouldDrop := sum&0x1 > 0
			dropDex := sum % len(tail)
			for i := 0; i < len(tail); i++ {
				if shouldDrop && i == dropDex {
					continue
				}
				sum += tail[i].Get()
			}
			return sum
		})
	}
	return row
}

// runLayeredGraph writes one source per iteration and reads a fixed random
// subset of the leaves, returning their final sum.
func runLayeredGraph(g *layeredGraph, cfg layeredConfig) int {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skip := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := removeRandom(leaves, skip, random)

	for i := 0; i < int(cfg.iterations); i++ {
		sourceDex := i % len(g.sources)
		g.sources[sourceDex].Set(i + sourceDex)
		for _, leaf := range readLeaves {
			leaf.Get()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Get()
	}
	return sum
}

func removeRandom[T any](src []T, n int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < n; i++ {
		dex := random.Intn(len(out))
		out[dex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
