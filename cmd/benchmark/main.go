package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/mappergraph/graph"
	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	profile = flag.String("profile", "default.pgo", "CPU profile output, empty to disable")
	iters   = flag.Int("iters", 100, "samples per benchmark")
)

var (
	devices = []int{1, 10, 100, 1_000}
	signals = []int{1, 10, 100}
)

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkPoll(false)

	benchmarkPoll(true)
	benchmarkAlgebra(true)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func newGraph() *graph.Graph {
	g, err := graph.New(object.KindAll)
	if err != nil {
		log.Fatal(err)
	}
	return g
}

// announce queues a device and its signals the way a peer announces them.
func announce(g *graph.Graph, dev uint64, nsig int, round int32) {
	g.Deliver(graph.Message{
		Kind:  object.KindDevice,
		ID:    dev << 32,
		Props: []graph.PropUpdate{
			graph.Prop("name", value.String(fmt.Sprintf("dev%d", dev))),
			graph.Prop("rank", value.Int32(int32(dev))),
		},
	})
	for s := 0; s < nsig; s++ {
		g.Deliver(graph.Message{
			Kind:  object.KindSignal,
			ID:    dev<<32 | uint64(s+1),
			Scope: []uint64{dev << 32},
			Props: []graph.PropUpdate{
				graph.Prop("name", value.String(fmt.Sprintf("sig%d", s))),
				graph.Prop("max", value.Int32(round)),
			},
		})
	}
}

func benchmarkPoll(shouldRender bool) {
	tbl := newTable("Poll")

	for _, d := range devices {
		for _, s := range signals {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			g := newGraph()
			for i := 0; i < *iters; i++ {
				for dev := 1; dev <= d; dev++ {
					announce(g, uint64(dev), s, int32(i))
				}
				start := time.Now()
				if _, err := g.Poll(0); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}
			g.Close()

			appendCalc(tbl, fmt.Sprintf("poll: %d devices * %d signals", d, s), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkAlgebra(shouldRender bool) {
	tbl := newTable("List algebra")

	for _, d := range devices {
		g := newGraph()
		for dev := 1; dev <= d; dev++ {
			announce(g, uint64(dev), 0, 0)
		}
		if _, err := g.Poll(0); err != nil {
			log.Fatal(err)
		}
		half := value.Int32(int32(d / 2))
		lower := func() *graph.List { return g.Devices().Filter(object.NameKey("rank"), half, graph.OpLessEqual) }
		upper := func() *graph.List { return g.Devices().Filter(object.NameKey("rank"), half, graph.OpGreaterEqual) }

		ops := []struct {
			name string
			fn   func(a, b *graph.List) (*graph.List, error)
		}{
			{"union", (*graph.List).Union},
			{"intersect", (*graph.List).Intersect},
			{"difference", (*graph.List).Difference},
		}
		for _, op := range ops {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})
			for i := 0; i < *iters; i++ {
				start := time.Now()
				l, err := op.fn(lower(), upper())
				if err != nil {
					log.Fatal(err)
				}
				for l.Next() {
				}
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("%s: %d devices", op.name, d), tach)
		}
		g.Close()
	}

	if shouldRender {
		tbl.Render()
	}
}
