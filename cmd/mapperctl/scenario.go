package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/delaneyj/mappergraph/graph"
	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of network traffic replayed into a graph.
type Scenario struct {
	Name      string        `yaml:"name"`
	Subscribe string        `yaml:"subscribe"`
	Timeout   time.Duration `yaml:"timeout"`
	Steps     []Step        `yaml:"steps"`
}

// Step delivers its messages, advances the clock, then polls. With Flush
// set it then removes devices silent for longer than that.
type Step struct {
	Deliver []Message      `yaml:"deliver"`
	Advance time.Duration  `yaml:"advance"`
	Flush   *time.Duration `yaml:"flush"`
}

type Message struct {
	Kind   string         `yaml:"kind"`
	ID     uint64         `yaml:"id"`
	Action string         `yaml:"action"`
	Scope  []uint64       `yaml:"scope"`
	Props  map[string]any `yaml:"props"`
	Remove []string       `yaml:"remove"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := &Scenario{Subscribe: "all"}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

func parseAction(s string) (graph.Action, error) {
	switch s {
	case "", "upsert":
		return graph.ActionUpsert, nil
	case "remove":
		return graph.ActionRemove, nil
	case "expire":
		return graph.ActionExpire, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// message converts a scripted message to its wire form. Property names are
// sorted so replays are deterministic.
func (m Message) message() (graph.Message, error) {
	kind, err := object.ParseKind(m.Kind)
	if err != nil {
		return graph.Message{}, err
	}
	action, err := parseAction(m.Action)
	if err != nil {
		return graph.Message{}, err
	}
	msg := graph.Message{Kind: kind, ID: m.ID, Action: action, Scope: m.Scope}
	for _, key := range slices.Sorted(maps.Keys(m.Props)) {
		v, err := value.FromAny(m.Props[key])
		if err != nil {
			return graph.Message{}, fmt.Errorf("%#x %s: %w", m.ID, key, err)
		}
		msg.Props = append(msg.Props, graph.Prop(key, v))
	}
	for _, key := range m.Remove {
		msg.Props = append(msg.Props, graph.PropUpdate{Key: key, Remove: true})
	}
	return msg, nil
}

// Tally counts events by kind while a scenario runs.
type Tally map[object.Kind]map[graph.Event]int

func (t Tally) add(kind object.Kind, evt graph.Event) {
	if t[kind] == nil {
		t[kind] = map[graph.Event]int{}
	}
	t[kind][evt]++
}

// Run is the outcome of a replay.
type Run struct {
	Graph *graph.Graph
	Tally Tally
	Now   time.Time // scenario clock after the last step
}

// replay runs sc against a fresh graph, writing one line per event to w.
// The caller closes the returned graph.
func replay(sc *Scenario, w io.Writer) (*Run, error) {
	kinds, err := object.ParseKind(sc.Subscribe)
	if err != nil {
		return nil, err
	}
	run := &Run{Tally: Tally{}, Now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts := []graph.Option{
		graph.WithClock(func() time.Time { return run.Now }),
		graph.WithOnError(func(rec *object.Record, err error) {
			fmt.Fprintf(w, "error    %v: %v\n", rec, err)
		}),
	}
	if sc.Timeout > 0 {
		opts = append(opts, graph.WithTimeout(sc.Timeout))
	}
	g, err := graph.New(kinds, opts...)
	if err != nil {
		return nil, err
	}
	run.Graph = g

	g.AddHandler(func(g *graph.Graph, rec *object.Record, evt graph.Event) error {
		run.Tally.add(rec.Kind(), evt)
		_, err := fmt.Fprintf(w, "%-8s %-6s %#x %s\n", evt, rec.Kind(), rec.ID(), rec.Name())
		return err
	}, object.KindAll)

	for i, step := range sc.Steps {
		for _, m := range step.Deliver {
			msg, err := m.message()
			if err != nil {
				g.Close()
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			g.Deliver(msg)
		}
		run.Now = run.Now.Add(step.Advance)
		if _, err := g.Poll(0); err != nil {
			g.Close()
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Flush != nil {
			if _, err := g.Flush(*step.Flush); err != nil {
				g.Close()
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return run, nil
}
