package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/delaneyj/mappergraph/cmd/mapperctl/templates"
	"github.com/urfave/cli/v3"
)

const (
	reportKey = "report"
	quietKey  = "quiet"
)

func main() {
	cmd := &cli.Command{
		Name:  "mapperctl",
		Usage: "Replay scripted signal graph traffic",
		Commands: []*cli.Command{
			{
				Name:      "replay",
				Usage:     "Replay a scenario and print the events it raises",
				ArgsUsage: "<scenario.yaml>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  reportKey,
						Usage: "Print a summary after the events",
					},
					&cli.BoolFlag{
						Name:  quietKey,
						Usage: "Do not print events",
					},
				},
				Action: replayAction,
			},
			{
				Name:      "dump",
				Usage:     "Replay a scenario and print the resulting records",
				ArgsUsage: "<scenario.yaml>",
				Action:    dumpAction,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func load(cmd *cli.Command) (*Scenario, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, errors.New("missing scenario file")
	}
	return loadScenario(path)
}

func replayAction(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	sc, err := load(cmd)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if cmd.Bool(quietKey) {
		w = io.Discard
	}
	run, err := replay(sc, w)
	if err != nil {
		return err
	}
	defer run.Graph.Close()

	if cmd.Bool(reportKey) {
		templates.WriteScenarioReport(os.Stdout, run.report(sc.Name))
	}
	log.Printf("Replayed %d steps in %v", len(sc.Steps), time.Since(start))
	return nil
}

func dumpAction(ctx context.Context, cmd *cli.Command) error {
	sc, err := load(cmd)
	if err != nil {
		return err
	}
	run, err := replay(sc, io.Discard)
	if err != nil {
		return err
	}
	defer run.Graph.Close()
	run.dump(os.Stdout)
	return nil
}
