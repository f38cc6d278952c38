package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"time"

	"github.com/delaneyj/mappergraph/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	outKey     = "out"
	packageKey = "package"
)

// properties lists the enumerated property keys in declaration order. The
// first entry is the zero value.
var properties = []templates.Prop{
	{Ident: "Unknown", Name: "unknown"},
	{Ident: "Data", Name: "data"},
	{Ident: "Device", Name: "device"},
	{Ident: "Direction", Name: "direction"},
	{Ident: "Ephemeral", Name: "ephemeral"},
	{Ident: "Expression", Name: "expr"},
	{Ident: "Host", Name: "host"},
	{Ident: "ID", Name: "id"},
	{Ident: "Instance", Name: "instance"},
	{Ident: "IsLocal", Name: "is_local"},
	{Ident: "Jitter", Name: "jitter"},
	{Ident: "Length", Name: "length"},
	{Ident: "LibVersion", Name: "lib_version"},
	{Ident: "Linked", Name: "linked"},
	{Ident: "Max", Name: "max"},
	{Ident: "Min", Name: "min"},
	{Ident: "Muted", Name: "muted"},
	{Ident: "Name", Name: "name"},
	{Ident: "NumInstances", Name: "num_inst"},
	{Ident: "NumMaps", Name: "num_maps"},
	{Ident: "NumMapsIn", Name: "num_maps_in"},
	{Ident: "NumMapsOut", Name: "num_maps_out"},
	{Ident: "NumSigsIn", Name: "num_sigs_in"},
	{Ident: "NumSigsOut", Name: "num_sigs_out"},
	{Ident: "Ordinal", Name: "ordinal"},
	{Ident: "Period", Name: "period"},
	{Ident: "Port", Name: "port"},
	{Ident: "ProcessLocation", Name: "process_loc"},
	{Ident: "Protocol", Name: "protocol"},
	{Ident: "Rate", Name: "rate"},
	{Ident: "Scope", Name: "scope"},
	{Ident: "Signal", Name: "signal"},
	{Ident: "Status", Name: "status"},
	{Ident: "Stealing", Name: "stealing"},
	{Ident: "Synced", Name: "synced"},
	{Ident: "Type", Name: "type"},
	{Ident: "Unit", Name: "unit"},
	{Ident: "UseInstances", Name: "use_inst"},
	{Ident: "Version", Name: "version"},
}

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate the property name tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  outKey,
				Usage: "File to write",
				Value: "object/property_names.go",
			},
			&cli.StringFlag{
				Name:  packageKey,
				Usage: "Package clause of the generated file",
				Value: "object",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	out := cmd.String(outKey)
	log.Printf("Codegen for %s started", out)
	defer func() {
		log.Printf("Codegen for %s finished in %v", out, time.Since(start))
	}()

	contents := templates.PropertyNamesGen(cmd.String(packageKey), properties)
	src, err := format.Source([]byte(contents))
	if err != nil {
		return err
	}
	return os.WriteFile(out, src, 0644)
}
