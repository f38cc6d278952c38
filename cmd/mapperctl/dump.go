package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/delaneyj/mappergraph/cmd/mapperctl/templates"
	"github.com/delaneyj/mappergraph/graph"
	"github.com/delaneyj/mappergraph/object"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func hexID(rec *object.Record) string {
	if rec == nil {
		return "-"
	}
	return fmt.Sprintf("%#x", rec.ID())
}

func prop(rec *object.Record, p object.Property) string {
	v, ok := rec.GetProp(p)
	if !ok {
		return ""
	}
	return v.String()
}

func (r *Run) seen(rec *object.Record) string {
	if rec.Local() || rec.LastSeen().IsZero() {
		return "-"
	}
	return humanize.RelTime(rec.LastSeen().Time(), r.Now, "ago", "from now")
}

func (r *Run) dump(w io.Writer) {
	g := r.Graph

	devices := tablewriter.NewWriter(w)
	devices.SetHeader([]string{"ID", "Name", "Signals", "Props", "Version", "Status", "Last seen"})
	for l := g.Devices(); l.Next(); {
		dev := l.Current()
		devices.Append([]string{
			hexID(dev),
			dev.Name(),
			humanize.Comma(int64(g.SignalsOf(dev).Count())),
			humanize.Comma(int64(dev.NumProperties())),
			fmt.Sprint(dev.Version()),
			dev.Status().String(),
			r.seen(dev),
		})
	}
	devices.Render()

	signals := tablewriter.NewWriter(w)
	signals.SetHeader([]string{"ID", "Device", "Name", "Direction", "Type", "Length", "Maps"})
	for l := g.Signals(); l.Next(); {
		sig := l.Current()
		signals.Append([]string{
			hexID(sig),
			hexID(sig.Parent()),
			sig.Name(),
			prop(sig, object.PropDirection),
			prop(sig, object.PropType),
			prop(sig, object.PropLength),
			humanize.Comma(int64(g.MapsOf(sig).Count())),
		})
	}
	signals.Render()

	maps := tablewriter.NewWriter(w)
	maps.SetHeader([]string{"ID", "Sources", "Destination", "Expression"})
	for l := g.Maps(); l.Next(); {
		m := l.Current()
		links := g.Links(m)
		var srcs []string
		dst := "-"
		if len(links) > 0 {
			for _, s := range links[:len(links)-1] {
				srcs = append(srcs, hexID(s))
			}
			dst = hexID(links[len(links)-1])
		}
		maps.Append([]string{hexID(m), strings.Join(srcs, " "), dst, prop(m, object.PropExpression)})
	}
	maps.Render()
}

func (r *Run) report(name string) templates.Report {
	rep := templates.Report{
		Name:    name,
		Devices: r.Graph.Devices().Count(),
		Signals: r.Graph.Signals().Count(),
		Maps:    r.Graph.Maps().Count(),
	}
	for _, kind := range []object.Kind{object.KindDevice, object.KindSignal, object.KindMap} {
		t, ok := r.Tally[kind]
		if !ok {
			continue
		}
		rep.Rows = append(rep.Rows, templates.ReportRow{
			Kind:     kind.String(),
			New:      t[graph.EventNew],
			Modified: t[graph.EventModified],
			Removed:  t[graph.EventRemoved],
			Expired:  t[graph.EventExpired],
		})
	}
	return rep
}
