// Package report renders a human-readable summary of one texturing run:
// per-kind diagnostic counts, plus the atlas/vertex output
// shape, as a go-pretty table suitable for terminal or log output.
package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/mvtex"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// Summary is the data a Render call needs: the run's options, its log, and
// the geometry counts worth reporting alongside them.
type Summary struct {
	Options        mvtex.Options
	Diagnostics    *diag.Log
	NumTriangles   int
	NumCameras     int
	AtlasWidth     int
	AtlasHeight    int
	NumVertexColor int
}

// Render builds the run-summary table as a string. It never returns an
// error: a nil Diagnostics log is treated as zero recovered errors.
func Render(s Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow([]interface{}{"Mapping mode", s.Options.MapMode.String()})
	t.AppendRow([]interface{}{"Camera-assign mode", s.Options.CamAssignMode.String()})
	t.AppendRow([]interface{}{"Triangles", s.NumTriangles})
	t.AppendRow([]interface{}{"Cameras", s.NumCameras})
	if s.Options.MapMode == mvtex.Vertex {
		t.AppendRow([]interface{}{"Coloured vertices", s.NumVertexColor})
	} else {
		t.AppendRow([]interface{}{"Atlas size", fmt.Sprintf("%dx%d", s.AtlasWidth, s.AtlasHeight)})
	}
	t.AppendSeparator()

	counts := kindCounts(s.Diagnostics)
	t.AppendRow([]interface{}{"ImageUnavailable", counts[ssmverr.ImageUnavailable]})
	t.AppendRow([]interface{}{"Degenerate", counts[ssmverr.Degenerate]})
	t.AppendRow([]interface{}{"Total recovered", total(counts)})

	return t.Render()
}

func kindCounts(log *diag.Log) map[ssmverr.Kind]int {
	if log == nil {
		return map[ssmverr.Kind]int{}
	}
	return log.CountByKind()
}

func total(counts map[ssmverr.Kind]int) int {
	sum := 0
	for _, n := range counts {
		sum += n
	}
	return sum
}
