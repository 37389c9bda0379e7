package report

import (
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/mvtex"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

func TestRenderIncludesModeAndAtlasSize(t *testing.T) {
	s := Summary{
		Options:      mvtex.Default(),
		Diagnostics:  &diag.Log{},
		NumTriangles: 120,
		NumCameras:   4,
		AtlasWidth:   512,
		AtlasHeight:  512,
	}
	out := Render(s)
	test.That(t, strings.Contains(out, "TEXTURE"), test.ShouldBeTrue)
	test.That(t, strings.Contains(out, "512x512"), test.ShouldBeTrue)
	test.That(t, strings.Contains(out, "120"), test.ShouldBeTrue)
}

func TestRenderShowsVertexCountInVertexMode(t *testing.T) {
	opts := mvtex.Default()
	opts.MapMode = mvtex.Vertex
	s := Summary{Options: opts, Diagnostics: &diag.Log{}, NumVertexColor: 42}
	out := Render(s)
	test.That(t, strings.Contains(out, "42"), test.ShouldBeTrue)
}

func TestRenderCountsRecoveredDiagnostics(t *testing.T) {
	log := &diag.Log{}
	log.Add(ssmverr.ImageUnavailable, 1, 0, "decode failed")
	log.Add(ssmverr.Degenerate, 2, -1, "degenerate triangle")
	log.Add(ssmverr.Degenerate, 3, -1, "degenerate triangle")

	s := Summary{Options: mvtex.Default(), Diagnostics: log}
	out := Render(s)
	lines := strings.Split(out, "\n")
	var found bool
	for _, l := range lines {
		if strings.Contains(l, "Total recovered") && strings.Contains(l, "3") {
			found = true
		}
	}
	test.That(t, found, test.ShouldBeTrue)
}

func TestRenderHandlesNilDiagnostics(t *testing.T) {
	s := Summary{Options: mvtex.Default()}
	out := Render(s)
	test.That(t, len(out), test.ShouldBeGreaterThan, 0)
}
