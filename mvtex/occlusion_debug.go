package mvtex

import (
	"image"
	"image/color"

	"github.com/Gabriellgpc/SSMVtex/atlas"
	"github.com/Gabriellgpc/SSMVtex/diag"
	"github.com/Gabriellgpc/SSMVtex/rating"
)

// occlusionTint is the debug colour painted over triangles HighlightOcclusions
// flags as occluded: rated positively by plain AREA for some camera, but
// zeroed by AREA_OCCLUSION's visibility gate for that same camera.
var occlusionTint = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// occludedTriangles reports, for the current mesh/cameras, which triangles
// have at least one camera whose AREA_OCCLUSION rating was zeroed by the
// visibility gate despite a positive plain-AREA rating. Only meaningful
// when Options.CamAssignMode is AreaOcclusion; returns an empty set
// otherwise.
func (p *Pipeline) occludedTriangles(log *diag.Log) (map[int]bool, error) {
	occluded := make(map[int]bool)
	if p.Options.CamAssignMode != rating.AreaOcclusion {
		return occluded, nil
	}

	areaRaw, err := rating.Evaluate(p.Mesh, p.Cameras, rating.Options{Mode: rating.Area}, log)
	if err != nil {
		return nil, err
	}
	occRaw, err := rating.Evaluate(p.Mesh, p.Cameras, rating.Options{
		Mode:          rating.AreaOcclusion,
		OcclusionGrid: p.Options.OcclusionGrid,
	}, log)
	if err != nil {
		return nil, err
	}

	for t := 0; t < areaRaw.NumTriangles(); t++ {
		for c := 0; c < areaRaw.NumCameras(); c++ {
			if areaRaw.Rating(c, t) > 0 && occRaw.Rating(c, t) <= 0 {
				occluded[t] = true
				break
			}
		}
	}
	return occluded, nil
}

// tintOccluded overwrites every atlas texel belonging to an occluded
// triangle with occlusionTint, in place.
func tintOccluded(img *image.RGBA, rast *atlas.Atlas, occluded map[int]bool) {
	if len(occluded) == 0 {
		return
	}
	for y := 0; y < rast.Size.Height; y++ {
		for x := 0; x < rast.Size.Width; x++ {
			t := rast.PixTriangle[y][x]
			if t < 0 || !occluded[int(t)] {
				continue
			}
			img.SetRGBA(x, y, occlusionTint)
		}
	}
}
