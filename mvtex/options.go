// Package mvtex wires the rating, unwrap, pack, atlas and diag packages
// into the texturing pipeline (C4-C11 orchestration) and implements the
// output-mapping dispatch (m_mode): TEXTURE runs the full atlas pipeline,
// VERTEX bakes colour straight onto mesh vertices, and FLAT reuses the
// atlas layout but paints one solid colour per chart.
package mvtex

import (
	"github.com/invopop/jsonschema"
	"github.com/spf13/cast"

	"github.com/Gabriellgpc/SSMVtex/faceroi"
	"github.com/Gabriellgpc/SSMVtex/rating"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// MappingMode selects how rated triangles become a textured output, the
// m_mode of the external interface.
type MappingMode int

const (
	// Texture bakes a single shared texture atlas (the default).
	Texture MappingMode = iota
	// Vertex bakes colour directly onto mesh vertices; no atlas is built.
	Vertex
	// Flat reuses the atlas layout but paints one solid colour per chart.
	Flat
)

func (m MappingMode) String() string {
	switch m {
	case Texture:
		return "TEXTURE"
	case Vertex:
		return "VERTEX"
	case Flat:
		return "FLAT"
	default:
		return "UNKNOWN"
	}
}

// InputMode selects the kind of 3D input the pipeline consumes. Only Mesh
// is implemented; Splat is accepted as a named value so config round-trips
// cleanly, but Validate rejects it until that input path exists.
type InputMode int

const (
	// Mesh is a dense triangle mesh (OBJ/PLY/VRML), the only input kind
	// this pipeline currently textures.
	Mesh InputMode = iota
	// Splat is a point-splat input, named per the external interface but
	// not yet wired to any producer.
	Splat
)

func (m InputMode) String() string {
	if m == Splat {
		return "SPLAT"
	}
	return "MESH"
}

// Options bundles every external-interface knob (§6) plus the ambient
// tuning values (gutter, consistency scale, minimum pack scale) the core
// stages need but the distilled config table didn't separately enumerate.
type Options struct {
	// CamAssignMode selects the per-triangle camera rating strategy.
	CamAssignMode rating.Mode `json:"ca_mode"`
	// MapMode selects TEXTURE, VERTEX or FLAT output.
	MapMode MappingMode `json:"m_mode"`
	// InMode selects the input kind; only Mesh is implemented.
	InMode InputMode `json:"in_mode"`
	// NumCamMix is the number of top-rated cameras blended per pixel/vertex.
	NumCamMix int `json:"num_cam_mix"`
	// Alpha is the weighted-normal shaping cutoff, in [0, 1).
	Alpha float64 `json:"alpha"`
	// Beta is the weighted-normal shaping curvature, > 0.
	Beta float64 `json:"beta"`
	// Dimension is the target atlas area in texels (TEXTURE/FLAT only).
	Dimension float64 `json:"dimension"`
	// ImageCacheSize bounds how many decoded photographs stay resident.
	ImageCacheSize int `json:"imageCacheSize"`
	// HighlightOcclusions paints occluded-but-rated triangles a marker
	// colour over their sampled colour, for debugging AreaOcclusion runs.
	HighlightOcclusions bool `json:"highlightOcclusions"`
	// PowerOfTwoImSize rounds the atlas to power-of-two dimensions.
	PowerOfTwoImSize bool `json:"powerOfTwoImSize"`
	// Photoconsistency enables the cross-camera outlier rejection pass.
	Photoconsistency bool `json:"photoconsistency"`
	// OutExtension is the output image file extension (e.g. "png", "jpg"),
	// passed through to the serializer untouched.
	OutExtension string `json:"out_extension"`

	// Gutter is the minimum padding, in texels, the packer leaves between
	// charts. Not named in the distilled config table; every packer needs
	// one, so it's carried here rather than hardcoded.
	Gutter float64 `json:"gutter"`
	// ConsistencyScale multiplies the median pairwise Lab distance to get
	// the photoconsistency discard threshold.
	ConsistencyScale float64 `json:"consistencyScale"`
	// MinPackScale floors how far the packer may shrink charts to fit
	// Dimension before it reports PackingOverflow.
	MinPackScale float64 `json:"minPackScale"`
	// OcclusionGrid is the visibility-grid resolution used only by the
	// AreaOcclusion rating mode.
	OcclusionGrid int `json:"occlusionGrid"`
	// FaceBoost multiplies a triangle's rating inside a detected face ROI;
	// 1 (or a nil FaceProvider) disables boosting entirely.
	FaceBoost float64 `json:"faceBoost"`
	// FaceProvider supplies per-camera face rectangles for FaceBoost. Not
	// part of the JSON-serializable config surface; wired in by the caller.
	FaceProvider faceroi.Provider `json:"-"`
}

// Default returns the baseline Options the spec's own worked examples use:
// NORMAL_VERTEX rating, TEXTURE output, a single camera per pixel, no
// shaping cutoff, and a modest atlas.
func Default() Options {
	return Options{
		CamAssignMode:    rating.NormalVertex,
		MapMode:          Texture,
		InMode:           Mesh,
		NumCamMix:        1,
		Alpha:            0,
		Beta:             1,
		Dimension:        1 << 20,
		ImageCacheSize:   16,
		PowerOfTwoImSize: false,
		Photoconsistency: false,
		OutExtension:     "png",
		Gutter:           2,
		ConsistencyScale: 1.5,
		MinPackScale:     0.01,
		OcclusionGrid:    64,
		FaceBoost:        1,
	}
}

// Validate enforces the invariants the external interface documents:
// NumCamMix >= 1, Alpha in [0, 1), Beta > 0, Dimension > 0, a positive
// ImageCacheSize, a supported InMode, and (for AreaOcclusion) a positive
// OcclusionGrid.
func (o Options) Validate() error {
	if o.NumCamMix < 1 {
		return ssmverr.New(ssmverr.InputInvalid, "num_cam_mix must be >= 1")
	}
	if o.Alpha < 0 || o.Alpha >= 1 {
		return ssmverr.New(ssmverr.InputInvalid, "alpha must be in [0, 1)")
	}
	if o.Beta <= 0 {
		return ssmverr.New(ssmverr.InputInvalid, "beta must be > 0")
	}
	if o.MapMode != Vertex && o.Dimension <= 0 {
		return ssmverr.New(ssmverr.InputInvalid, "dimension must be > 0 for TEXTURE/FLAT output")
	}
	if o.ImageCacheSize < 1 {
		return ssmverr.New(ssmverr.InputInvalid, "imageCacheSize must be >= 1")
	}
	if o.InMode != Mesh {
		return ssmverr.New(ssmverr.InputInvalid, "in_mode: only MESH input is implemented")
	}
	if o.CamAssignMode == rating.AreaOcclusion && o.OcclusionGrid <= 0 {
		return ssmverr.New(ssmverr.InputInvalid, "occlusionGrid must be > 0 when ca_mode is AREA_OCCLUSION")
	}
	return nil
}

// OptionsJSONSchema reflects the Options struct into a JSON schema,
// letting callers validate or render a config form without hand-written
// documentation drifting from the struct.
func OptionsJSONSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Options{})
}

var camModeNames = map[string]rating.Mode{
	"NORMAL_VERTEX":     rating.NormalVertex,
	"NORMAL_BARICENTER": rating.NormalBaricenter,
	"AREA":              rating.Area,
	"AREA_OCCLUSION":    rating.AreaOcclusion,
}

var mapModeNames = map[string]MappingMode{
	"TEXTURE": Texture,
	"VERTEX":  Vertex,
	"FLAT":    Flat,
}

var inModeNames = map[string]InputMode{
	"MESH":  Mesh,
	"SPLAT": Splat,
}

// NewOptionsFromMap builds Options from a loosely-typed config map (e.g.
// parsed JSON/YAML, or CLI flag values), starting from Default and
// overriding only the keys present in m. Numeric/boolean/string values are
// coerced permissively via spf13/cast, matching how the teacher's config
// loader tolerates "8" vs 8 vs 8.0 from different sources.
func NewOptionsFromMap(m map[string]any) (Options, error) {
	opts := Default()

	if v, ok := m["ca_mode"]; ok {
		name := cast.ToString(v)
		mode, known := camModeNames[name]
		if !known {
			return Options{}, ssmverr.New(ssmverr.InputInvalid, "ca_mode: unknown value "+name)
		}
		opts.CamAssignMode = mode
	}
	if v, ok := m["m_mode"]; ok {
		name := cast.ToString(v)
		mode, known := mapModeNames[name]
		if !known {
			return Options{}, ssmverr.New(ssmverr.InputInvalid, "m_mode: unknown value "+name)
		}
		opts.MapMode = mode
	}
	if v, ok := m["in_mode"]; ok {
		name := cast.ToString(v)
		mode, known := inModeNames[name]
		if !known {
			return Options{}, ssmverr.New(ssmverr.InputInvalid, "in_mode: unknown value "+name)
		}
		opts.InMode = mode
	}
	if v, ok := m["num_cam_mix"]; ok {
		opts.NumCamMix = cast.ToInt(v)
	}
	if v, ok := m["alpha"]; ok {
		opts.Alpha = cast.ToFloat64(v)
	}
	if v, ok := m["beta"]; ok {
		opts.Beta = cast.ToFloat64(v)
	}
	if v, ok := m["dimension"]; ok {
		opts.Dimension = cast.ToFloat64(v)
	}
	if v, ok := m["imageCacheSize"]; ok {
		opts.ImageCacheSize = cast.ToInt(v)
	}
	if v, ok := m["highlightOcclusions"]; ok {
		opts.HighlightOcclusions = cast.ToBool(v)
	}
	if v, ok := m["powerOfTwoImSize"]; ok {
		opts.PowerOfTwoImSize = cast.ToBool(v)
	}
	if v, ok := m["photoconsistency"]; ok {
		opts.Photoconsistency = cast.ToBool(v)
	}
	if v, ok := m["out_extension"]; ok {
		opts.OutExtension = cast.ToString(v)
	}
	if v, ok := m["gutter"]; ok {
		opts.Gutter = cast.ToFloat64(v)
	}
	if v, ok := m["consistencyScale"]; ok {
		opts.ConsistencyScale = cast.ToFloat64(v)
	}
	if v, ok := m["minPackScale"]; ok {
		opts.MinPackScale = cast.ToFloat64(v)
	}
	if v, ok := m["occlusionGrid"]; ok {
		opts.OcclusionGrid = cast.ToInt(v)
	}
	if v, ok := m["faceBoost"]; ok {
		opts.FaceBoost = cast.ToFloat64(v)
	}

	return opts, opts.Validate()
}
