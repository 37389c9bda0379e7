package main

import (
	"encoding/json"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/Gabriellgpc/SSMVtex/camera"
	"github.com/Gabriellgpc/SSMVtex/mesh"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// cameraFile is the JSON shape loadCameras reads: a flat list of pinhole
// cameras, each with its calibration, world pose and source photograph.
// This is ambient CLI glue, not a serialization format the core defines.
type cameraFile struct {
	Cameras []cameraEntry `json:"cameras"`
}

type cameraEntry struct {
	FocalX     float64 `json:"focalX"`
	FocalY     float64 `json:"focalY"`
	PrincipalX float64 `json:"principalX"`
	PrincipalY float64 `json:"principalY"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`

	Position  [3]float64 `json:"position"`
	Rotation  [9]float64 `json:"rotation"` // row-major world-to-camera
	ImagePath string     `json:"imagePath"`
}

// loadCameras reads and validates a camera config file into the Camera
// slice the pipeline expects. It is a var, not a plain func, so tests can
// substitute a fake without touching the filesystem.
var loadCameras = loadCamerasFromFile

func loadCamerasFromFile(path string) ([]camera.Camera, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ssmverr.Wrap(ssmverr.InputInvalid, err, "read camera config")
	}

	var cf cameraFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, ssmverr.Wrap(ssmverr.InputInvalid, err, "parse camera config")
	}
	if len(cf.Cameras) == 0 {
		return nil, ssmverr.New(ssmverr.InputInvalid, "camera config: at least one camera is required")
	}

	cams := make([]camera.Camera, len(cf.Cameras))
	for i, c := range cf.Cameras {
		cams[i] = camera.New(
			camera.Intrinsics{
				FocalX: c.FocalX, FocalY: c.FocalY,
				PrincipalX: c.PrincipalX, PrincipalY: c.PrincipalY,
				Width: c.Width, Height: c.Height,
			},
			camera.Extrinsics{
				Position: r3.Vector{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]},
				Rotation: mgl64.Mat3(c.Rotation),
			},
			c.ImagePath,
		)
	}
	return cams, nil
}

// unimplementedMeshLoader is the default mesh.Loader: no OBJ/PLY/VRML parser
// body is linked into this binary, so any attempt to load a mesh fails with
// a clear InputInvalid error rather than silently no-oping.
type unimplementedMeshLoader struct{}

func (unimplementedMeshLoader) Load(path string) (*mesh.Mesh, error) {
	return nil, ssmverr.New(ssmverr.InputInvalid,
		"no mesh loader is linked into this binary; build with a mesh.Loader that parses "+path)
}

// unimplementedMeshWriter is the default mesh.Writer, for the same reason.
type unimplementedMeshWriter struct{}

func (unimplementedMeshWriter) Write(path string, m *mesh.Mesh) error {
	return ssmverr.New(ssmverr.InputInvalid,
		"no mesh writer is linked into this binary; build with a mesh.Writer that serializes to "+path)
}

// meshLoader and meshWriter are package-level hooks: a build that links a
// real geometry codec overrides these in an init() in this package, or a
// test replaces them directly. The CLI itself never parses a mesh file
// format.
var (
	meshLoader mesh.Loader = unimplementedMeshLoader{}
	meshWriter mesh.Writer = unimplementedMeshWriter{}
)
