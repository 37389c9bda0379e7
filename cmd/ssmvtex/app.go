package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"

	"github.com/Gabriellgpc/SSMVtex/debugviz"
	"github.com/Gabriellgpc/SSMVtex/imagecache"
	"github.com/Gabriellgpc/SSMVtex/logging"
	"github.com/Gabriellgpc/SSMVtex/mvtex"
	"github.com/Gabriellgpc/SSMVtex/report"
	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// spinnerFactory and confirmOverflow are package vars so tests can swap in
// fakes without a real terminal attached, the same seam the teacher's CLI
// uses for its own progress reporting.
var (
	spinnerFactory  progressSpinnerFactory = defaultSpinnerFactory
	confirmOverflow                        = defaultConfirmOverflow
)

// defaultConfirmOverflow asks, via an interactive huh prompt, whether to
// retry a pipeline run with the dimension a PackingOverflow suggested.
func defaultConfirmOverflow(suggested int) (bool, error) {
	var retry bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Atlas dimension too small to fit every chart; retry with the suggested %d texels?", suggested)).
			Affirmative("Retry").
			Negative("Cancel").
			Value(&retry),
	)).Run()
	return retry, err
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ssmvtex",
		Usage: "bake a multi-view texture atlas (or vertex colours) for a 3D mesh",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mesh", Required: true, Usage: "path to the input mesh"},
			&cli.StringFlag{Name: "cameras", Required: true, Usage: "path to the camera config JSON"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output mesh path"},
			&cli.StringFlag{Name: "atlas-out", Usage: "output atlas/flat image path (TEXTURE/FLAT only)"},
			&cli.StringFlag{Name: "debug-viz", Usage: "optional chart-layout PNG debug dump path"},
			&cli.StringFlag{Name: "log-file", Usage: "optional rotating log file, in addition to stderr"},
			&cli.StringFlag{Name: "ca-mode", Value: "NORMAL_VERTEX", Usage: "NORMAL_VERTEX|NORMAL_BARICENTER|AREA|AREA_OCCLUSION"},
			&cli.StringFlag{Name: "m-mode", Value: "TEXTURE", Usage: "TEXTURE|VERTEX|FLAT"},
			&cli.IntFlag{Name: "num-cam-mix", Value: 1},
			&cli.Float64Flag{Name: "alpha", Value: 0},
			&cli.Float64Flag{Name: "beta", Value: 1},
			&cli.Float64Flag{Name: "dimension", Value: float64(1 << 20)},
			&cli.IntFlag{Name: "image-cache-size", Value: 16},
			&cli.BoolFlag{Name: "power-of-two"},
			&cli.BoolFlag{Name: "highlight-occlusions"},
			&cli.BoolFlag{Name: "photoconsistency"},
			&cli.StringFlag{Name: "out-extension", Value: "png"},
			&cli.Float64Flag{Name: "min-pack-scale", Value: 0.01, Usage: "floor on chart shrink before PackingOverflow"},
		},
		Action: runAction,
	}
}

// flagsToOptions maps CLI flags into the loosely-typed config map
// mvtex.NewOptionsFromMap expects, so the CLI exercises the same coercion
// and validation path a JSON config file would.
func flagsToOptions(c *cli.Context) (mvtex.Options, error) {
	m := map[string]any{
		"ca_mode":             c.String("ca-mode"),
		"m_mode":              c.String("m-mode"),
		"num_cam_mix":         c.Int("num-cam-mix"),
		"alpha":               c.Float64("alpha"),
		"beta":                c.Float64("beta"),
		"dimension":           c.Float64("dimension"),
		"imageCacheSize":      c.Int("image-cache-size"),
		"powerOfTwoImSize":    c.Bool("power-of-two"),
		"highlightOcclusions": c.Bool("highlight-occlusions"),
		"photoconsistency":    c.Bool("photoconsistency"),
		"out_extension":       c.String("out-extension"),
		"minPackScale":        c.Float64("min-pack-scale"),
	}
	return mvtex.NewOptionsFromMap(m)
}

func runAction(c *cli.Context) error {
	log := logging.New("ssmvtex")
	if lf := c.String("log-file"); lf != "" {
		fileLog, err := logging.NewWithFileSink("ssmvtex", logging.FileSinkOptions{Path: lf})
		if err != nil {
			return err
		}
		log = fileLog
	}

	opts, err := flagsToOptions(c)
	if err != nil {
		return err
	}

	msh, err := meshLoader.Load(c.String("mesh"))
	if err != nil {
		return err
	}
	cams, err := loadCameras(c.String("cameras"))
	if err != nil {
		return err
	}

	sp, err := spinnerFactory("texturing mesh (" + strings.ToLower(opts.MapMode.String()) + ")...")
	if err != nil {
		return err
	}

	pipeline := mvtex.New(msh, cams, imagecache.FileDecoder{}, opts)
	result, err := pipeline.Run()
	if err != nil {
		var overflow *ssmverr.Overflow
		if errors.As(err, &overflow) {
			sp.Fail("atlas too small at dimension ", opts.Dimension)
			retry, cerr := confirmOverflow(overflow.SuggestedDimension)
			if cerr != nil {
				return cerr
			}
			if !retry {
				return overflow
			}
			opts.Dimension = float64(overflow.SuggestedDimension)
			pipeline = mvtex.New(msh, cams, imagecache.FileDecoder{}, opts)
			sp, err = spinnerFactory("retexturing with a larger atlas...")
			if err != nil {
				return err
			}
			result, err = pipeline.Run()
		}
		if err != nil {
			sp.Fail(err.Error())
			return err
		}
	}
	sp.Success("textured ", result.Mesh.NumTriangles(), " triangles across ", len(cams), " cameras")

	if err := meshWriter.Write(c.String("out"), result.Mesh); err != nil {
		return err
	}

	if result.Atlas != nil {
		atlasPath := c.String("atlas-out")
		if atlasPath == "" {
			atlasPath = strings.TrimSuffix(c.String("out"), filepath.Ext(c.String("out"))) + "." + opts.OutExtension
		}
		if err := imaging.Save(result.Atlas, atlasPath); err != nil {
			return ssmverr.Wrap(ssmverr.Internal, err, "save atlas image")
		}
	}

	if dv := c.String("debug-viz"); dv != "" && len(result.Charts) > 0 {
		if err := debugviz.RenderChartLayout(result.Charts, result.Placements, result.AtlasSize, dv); err != nil {
			return err
		}
	}

	summary := report.Summary{
		Options:        opts,
		Diagnostics:    result.Diagnostics,
		NumTriangles:   result.Mesh.NumTriangles(),
		NumCameras:     len(cams),
		AtlasWidth:     result.AtlasSize.Width,
		AtlasHeight:    result.AtlasSize.Height,
		NumVertexColor: len(result.VertexColors),
	}
	fmt.Println(report.Render(summary))
	log.Infof("wrote %s", c.String("out"))

	return nil
}
