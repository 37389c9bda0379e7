package atlas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DilateIterative extends chart borders outward for n iterations: on each
// pass, every background pixel (mask == -1) adjacent to at least one
// non-background pixel is set to the unweighted average of its
// non-background 4-neighbours. A pixel with no non-background neighbour is
// left untouched that pass. Repeated application is idempotent once no
// background pixel has a non-background neighbour left (the fixed point
// §8 describes): further iterations beyond that point change nothing.
func DilateIterative(img *image.RGBA, mask [][]int32, n int) *image.RGBA {
	out := cloneRGBA(img)
	m := cloneMask(mask)
	height := len(m)
	if height == 0 {
		return out
	}
	width := len(m[0])

	for i := 0; i < n; i++ {
		next := cloneRGBA(out)
		nextMask := cloneMask(m)
		changed := false
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if m[y][x] != -1 {
					continue
				}
				var rSum, gSum, bSum, count float64
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					if m[ny][nx] == -1 {
						continue
					}
					c := out.RGBAAt(nx, ny)
					rSum += float64(c.R)
					gSum += float64(c.G)
					bSum += float64(c.B)
					count++
				}
				if count == 0 {
					continue
				}
				next.SetRGBA(x, y, color.RGBA{
					R: clampByte(rSum / count),
					G: clampByte(gSum / count),
					B: clampByte(bSum / count),
					A: 255,
				})
				nextMask[y][x] = 0
				changed = true
			}
		}
		out = next
		m = nextMask
		if !changed {
			break
		}
	}
	return out
}

// DilateInpaint fills every background pixel (mask == -1) using a simple
// push-pull diffusion: it repeatedly downsamples the whole image
// (background texels included) with disintegration/imaging's box
// resampling, upsamples the coarsest level back to full size once with
// Lanczos, then composites the result only into the background
// region. The corpus carries no dedicated inpainting library, so this is
// built from the resize primitives the teacher already uses for
// thumbnails.
func DilateInpaint(img *image.RGBA, mask [][]int32) *image.RGBA {
	out := cloneRGBA(img)
	height := len(mask)
	if height == 0 {
		return out
	}
	width := len(mask[0])
	if width == 0 {
		return out
	}

	levels := pyramidLevels(width, height)
	coarse := image.Image(out)
	for _, level := range levels {
		coarse = imaging.Resize(coarse, level.w, level.h, imaging.Box)
	}
	filled := imaging.Resize(coarse, width, height, imaging.Lanczos)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] != -1 {
				continue
			}
			out.Set(x, y, filled.At(x, y))
		}
	}
	return out
}

type pyramidLevel struct{ w, h int }

// pyramidLevels halves width and height (truncating) until either side is
// 4 texels or fewer, so the base can be smaller than 4 per side; an image
// already that small gets one full-size level. The diffusion pass thus
// averages over progressively larger neighbourhoods.
func pyramidLevels(width, height int) []pyramidLevel {
	var levels []pyramidLevel
	w, h := width, height
	for w > 4 && h > 4 {
		w /= 2
		h /= 2
		levels = append(levels, pyramidLevel{w: w, h: h})
	}
	if len(levels) == 0 {
		levels = append(levels, pyramidLevel{w: width, h: height})
	}
	return levels
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func cloneMask(mask [][]int32) [][]int32 {
	out := make([][]int32, len(mask))
	for i, row := range mask {
		out[i] = append([]int32(nil), row...)
	}
	return out
}
