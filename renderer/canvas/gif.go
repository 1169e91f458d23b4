package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"sort"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/bratgen/layout"
)

// maxPaletteSize is the GIF colour table limit.
const maxPaletteSize = 256

func (r *Renderer) encodeGIF(result *layout.Result) ([]byte, error) {
	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(result.Frames)),
		Delay:     make([]int, 0, len(result.Frames)),
		LoopCount: result.Loop,
	}
	for i, frame := range result.Frames {
		img, err := r.RasterizeFrame(frame)
		if err != nil {
			return nil, fmt.Errorf("第 %d 帧: %w", i, err)
		}
		pal := Quantize(img, r.quality, frame.Background, frame.Style.Color)
		paletted := image.NewPaletted(img.Bounds(), pal)
		xdraw.Draw(paletted, paletted.Bounds(), img, img.Bounds().Min, xdraw.Src)

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delayCentis(frame.Delay))
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("编码 GIF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// delayCentis converts a frame delay to GIF units of 1/100 s.
func delayCentis(d time.Duration) int {
	return int(d / (10 * time.Millisecond))
}

// Quantize builds a palette for img by counting colours on every quality-th
// pixel. The background and foreground colours are always present so that
// flat areas and glyph cores survive quantization exactly; the remaining
// slots go to the most frequent sampled colours.
func Quantize(img *image.RGBA, quality int, bg, fg layout.Color) color.Palette {
	if quality < 1 {
		quality = 1
	}
	counts := map[uint32]int{}
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 * quality {
		key := uint32(pix[i])<<16 | uint32(pix[i+1])<<8 | uint32(pix[i+2])
		counts[key]++
	}

	pal := color.Palette{colorFromLayout(bg)}
	seen := map[uint32]bool{packColor(bg): true}
	if !seen[packColor(fg)] {
		pal = append(pal, colorFromLayout(fg))
		seen[packColor(fg)] = true
	}

	keys := make([]uint32, 0, len(counts))
	for k := range counts {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if len(pal) >= maxPaletteSize {
			break
		}
		pal = append(pal, color.RGBA{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k), A: 255})
	}
	return pal
}

func packColor(c layout.Color) uint32 {
	return uint32(uint8(c.R))<<16 | uint32(uint8(c.G))<<8 | uint32(uint8(c.B))
}
