package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/bratgen/fonts"
	"github.com/ByLCY/bratgen/layout"
)

var boldFont = layout.FontResource{
	Name:  "Display",
	Src:   fonts.DefaultSource,
	Style: "bold",
}

func newTestRenderer() *Renderer {
	return NewRenderer(Options{Fonts: fonts.NewRegistry(fonts.Options{})})
}

func TestMeasureFuncScalesWithFontSize(t *testing.T) {
	r := newTestRenderer()

	small, err := r.MeasureFunc(boldFont, 20)
	if err != nil {
		t.Fatalf("MeasureFunc: %v", err)
	}
	large, err := r.MeasureFunc(boldFont, 40)
	if err != nil {
		t.Fatalf("MeasureFunc: %v", err)
	}
	ws, wl := small("hello world"), large("hello world")
	if ws <= 0 {
		t.Fatalf("expected positive width, got %f", ws)
	}
	if math.Abs(wl-2*ws) > ws*0.02 {
		t.Fatalf("width should scale linearly: 20px=%f 40px=%f", ws, wl)
	}
	if small("hello") >= ws {
		t.Fatalf("prefix should be narrower than the full string")
	}
}

func TestPreloadRejectsMissingFont(t *testing.T) {
	r := newTestRenderer()
	if err := r.Preload(boldFont); err != nil {
		t.Fatalf("Preload builtin: %v", err)
	}
	missing := layout.FontResource{Name: "Missing", Src: "file:does-not-exist.ttf"}
	if err := r.Preload(missing); err == nil {
		t.Fatalf("expected error for unregistered font")
	}
	if err := NewRenderer(Options{}).Preload(boldFont); err == nil {
		t.Fatalf("expected error without font source")
	}
}

func TestRenderStillPNG(t *testing.T) {
	r := newTestRenderer()
	res, err := layout.BuildStatic("Hi", layout.DefaultBuildOptions(r, boldFont))
	if err != nil {
		t.Fatalf("BuildStatic: %v", err)
	}
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 500 || b.Dy() != 500 {
		t.Fatalf("unexpected size %v", b)
	}
	if !isWhite(img.At(2, 2)) || !isWhite(img.At(497, 497)) {
		t.Fatalf("corners should be background")
	}

	// 单行文本贴近顶部：所有深色像素都应位于上半部分。
	dark := 0
	for y := 0; y < 500; y++ {
		for x := 0; x < 500; x++ {
			if isDark(img.At(x, y)) {
				if y >= 250 {
					t.Fatalf("dark pixel at (%d,%d) below the first line", x, y)
				}
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("expected text pixels")
	}
}

func TestRenderAnimationGIF(t *testing.T) {
	r := newTestRenderer()
	res, err := layout.BuildAnimation("ab c", layout.DefaultBuildOptions(r, boldFont))
	if err != nil {
		t.Fatalf("BuildAnimation: %v", err)
	}
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(g.Image) != 6 {
		t.Fatalf("expected 6 frames, got %d", len(g.Image))
	}
	if g.LoopCount != 0 {
		t.Fatalf("expected infinite loop, got %d", g.LoopCount)
	}
	wantDelays := []int{60, 12, 12, 12, 12, 250}
	for i, d := range wantDelays {
		if g.Delay[i] != d {
			t.Fatalf("frame %d delay = %d, want %d", i, g.Delay[i], d)
		}
	}
	for y := 0; y < 500; y += 7 {
		for x := 0; x < 500; x += 7 {
			if !isWhite(g.Image[0].At(x, y)) {
				t.Fatalf("lead frame should be blank, pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := newTestRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{Kind: layout.KindStill}); err == nil {
		t.Fatalf("expected error for result without frames")
	}
	if _, err := r.RasterizeFrame(layout.Frame{}); err == nil {
		t.Fatalf("expected error for zero-sized frame")
	}
}

func TestQuantizeKeepsBackgroundAndForeground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	pal := Quantize(img, 10, layout.White, layout.Black)
	if len(pal) != 3 {
		t.Fatalf("expected bg, fg and gray, got %d colours", len(pal))
	}
	if pal[0] != (color.RGBA{255, 255, 255, 255}) || pal[1] != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("bg/fg not at the front: %v", pal[:2])
	}
	if pal[2] != (color.RGBA{128, 128, 128, 255}) {
		t.Fatalf("missing sampled colour: %v", pal[2])
	}
}

func TestQuantizeCapsPalette(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	if pal := Quantize(img, 1, layout.White, layout.Black); len(pal) != maxPaletteSize {
		t.Fatalf("palette size = %d, want %d", len(pal), maxPaletteSize)
	}
}

func TestDelayCentis(t *testing.T) {
	cases := map[time.Duration]int{
		layout.DefaultCharDelay:  12,
		layout.DefaultLeadDelay:  60,
		layout.DefaultFinalDelay: 250,
	}
	for d, want := range cases {
		if got := delayCentis(d); got != want {
			t.Errorf("delayCentis(%v) = %d, want %d", d, got, want)
		}
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":            canvas.FontRegular,
		"bold":        canvas.FontBold,
		"Bold Italic": canvas.FontBold | canvas.FontItalic,
		"semibold":    canvas.FontSemiBold,
		"light":       canvas.FontLight,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Errorf("parseFontStyle(%q) = %v, want %v", in, got, want)
		}
	}
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xf000 && g > 0xf000 && b > 0xf000
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x4000 && g < 0x4000 && b < 0x4000
}
