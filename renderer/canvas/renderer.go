package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/bratgen/layout"
	"github.com/ByLCY/bratgen/renderer"
)

// DefaultQuality is the GIF palette sampling interval (1 = every pixel).
const DefaultQuality = 10

// resolution maps one canvas unit to one output pixel.
var resolution = canvas.DPMM(1.0)

// FontSource returns raw font data for a source spec such as "builtin:gobold".
type FontSource interface {
	Bytes(spec string) ([]byte, error)
}

// Renderer measures and draws layout results via github.com/tdewolff/canvas.
// A Renderer caches parsed font families and is meant to serve a single
// request; it is not safe for concurrent use.
type Renderer struct {
	fonts   FontSource
	quality int

	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	Fonts FontSource
	// Quality is the GIF palette sampling interval; <=0 uses DefaultQuality.
	Quality int
}

// NewRenderer creates a renderer that resolves fonts through opts.Fonts.
func NewRenderer(opts Options) *Renderer {
	q := opts.Quality
	if q <= 0 {
		q = DefaultQuality
	}
	return &Renderer{
		fonts:        opts.Fonts,
		quality:      q,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Preload parses the font once so that a broken font fails at startup rather
// than on the first request.
func (r *Renderer) Preload(font layout.FontResource) error {
	_, _, err := r.ensureFontFamily(font)
	return err
}

// MeasureFunc implements layout.Measurer. fontSize is in pixels.
func (r *Renderer) MeasureFunc(font layout.FontResource, fontSize float64) (layout.MeasureFunc, error) {
	face, err := r.fontFace(font, fontSize, layout.Black)
	if err != nil {
		return nil, err
	}
	return face.TextWidth, nil
}

// Render encodes a still result as PNG and an animation as GIF.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的帧")
	}
	switch result.Kind {
	case layout.KindAnimation:
		return r.encodeGIF(result)
	default:
		return r.encodePNG(result.Frames[0])
	}
}

func (r *Renderer) encodePNG(frame layout.Frame) ([]byte, error) {
	img, err := r.RasterizeFrame(frame)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RasterizeFrame draws one frame on a fresh canvas and rasterizes it.
func (r *Renderer) RasterizeFrame(frame layout.Frame) (*image.RGBA, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("无效的画布尺寸 %gx%g", frame.Width, frame.Height)
	}
	c := canvas.New(frame.Width, frame.Height)
	ctx := canvas.NewContext(c)

	ctx.SetFillColor(colorFromLayout(frame.Background))
	ctx.DrawPath(0, 0, canvas.Rectangle(frame.Width, frame.Height))

	if err := r.drawLines(ctx, frame); err != nil {
		return nil, err
	}
	return rasterizer.Draw(c, resolution, canvas.DefaultColorSpace), nil
}

// drawLines 按行绘制文本。布局坐标原点在左上角、y 向下，而 canvas 原生坐标 y 向上，
// 因此基线位置换算为 frame.Height - (行顶 + Ascent)。
func (r *Renderer) drawLines(ctx *canvas.Context, frame layout.Frame) error {
	if frame.Blank() {
		return nil
	}
	face, err := r.fontFace(frame.Style.Font, frame.Style.FontSize, frame.Style.Color)
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent

	for _, line := range frame.Lines {
		baseline := frame.Height - (line.Y + ascent)
		align := canvas.Left
		if line.Align == layout.AlignCenter {
			align = canvas.Center
		}
		for _, word := range line.Words {
			if word.Text == "" {
				continue
			}
			ctx.DrawText(word.X, baseline, canvas.NewTextLine(face, word.Text, align))
		}
	}
	return nil
}

// fontFace 创建字体面；size 为像素，字体系统使用 pt，这里做一次 px→pt。
func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(size), colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}
	if r.fonts == nil {
		return nil, canvas.FontRegular, fmt.Errorf("未配置字体来源")
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Display"
	}

	data, err := r.fonts.Bytes(font.Src)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("解析字体 %s 失败: %w", font.Src, err)
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case s == "":
		result = canvas.FontRegular
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}
