package layout

import "time"

// 该文件定义排版请求、排版结果与帧描述，供布局计算、渲染与调试 JSON 共用。

// Kind 区分静态图片与动画。
type Kind string

const (
	KindStill     Kind = "still"
	KindAnimation Kind = "animation"
)

// Result 保存一次渲染请求的全部帧。静态图片只有一帧。
type Result struct {
	Kind   Kind    `json:"kind"`
	Text   string  `json:"text"`
	Frames []Frame `json:"frames"`
	// Loop 为 GIF 循环次数，0 表示无限循环。
	Loop int `json:"loop"`
}

// Frame 记录画布尺寸、背景与已经排好坐标的行。
// 坐标单位为像素，原点在左上角。
type Frame struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Background Color           `json:"background"`
	Fitted     Fitted          `json:"fitted"`
	Lines      []JustifiedLine `json:"lines"`
	Style      PaintStyle      `json:"style"`
	Delay      time.Duration   `json:"delay"`
}

// Blank 报告该帧是否只有背景。
func (f Frame) Blank() bool { return len(f.Lines) == 0 }

// FontResource 描述字体资源，Src 使用 fonts 包的来源语法（builtin:/file:/google:）。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
)

// Align 表示文本锚点的水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// PaintStyle 是一次绘制所需的完整样式，随绘制命令传递，不依赖可变的画布状态。
type PaintStyle struct {
	Font     FontResource `json:"font"`
	FontSize float64      `json:"fontSize"`
	Color    Color        `json:"color"`
}

// Request 是 Fit 的输入，零值策略字段会回落到默认值。
type Request struct {
	Text             string       `json:"text"`
	BoxWidth         float64      `json:"boxWidth"`
	BoxHeight        float64      `json:"boxHeight"`
	Margin           float64      `json:"margin"`
	MaxFontSize      int          `json:"maxFontSize"`
	MinFontSize      int          `json:"minFontSize"`
	FontStep         int          `json:"fontStep"`
	LineHeightFactor float64      `json:"lineHeightFactor"`
	Font             FontResource `json:"font"`
}

// ContentWidth 返回去掉左右边距后的可用宽度。
func (r Request) ContentWidth() float64 { return r.BoxWidth - 2*r.Margin }

// ContentHeight 返回去掉上下边距后的可用高度。
func (r Request) ContentHeight() float64 { return r.BoxHeight - 2*r.Margin }

// Fitted 是 Fit 的输出：最终字号与折行结果。
type Fitted struct {
	FontSize   int      `json:"fontSize"`
	LineHeight float64  `json:"lineHeight"`
	Lines      []string `json:"lines"`
	// Overflow 为 true 表示字号已降到下限仍放不下，返回的是尽力而为的结果。
	Overflow bool `json:"overflow,omitempty"`
}

// JustifiedLine 表示一行排好位置的文本。
// Y 为行框顶部；两端对齐的行每个词单独定位，居中行只有一个条目。
type JustifiedLine struct {
	Words     []PlacedWord `json:"words"`
	Y         float64      `json:"y"`
	Align     Align        `json:"align"`
	Justified bool         `json:"justified"`
}

// PlacedWord 记录一个词的锚点 X 与测得宽度。
// Align 为 center 时 X 为中心点，否则为左边缘。
type PlacedWord struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}
