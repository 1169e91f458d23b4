package layout

import "time"

// 默认策略常量。
const (
	DefaultCanvasSize       = 500.0
	DefaultMargin           = 15.0
	DefaultMaxFontSize      = 120
	DefaultMinFontSize      = 10
	DefaultFontStep         = 2
	DefaultLineHeightFactor = 1.2
	DefaultMaxTextLength    = 100

	DefaultCharDelay  = 120 * time.Millisecond
	DefaultLeadDelay  = 600 * time.Millisecond
	DefaultFinalDelay = 2500 * time.Millisecond
)

// MeasureFunc 返回字符串在当前字体与字号下的渲染宽度（像素）。
type MeasureFunc func(s string) float64

// Measurer 负责为给定字体与字号提供宽度测量能力，由渲染后端实现。
type Measurer interface {
	MeasureFunc(font FontResource, fontSize float64) (MeasureFunc, error)
}

// BuildOptions 配置帧合成阶段所需的依赖与参数。
type BuildOptions struct {
	Measurer Measurer

	Width            float64
	Height           float64
	Margin           float64
	MaxFontSize      int
	MinFontSize      int
	FontStep         int
	LineHeightFactor float64
	MaxTextLength    int

	Font       FontResource
	Foreground Color
	Background Color

	Timing Timing
	Loop   int
}

// Timing 控制动画每一类帧的停留时长。
type Timing struct {
	Char  time.Duration `json:"char"`
	Lead  time.Duration `json:"lead"`
	Final time.Duration `json:"final"`
}

// DefaultBuildOptions 返回 500×500、白底黑字的默认配置，Measurer 需由调用方注入。
func DefaultBuildOptions(m Measurer, font FontResource) BuildOptions {
	return BuildOptions{
		Measurer:         m,
		Width:            DefaultCanvasSize,
		Height:           DefaultCanvasSize,
		Margin:           DefaultMargin,
		MaxFontSize:      DefaultMaxFontSize,
		MinFontSize:      DefaultMinFontSize,
		FontStep:         DefaultFontStep,
		LineHeightFactor: DefaultLineHeightFactor,
		MaxTextLength:    DefaultMaxTextLength,
		Font:             font,
		Foreground:       Black,
		Background:       White,
		Timing: Timing{
			Char:  DefaultCharDelay,
			Lead:  DefaultLeadDelay,
			Final: DefaultFinalDelay,
		},
	}
}

func (o BuildOptions) request(text string) Request {
	return Request{
		Text:             text,
		BoxWidth:         o.Width,
		BoxHeight:        o.Height,
		Margin:           o.Margin,
		MaxFontSize:      o.MaxFontSize,
		MinFontSize:      o.MinFontSize,
		FontStep:         o.FontStep,
		LineHeightFactor: o.LineHeightFactor,
		Font:             o.Font,
	}
}
