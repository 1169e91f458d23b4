package layout

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

// stubMeasurer 是一个最小实现，仅用于测试：每个字符宽度固定为字号的 0.6 倍。
type stubMeasurer struct {
	calls int
	sizes []float64
	err   error
}

func (s *stubMeasurer) MeasureFunc(font FontResource, fontSize float64) (MeasureFunc, error) {
	s.calls++
	s.sizes = append(s.sizes, fontSize)
	if s.err != nil {
		return nil, s.err
	}
	return stubMeasure(fontSize), nil
}

func stubMeasure(fontSize float64) MeasureFunc {
	return func(str string) float64 {
		return float64(utf8.RuneCountInString(str)) * fontSize * 0.6
	}
}

var errMeasure = errors.New("measure failed")

func defaultRequest(text string) Request {
	return Request{
		Text:        text,
		BoxWidth:    DefaultCanvasSize,
		BoxHeight:   DefaultCanvasSize,
		Margin:      DefaultMargin,
		MaxFontSize: DefaultMaxFontSize,
		MinFontSize: DefaultMinFontSize,
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func repeat(s string, n int) string { return strings.Repeat(s, n) }
