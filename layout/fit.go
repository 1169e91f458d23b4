package layout

import (
	"fmt"
	"math"
)

// Fit 从最大字号开始逐级缩小，直到折行后的文本块在高度与宽度上都能放进内容区域。
// 下一个字号会落到下限（含）时停止，返回最后一次计算的结果并标记 Overflow。
func Fit(m Measurer, req Request) (Fitted, error) {
	if m == nil {
		return Fitted{}, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	step := req.FontStep
	if step <= 0 {
		step = DefaultFontStep
	}
	floor := req.MinFontSize
	if floor <= 0 {
		floor = DefaultMinFontSize
	}
	factor := req.LineHeightFactor
	if factor <= 0 {
		factor = DefaultLineHeightFactor
	}
	maxWidth := req.ContentWidth()
	maxHeight := req.ContentHeight()

	fontSize := req.MaxFontSize
	if fontSize <= 0 {
		fontSize = DefaultMaxFontSize
	}
	for {
		measure, err := m.MeasureFunc(req.Font, float64(fontSize))
		if err != nil {
			return Fitted{}, fmt.Errorf("测量字号 %d 失败: %w", fontSize, err)
		}
		lines := Wrap(measure, req.Text, maxWidth)
		lineHeight := float64(fontSize) * factor
		textHeight := float64(len(lines)) * lineHeight
		maxLineWidth := 0.0
		for _, line := range lines {
			maxLineWidth = math.Max(maxLineWidth, measure(line))
		}

		fitted := Fitted{FontSize: fontSize, LineHeight: lineHeight, Lines: lines}
		if textHeight <= maxHeight && maxLineWidth <= maxWidth {
			return fitted, nil
		}
		if fontSize-step <= floor {
			fitted.Overflow = true
			return fitted, nil
		}
		fontSize -= step
	}
}

// MaxIterations 返回 Fit 在给定参数下最多尝试的字号数量。
func MaxIterations(maxFontSize, floor, step int) int {
	if step <= 0 {
		step = DefaultFontStep
	}
	if maxFontSize <= floor {
		return 1
	}
	return (maxFontSize-floor)/step + 1
}
