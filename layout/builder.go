package layout

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// CapText 将输入截断到最多 limit 个字符（按 rune 计），limit<=0 时使用默认上限。
func CapText(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxTextLength
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

// BuildStatic 对截断后的文本排版一次，生成单帧结果。
func BuildStatic(text string, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	text = CapText(text, opts.MaxTextLength)
	frame, err := composeFrame(text, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:   KindStill,
		Text:   text,
		Frames: []Frame{frame},
	}, nil
}

// BuildAnimation 生成打字效果的帧序列：一帧空白引入帧，每个前缀一帧，最后一帧重复停留。
// 每个前缀都重新执行完整的 Fit 与 Justify，字号可能随文本增长而变化。
func BuildAnimation(text string, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	text = CapText(text, opts.MaxTextLength)
	runes := []rune(text)

	frames := make([]Frame, 0, len(runes)+2)
	frames = append(frames, blankFrame(opts, opts.Timing.Lead))

	last := frames[0]
	for i := 1; i <= len(runes); i++ {
		frame, err := composeFrame(string(runes[:i]), opts)
		if err != nil {
			return nil, fmt.Errorf("合成第 %d 帧失败: %w", i, err)
		}
		frame.Delay = opts.Timing.Char
		frames = append(frames, frame)
		last = frame
	}

	final := last
	final.Delay = opts.Timing.Final
	frames = append(frames, final)

	return &Result{
		Kind:   KindAnimation,
		Text:   text,
		Frames: frames,
		Loop:   opts.Loop,
	}, nil
}

func blankFrame(opts BuildOptions, delay time.Duration) Frame {
	return Frame{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: opts.Background,
		Style:      PaintStyle{Font: opts.Font, Color: opts.Foreground},
		Delay:      delay,
	}
}

// composeFrame 串联 Fit 与 Justify，最后一行居中。
func composeFrame(text string, opts BuildOptions) (Frame, error) {
	req := opts.request(text)
	fitted, err := Fit(opts.Measurer, req)
	if err != nil {
		return Frame{}, err
	}
	measure, err := opts.Measurer.MeasureFunc(opts.Font, float64(fitted.FontSize))
	if err != nil {
		return Frame{}, fmt.Errorf("测量字号 %d 失败: %w", fitted.FontSize, err)
	}

	maxWidth := req.ContentWidth()
	lines := make([]JustifiedLine, 0, len(fitted.Lines))
	for i, line := range fitted.Lines {
		y := opts.Margin + float64(i)*fitted.LineHeight
		isLast := i == len(fitted.Lines)-1
		lines = append(lines, Justify(measure, line, opts.Margin, y, maxWidth, isLast))
	}

	frame := blankFrame(opts, 0)
	frame.Fitted = fitted
	frame.Lines = lines
	frame.Style.FontSize = float64(fitted.FontSize)
	return frame, nil
}
