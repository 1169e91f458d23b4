package layout

import "strings"

// Justify 计算一行中每个词的位置。
// 单词行与段落最后一行整体居中；其余行两端对齐：首词贴左，末词右端落在 x+maxWidth，
// 差额平均分摊到每个词间隙。词本身已超宽时额外间距为负，词会重叠，不做修正。
func Justify(measure MeasureFunc, line string, x, y, maxWidth float64, isLastLine bool) JustifiedLine {
	words := strings.Fields(line)
	if len(words) <= 1 || isLastLine {
		content := strings.Join(words, " ")
		return JustifiedLine{
			Words: []PlacedWord{{
				Text:  content,
				X:     x + maxWidth/2,
				Width: measure(content),
			}},
			Y:     y,
			Align: AlignCenter,
		}
	}

	widths := make([]float64, len(words))
	totalWordsWidth := 0.0
	for i, w := range words {
		widths[i] = measure(w)
		totalWordsWidth += widths[i]
	}
	spaceWidth := measure(" ")
	gaps := float64(len(words) - 1)
	// 每个间隙 = 一个空格宽度 + extra，合计正好填满 maxWidth。
	extra := (maxWidth - totalWordsWidth - gaps*spaceWidth) / gaps

	placed := make([]PlacedWord, len(words))
	cursor := x
	for i, w := range words {
		placed[i] = PlacedWord{Text: w, X: cursor, Width: widths[i]}
		cursor += widths[i] + spaceWidth + extra
	}
	return JustifiedLine{
		Words:     placed,
		Y:         y,
		Align:     AlignLeft,
		Justified: true,
	}
}

// End 返回该行最右侧的绘制位置。
func (l JustifiedLine) End() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	last := l.Words[len(l.Words)-1]
	if l.Align == AlignCenter {
		return last.X + last.Width/2
	}
	return last.X + last.Width
}
