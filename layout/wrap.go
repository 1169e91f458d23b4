package layout

import "strings"

// Wrap 使用贪心算法按词折行：只在词边界断开，连续空白合并为单个空格。
// 单个超宽的词独占一行，不在词内拆分；空输入返回零行。
func Wrap(measure MeasureFunc, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var builder strings.Builder
	for _, word := range words {
		if builder.Len() == 0 {
			builder.WriteString(word)
			continue
		}
		candidate := builder.String() + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, builder.String())
			builder.Reset()
			builder.WriteString(word)
			continue
		}
		builder.Reset()
		builder.WriteString(candidate)
	}
	if builder.Len() > 0 {
		lines = append(lines, builder.String())
	}
	return lines
}
