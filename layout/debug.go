package layout

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteDebugJSON 将排版结果以缩进 JSON 写入 w，便于调试或可视化。
func WriteDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return fmt.Errorf("排版结果为空")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
