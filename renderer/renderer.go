package renderer

import "github.com/ByLCY/bratgen/layout"

// Renderer 将排版结果编码为最终文件：静态结果为 PNG，动画结果为 GIF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// ContentType 返回结果类型对应的 MIME 类型。
func ContentType(kind layout.Kind) string {
	if kind == layout.KindAnimation {
		return "image/gif"
	}
	return "image/png"
}
