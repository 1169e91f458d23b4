package layout

// 布局坐标以像素为单位。渲染后端以 1 像素 = 1 画布单位（mm）栅格化，
// 字体系统使用 pt，因此字号在边界处做 px↔pt 换算。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt 将像素字号转为字体系统使用的 pt。
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx 将 pt 转为像素。
func PtToPx(pt float64) float64 { return pt * PtToMm }
