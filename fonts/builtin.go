package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// builtin 保存编译进二进制的字体。
var builtin = map[string][]byte{
	"gobold":    gobold.TTF,
	"gomedium":  gomedium.TTF,
	"goregular": goregular.TTF,
}

// DefaultSource 是未配置字体时使用的粗体显示字体。
const DefaultSource = "builtin:gobold"

// Builtin 返回内置字体的字节数据，name 可写为 "gobold" 或 "builtin:gobold"。
func Builtin(name string) ([]byte, error) {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "builtin:"), "embed:")
	data, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", name, strings.Join(BuiltinNames(), ", "))
	}
	return data, nil
}

// BuiltinNames 返回排好序的内置字体名称。
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
