package fonts

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Scheme 标识字体来源类型。
type Scheme string

const (
	SchemeBuiltin Scheme = "builtin"
	SchemeFile    Scheme = "file"
	SchemeGoogle  Scheme = "google"
)

var (
	sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Colon", Pattern: `:`},
		{Name: "Text", Pattern: `[^:]+`},
	})

	sourceParser = participle.MustBuild[sourceAST](
		participle.Lexer(sourceLexer),
	)
)

// sourceAST 是来源字符串的语法树：以冒号分隔的若干段。
type sourceAST struct {
	Head string   `parser:"@Text"`
	Tail []string `parser:"( Colon @Text )*"`
}

// Source 描述一个已解析的字体来源。
//
//	builtin:gobold          内置字体
//	embed:gobold            同 builtin
//	file:fonts/**/*Bold.ttf 本地文件，支持 doublestar 通配
//	fonts/Arial-Bold.ttf    无前缀时按文件处理
//	google:Inter:800        Google Fonts 家族与字重
type Source struct {
	Scheme Scheme
	Name   string // builtin 名称、文件路径模式或 Google 家族名
	Weight string // 仅 google 使用
}

// String 返回规范化的来源字符串。
func (s Source) String() string {
	if s.Scheme == SchemeGoogle {
		return fmt.Sprintf("%s:%s:%s", s.Scheme, s.Name, s.Weight)
	}
	return fmt.Sprintf("%s:%s", s.Scheme, s.Name)
}

// ParseSource 解析字体来源字符串。
func ParseSource(spec string) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Source{}, fmt.Errorf("字体来源为空")
	}
	ast, err := sourceParser.ParseString("", spec)
	if err != nil {
		return Source{}, fmt.Errorf("解析字体来源 %q 失败: %w", spec, err)
	}

	head := strings.TrimSpace(ast.Head)
	if len(ast.Tail) == 0 {
		return Source{Scheme: SchemeFile, Name: head}, nil
	}
	switch strings.ToLower(head) {
	case "builtin", "built-in", "embed":
		if len(ast.Tail) != 1 {
			return Source{}, fmt.Errorf("字体来源 %q: builtin 只接受一个名称", spec)
		}
		return Source{Scheme: SchemeBuiltin, Name: strings.TrimSpace(ast.Tail[0])}, nil
	case "file":
		return Source{Scheme: SchemeFile, Name: strings.Join(ast.Tail, ":")}, nil
	case "google":
		if len(ast.Tail) > 2 {
			return Source{}, fmt.Errorf("字体来源 %q: 应为 google:FAMILY:WEIGHT", spec)
		}
		weight := "400"
		if len(ast.Tail) == 2 {
			weight = strings.TrimSpace(ast.Tail[1])
		}
		return Source{Scheme: SchemeGoogle, Name: strings.TrimSpace(ast.Tail[0]), Weight: weight}, nil
	default:
		// 没有已知前缀的冒号，视为普通路径（例如 Windows 盘符）。
		return Source{Scheme: SchemeFile, Name: spec}, nil
	}
}
