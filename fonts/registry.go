package fonts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-retryablehttp"
)

// Options 控制字体来源的解析方式。
type Options struct {
	// BaseDir 用于解析相对的 file: 路径。
	BaseDir string
	// CacheDir 用于缓存下载的字体，为空时不缓存。
	CacheDir string
	// Client 用于 google: 来源，为空时按需创建。
	Client *retryablehttp.Client
}

// Registry 保存启动时注册的字体数据。注册完成后只读，可并发使用。
type Registry struct {
	opts Options

	mu    sync.RWMutex
	fonts map[string][]byte // by source spec
}

// NewRegistry 创建空的字体注册表。
func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts, fonts: map[string][]byte{}}
}

// Register 解析并加载一个字体来源，重复注册同一来源不会再次加载。
func (r *Registry) Register(ctx context.Context, spec string) error {
	r.mu.RLock()
	_, ok := r.fonts[spec]
	r.mu.RUnlock()
	if ok {
		return nil
	}

	src, err := ParseSource(spec)
	if err != nil {
		return err
	}
	data, err := r.load(ctx, src)
	if err != nil {
		return fmt.Errorf("加载字体 %s 失败: %w", spec, err)
	}

	r.mu.Lock()
	r.fonts[spec] = data
	r.mu.Unlock()
	return nil
}

// Bytes 返回已注册来源的字体数据。未注册的 builtin 来源直接返回内置数据。
func (r *Registry) Bytes(spec string) ([]byte, error) {
	r.mu.RLock()
	data, ok := r.fonts[spec]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}
	if src, err := ParseSource(spec); err == nil && src.Scheme == SchemeBuiltin {
		return Builtin(src.Name)
	}
	return nil, fmt.Errorf("字体 %s 未注册", spec)
}

// Specs 返回已注册的来源列表。
func (r *Registry) Specs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]string, 0, len(r.fonts))
	for s := range r.fonts {
		specs = append(specs, s)
	}
	sort.Strings(specs)
	return specs
}

func (r *Registry) load(ctx context.Context, src Source) ([]byte, error) {
	switch src.Scheme {
	case SchemeBuiltin:
		return Builtin(src.Name)
	case SchemeFile:
		return LoadFile(r.opts.BaseDir, src.Name)
	case SchemeGoogle:
		return FetchGoogleFont(ctx, r.opts.Client, src.Name, src.Weight, r.opts.CacheDir)
	default:
		return nil, fmt.Errorf("未知的字体来源类型 %q", src.Scheme)
	}
}

// LoadFile 读取本地字体文件。pattern 可以包含 doublestar 通配符（如 fonts/**/*Bold.ttf），
// 多个匹配时取排序后的第一个。WOFF2 会被转换为 SFNT。
func LoadFile(baseDir, pattern string) ([]byte, error) {
	if !filepath.IsAbs(pattern) && baseDir != "" {
		pattern = filepath.Join(baseDir, pattern)
	}
	path := pattern
	if doublestar.ValidatePathPattern(pattern) && hasMeta(pattern) {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("匹配字体路径 %s 失败: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("没有匹配 %s 的字体文件", pattern)
		}
		sort.Strings(matches)
		path = matches[0]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return ToSFNT(path, data)
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
