package fonts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tdewolff/font"

	"github.com/ByLCY/bratgen/atomicfile"
)

// GoogleCSSEndpoint 是 Google Fonts CSS2 API 地址，测试中可以替换。
var GoogleCSSEndpoint = "https://fonts.googleapis.com/css2"

// fontURLRe 从 CSS 响应中提取字体文件地址。
var fontURLRe = regexp.MustCompile(`url\((https?://[^)]+)\)`)

// NewHTTPClient 返回用于下载字体的重试客户端，日志写入 logger（可为 nil）。
func NewHTTPClient(logger *slog.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}
	return client
}

// FetchGoogleFont 下载 Google Fonts 字体并缓存到 cacheDir，返回 SFNT（TTF/OTF）数据。
// 缓存命中时不访问网络；cacheDir 为空时不缓存。
func FetchGoogleFont(ctx context.Context, client *retryablehttp.Client, family, weight, cacheDir string) ([]byte, error) {
	var cacheFile string
	if cacheDir != "" {
		cacheFile = filepath.Join(cacheDir, fmt.Sprintf("%s-%s.ttf", strings.ReplaceAll(family, " ", "_"), weight))
		if data, err := os.ReadFile(cacheFile); err == nil {
			return data, nil
		}
	}
	if client == nil {
		client = NewHTTPClient(nil)
	}

	cssURL := fmt.Sprintf("%s?family=%s:wght@%s", GoogleCSSEndpoint, url.QueryEscape(family), weight)
	css, err := get(ctx, client, cssURL, 1<<20)
	if err != nil {
		return nil, fmt.Errorf("获取 Google Fonts CSS 失败: %w", err)
	}
	matches := fontURLRe.FindSubmatch(css)
	if matches == nil {
		return nil, fmt.Errorf("Google Fonts CSS 中没有 %s wght@%s 的字体地址", family, weight)
	}
	fontURL := string(matches[1])

	data, err := get(ctx, client, fontURL, 10<<20)
	if err != nil {
		return nil, fmt.Errorf("下载字体文件失败: %w", err)
	}
	if data, err = ToSFNT(fontURL, data); err != nil {
		return nil, err
	}

	if cacheFile != "" {
		if err := atomicfile.Write(cacheFile, data, 0o644); err != nil {
			slog.Warn("failed to cache font", "path", cacheFile, "error", err)
		}
	}
	return data, nil
}

func get(ctx context.Context, client *retryablehttp.Client, rawURL string, limit int64) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	// 现代 UA 会拿到 WOFF2，由 ToSFNT 转换。
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s 返回状态 %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// ToSFNT 在需要时将 WOFF2 数据转换为 SFNT，其他格式原样返回。
func ToSFNT(name string, data []byte) ([]byte, error) {
	if !isWOFF2(name, data) {
		return data, nil
	}
	sfnt, err := font.ToSFNT(data)
	if err != nil {
		return nil, fmt.Errorf("转换 WOFF2 %s 失败: %w", name, err)
	}
	return sfnt, nil
}

// isWOFF2 通过扩展名或魔数（"wOF2"）判断是否为 WOFF2。
func isWOFF2(name string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(name), ".woff2") {
		return true
	}
	return len(data) >= 4 && string(data[:4]) == "wOF2"
}
