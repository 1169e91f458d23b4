package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ByLCY/bratgen/atomicfile"
	"github.com/ByLCY/bratgen/config"
	"github.com/ByLCY/bratgen/fonts"
	"github.com/ByLCY/bratgen/layout"
	"github.com/ByLCY/bratgen/logger"
	canvasrenderer "github.com/ByLCY/bratgen/renderer/canvas"
	"github.com/ByLCY/bratgen/server"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "TOML 配置文件路径（缺省使用内置默认值）")
	addr := flag.String("addr", "", "监听地址，覆盖配置中的 server.addr")
	text := flag.String("text", "", "直接渲染该文本并写入 -out，不启动服务")
	output := flag.String("out", "brat.png", "输出路径，扩展名 .png 或 .gif 决定输出类型")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	writeConfig := flag.String("write-config", "", "将当前生效的配置写入该路径后退出")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log, closer := logger.NewLogger(logger.Options{
		Level:     logger.ParseLevel(cfg.Log.Level),
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
	defer closer.Close()
	slog.SetDefault(log)

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			logger.Fail(log, "写入配置失败", "path", *writeConfig, "error", err)
			os.Exit(1)
		}
		fmt.Printf("已写入配置：%s\n", *writeConfig)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := loadFonts(ctx, cfg, *configPath, log)
	if err != nil {
		logger.Fail(log, "加载字体失败", "source", cfg.Font.Source, "error", err)
		os.Exit(1)
	}

	if *text != "" {
		if err := renderToFile(cfg, registry, *text, *output, *debug); err != nil {
			logger.Fail(log, "渲染失败", "error", err)
			os.Exit(1)
		}
		fmt.Printf("已生成：%s\n", *output)
		return
	}

	srv := server.New(server.Config{
		Addr: cfg.Server.Addr,
		Handler: server.NewHandler(server.Options{
			Config:  cfg,
			Fonts:   registry,
			Logger:  log,
			Version: version,
		}),
		ReadTimeout:     seconds(cfg.Server.ReadTimeoutSeconds),
		WriteTimeout:    seconds(cfg.Server.WriteTimeoutSeconds),
		IdleTimeout:     seconds(cfg.Server.IdleTimeoutSeconds),
		ShutdownTimeout: seconds(cfg.Server.ShutdownTimeoutSeconds),
		Logger:          log,
	})
	if err := srv.Run(ctx); err != nil {
		logger.Fail(log, "服务异常退出", "error", err)
		os.Exit(1)
	}
}

// loadFonts 在启动时注册配置的字体并预解析一次，之后的请求只读使用。
func loadFonts(ctx context.Context, cfg *config.Config, configPath string, log *slog.Logger) (*fonts.Registry, error) {
	baseDir := cfg.Font.BaseDir
	if baseDir == "" && configPath != "" {
		baseDir = filepath.Dir(configPath)
	}
	registry := fonts.NewRegistry(fonts.Options{
		BaseDir:  baseDir,
		CacheDir: cfg.Font.CacheDir,
		Client:   fonts.NewHTTPClient(log),
	})
	if err := registry.Register(ctx, cfg.Font.Source); err != nil {
		return nil, err
	}
	r := canvasrenderer.NewRenderer(canvasrenderer.Options{Fonts: registry})
	if err := r.Preload(cfg.FontResource()); err != nil {
		return nil, err
	}
	log.Info("font registered", "source", cfg.Font.Source)
	return registry, nil
}

// renderToFile 渲染一次并原子写入 outputPath，扩展名决定 PNG 或 GIF。
func renderToFile(cfg *config.Config, src canvasrenderer.FontSource, text, outputPath, debugPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("文本不能为空")
	}
	var build func(string, layout.BuildOptions) (*layout.Result, error)
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".png":
		build = layout.BuildStatic
	case ".gif":
		build = layout.BuildAnimation
	default:
		return fmt.Errorf("不支持的输出格式 %q（仅支持 .png / .gif）", filepath.Ext(outputPath))
	}

	r := canvasrenderer.NewRenderer(canvasrenderer.Options{
		Fonts:   src,
		Quality: cfg.Animation.Quality,
	})
	opts, err := cfg.BuildOptions(r)
	if err != nil {
		return err
	}
	result, err := build(text, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		var buf bytes.Buffer
		if err := layout.WriteDebugJSON(&buf, result); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		if err := atomicfile.Write(debugPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入调试 JSON 失败: %w", err)
		}
	}

	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := atomicfile.Write(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
