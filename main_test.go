package main

import (
	"encoding/json"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/bratgen/config"
	"github.com/ByLCY/bratgen/fonts"
	"github.com/ByLCY/bratgen/layout"
)

func TestRenderToFilePNGWithDebug(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "card.png")
	debug := filepath.Join(dir, "debug", "layout.json")

	cfg := config.DefaultConfig()
	if err := renderToFile(cfg, fonts.NewRegistry(fonts.Options{}), "hello world again", out, debug); err != nil {
		t.Fatalf("renderToFile: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 500 || b.Dy() != 500 {
		t.Errorf("size = %v", b)
	}

	data, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("read debug: %v", err)
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode debug json: %v", err)
	}
	if res.Kind != layout.KindStill || len(res.Frames) != 1 || len(res.Frames[0].Lines) == 0 {
		t.Fatalf("unexpected debug result: kind=%s frames=%d", res.Kind, len(res.Frames))
	}
}

func TestRenderToFileGIF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "card.GIF")
	if err := renderToFile(config.DefaultConfig(), fonts.NewRegistry(fonts.Options{}), "brat", out, ""); err != nil {
		t.Fatalf("renderToFile: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(g.Image) != 6 {
		t.Errorf("frames = %d, want 6", len(g.Image))
	}
}

func TestRenderToFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	reg := fonts.NewRegistry(fonts.Options{})
	if err := renderToFile(config.DefaultConfig(), reg, "hi", filepath.Join(dir, "card.jpg"), ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if err := renderToFile(config.DefaultConfig(), reg, "   ", filepath.Join(dir, "card.png"), ""); err == nil {
		t.Error("expected error for empty text")
	}
}
