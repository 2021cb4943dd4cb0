package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 9), uint8(y * 13), 77, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_Directory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 32, 32)
	writePNG(t, filepath.Join(dir, "b.png"), 16, 16)
	os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("not an image"), 0o644)

	outDir := filepath.Join(t.TempDir(), "out")
	output, err := runCommand(t, dir, "--out", outDir)
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, output)
	}

	for _, name := range []string{"a.webp", "b.webp"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Missing output %s: %v", name, err)
		}
	}
	if !strings.Contains(output, "Wrote 2 of 2 images") {
		t.Errorf("Unexpected output:\n%s", output)
	}
}

func TestRun_SingleFileWithBudget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 64, 64)

	outDir := filepath.Join(dir, "out")
	output, err := runCommand(t, src, "--out", outDir, "--target-kb", "1")
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, output)
	}

	info, err := os.Stat(filepath.Join(outDir, "photo.webp"))
	if err != nil {
		t.Fatalf("Missing output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Output file is empty")
	}
}

func TestRun_CorruptFileFails(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.png")
	os.WriteFile(bad, []byte("corrupt bytes"), 0o644)

	output, err := runCommand(t, bad, "--out", filepath.Join(dir, "out"))
	if err == nil {
		t.Fatalf("Expected failure for corrupt input\n%s", output)
	}
	if !strings.Contains(output, "FAILED") {
		t.Errorf("Output missing failure line:\n%s", output)
	}
}

func TestRun_NoImages(t *testing.T) {
	if _, err := runCommand(t, t.TempDir()); err == nil {
		t.Error("Expected error for a directory without images")
	}
}

func TestCollectSources_Filters(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "keep.png"), 8, 8)
	os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("no"), 0o644)
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	sources, err := collectSources([]string{dir})
	if err != nil {
		t.Fatalf("collectSources() error = %v", err)
	}
	if len(sources) != 1 || filepath.Base(sources[0]) != "keep.png" {
		t.Errorf("collectSources() = %v, want just keep.png", sources)
	}
}
