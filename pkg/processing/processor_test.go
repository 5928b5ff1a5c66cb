package processing

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/odutil/pkg/types"
)

// createTestImage writes a uniform gray PNG and returns its path
func createTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{64, 64, 64, 255})
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageSize(t *testing.T) {
	path := createTestImage(t, 320, 200)

	size, err := NewProcessor().ImageSize(path)
	if err != nil {
		t.Fatalf("ImageSize failed: %v", err)
	}
	if size.Width != 320 || size.Height != 200 {
		t.Errorf("Expected 320x200, got %dx%d", size.Width, size.Height)
	}
	if size.Depth < 1 {
		t.Errorf("Expected a positive depth, got %d", size.Depth)
	}
}

func TestImageSizeErrors(t *testing.T) {
	p := NewProcessor()
	if _, err := p.ImageSize(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing image")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.png")
	if err := os.WriteFile(bogus, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ImageSize(bogus); err == nil {
		t.Error("Expected error for undecodable image")
	}
}

func TestLoadImage(t *testing.T) {
	img, err := NewProcessor().LoadImage(createTestImage(t, 40, 30))
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
}

func TestClassColorStable(t *testing.T) {
	if ClassColor("cat") != ClassColor("cat") {
		t.Error("Expected the same color for the same class")
	}
	if ClassColor("cat") == ClassColor("dog") {
		t.Log("cat and dog share a color")
	}
	if ClassColor("cat").A != 255 {
		t.Error("Expected opaque color")
	}
}

func TestRenderAnnotation(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	ann := &types.Annotation{
		Size:    types.Size{Width: 100, Height: 100},
		Objects: []types.BoundingBox{{Name: "cat", XMin: 20, YMin: 30, XMax: 80, YMax: 90}},
	}

	out := NewProcessor().RenderAnnotation(img, ann)
	want := ClassColor("cat")

	// Left edge of the box, below the caption band.
	r, g, b, _ := out.At(20, 60).RGBA()
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("Expected box outline in class color at (20,60)")
	}

	// Box interior stays untouched.
	if _, _, _, a := out.At(50, 60).RGBA(); a != 0 {
		t.Error("Expected interior to be unchanged")
	}

	// Source image is not modified.
	if _, _, _, a := img.At(20, 60).RGBA(); a != 0 {
		t.Error("Source image should not be modified")
	}
}

func TestRenderAnnotationOutOfBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	ann := &types.Annotation{Objects: []types.BoundingBox{{Name: "x", XMin: -5, YMin: -5, XMax: 50, YMax: 50}}}

	// Must clip rather than panic.
	NewProcessor().RenderAnnotation(img, ann)
}

func TestFit(t *testing.T) {
	p := NewProcessor()
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))

	if got := p.Fit(img, 0); got != image.Image(img) {
		t.Error("Expected maxDim 0 to keep the image")
	}
	out := p.Fit(img, 100)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Errorf("Expected 100x50, got %v", out.Bounds())
	}
}

func TestSaveImage(t *testing.T) {
	p := NewProcessor()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	dir := t.TempDir()

	for _, format := range []string{"png", "jpg", "webp"} {
		path := filepath.Join(dir, "out."+format)
		if err := p.SaveImage(img, path, format, 90, false); err != nil {
			t.Fatalf("SaveImage(%s) failed: %v", format, err)
		}
		size, err := p.ImageSize(path)
		if err != nil {
			t.Fatalf("ImageSize(%s) failed: %v", format, err)
		}
		if size.Width != 16 || size.Height != 16 {
			t.Errorf("%s: expected 16x16, got %dx%d", format, size.Width, size.Height)
		}
	}
}
