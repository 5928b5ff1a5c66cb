// Package labels converts parsed annotations into YOLO label files.
package labels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/menta2k/odutil/internal/utils"
	"github.com/menta2k/odutil/pkg/annotation"
	"github.com/menta2k/odutil/pkg/types"
)

// ErrInvalidSize is returned when an image width or height is not positive
var ErrInvalidSize = errors.New("invalid image size")

// SizeResolver reads image dimensions from an image file
type SizeResolver interface {
	ImageSize(path string) (types.Size, error)
}

// Config holds configuration for label generation
type Config struct {
	// SkipDifficult drops boxes flagged difficult in the annotation
	SkipDifficult bool
	// ImageDir is searched for the annotated image when the annotation
	// declares a zero width or height
	ImageDir string
}

// Generator writes YOLO label files
type Generator struct {
	parser annotation.Parser
	names  NameMap
	config Config
	sizes  SizeResolver
}

// New creates a Generator with default configuration
func New(parser annotation.Parser, names NameMap) *Generator {
	return NewWithConfig(parser, names, Config{})
}

// NewWithConfig creates a Generator with custom configuration
func NewWithConfig(parser annotation.Parser, names NameMap, config Config) *Generator {
	return &Generator{
		parser: parser,
		names:  names,
		config: config,
	}
}

// SetSizeResolver sets the resolver used with Config.ImageDir
func (g *Generator) SetSizeResolver(r SizeResolver) {
	g.sizes = r
}

// Names returns the class mapping used by the generator
func (g *Generator) Names() NameMap {
	return g.names
}

// Normalize converts a pixel box into YOLO center format relative to the image size
func Normalize(b types.BoundingBox, s types.Size) (types.Box, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return types.Box{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, s.Width, s.Height)
	}
	w, h := float64(s.Width), float64(s.Height)
	return types.Box{
		X: float64(b.XMin+b.XMax) / (2 * w),
		Y: float64(b.YMin+b.YMax) / (2 * h),
		W: float64(b.XMax-b.XMin) / w,
		H: float64(b.YMax-b.YMin) / h,
	}, nil
}

// Denormalize converts a YOLO box back to pixel corner coordinates
func Denormalize(box types.Box, s types.Size) (xmin, ymin, xmax, ymax float64) {
	w, h := float64(s.Width), float64(s.Height)
	cx, cy := box.X*w, box.Y*h
	bw, bh := box.W*w, box.H*h
	return cx - bw/2, cy - bh/2, cx + bw/2, cy + bh/2
}

// FormatLine renders a label as "<index> <x> <y> <w> <h>"
func FormatLine(l types.Label) string {
	return strings.Join([]string{
		strconv.Itoa(l.Index),
		formatFloat(l.Box.X),
		formatFloat(l.Box.Y),
		formatFloat(l.Box.W),
		formatFloat(l.Box.H),
	}, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Encode joins label lines with newlines, without a trailing newline
func Encode(labels []types.Label) []byte {
	lines := make([]string, len(labels))
	for i, l := range labels {
		lines[i] = FormatLine(l)
	}
	return []byte(strings.Join(lines, "\n"))
}

// Labels converts an annotation into labels. Boxes whose class is not in the
// names mapping are skipped. A missing image size is only resolved once a
// retained box needs it.
func (g *Generator) Labels(ann *types.Annotation) ([]types.Label, error) {
	size := ann.Size
	resolved := false

	labels := make([]types.Label, 0, len(ann.Objects))
	for _, obj := range ann.Objects {
		index, ok := g.names.Lookup(obj.Name)
		if !ok {
			continue
		}
		if obj.Difficult && g.config.SkipDifficult {
			continue
		}
		if !resolved {
			var err error
			if size, err = g.imageSize(ann); err != nil {
				return nil, err
			}
			resolved = true
		}
		box, err := Normalize(obj, size)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ann.AnnotationName, err)
		}
		labels = append(labels, types.Label{Index: index, Box: box})
	}
	return labels, nil
}

func (g *Generator) imageSize(ann *types.Annotation) (types.Size, error) {
	size := ann.Size
	if (size.Width > 0 && size.Height > 0) || g.config.ImageDir == "" || g.sizes == nil {
		return size, nil
	}
	resolved, err := g.sizes.ImageSize(filepath.Join(g.config.ImageDir, ann.Filename))
	if err != nil {
		return size, fmt.Errorf("failed to resolve size of %s: %w", ann.Filename, err)
	}
	return resolved, nil
}

// Generate parses the annotation at annoPath and writes <stem>.txt into outDir,
// replacing any existing file. Only the last path element of outDir is created.
func (g *Generator) Generate(annoPath, outDir string) (string, error) {
	ann, err := g.parser.Parse(annoPath)
	if err != nil {
		return "", err
	}

	labels, err := g.Labels(ann)
	if err != nil {
		return "", err
	}

	if err := utils.EnsureDir(outDir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outPath := utils.GenerateOutputFilename(annoPath, outDir, "", "", "txt")
	if err := os.WriteFile(outPath, Encode(labels), 0o644); err != nil {
		return "", fmt.Errorf("failed to write label file: %w", err)
	}
	return outPath, nil
}
