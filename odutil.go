// Package odutil provides utilities for preparing object detection datasets.
//
// It parses Pascal VOC XML annotations, converts them into YOLO label files,
// checks that image and annotation folders correspond, and reports the class
// distribution of an annotation set.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/menta2k/odutil"
//	)
//
//	func main() {
//		tk := odutil.New()
//
//		ok, err := tk.CheckMatch("data/images", "data/annotations")
//		if err != nil || !ok {
//			log.Fatal("images and annotations do not match")
//		}
//
//		err = tk.GenerateLabels(context.Background(), "data/annotations", "data/obj.names", "data/labels")
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
// 1. Annotation (pkg/annotation): Pascal VOC parsing
// 2. Labels (pkg/labels): names files and YOLO label generation
// 3. Dataset (pkg/dataset): folder correspondence checks
// 4. Analyzer (pkg/analyzer): class distribution
// 5. Batch (pkg/batch): the worker pool shared by folder-wide operations
// 6. Processing (pkg/processing): annotation overlays for visual review
package odutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/odutil/internal/config"
	"github.com/menta2k/odutil/internal/utils"
	"github.com/menta2k/odutil/pkg/analyzer"
	"github.com/menta2k/odutil/pkg/annotation"
	"github.com/menta2k/odutil/pkg/batch"
	"github.com/menta2k/odutil/pkg/dataset"
	"github.com/menta2k/odutil/pkg/labels"
	"github.com/menta2k/odutil/pkg/processing"
	"github.com/menta2k/odutil/pkg/types"
)

// Version of the odutil library
const Version = "1.0.0"

// Config is the toolkit configuration
type Config = config.Config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a JSON configuration file
func LoadConfig(path string) (*Config, error) {
	return config.LoadFromFile(path)
}

// Toolkit bundles the dataset operations around a shared worker pool
type Toolkit struct {
	config    config.Config
	parser    *annotation.VOCParser
	runner    batch.Runner
	analyzer  *analyzer.Analyzer
	processor *processing.Processor
}

// New creates a new Toolkit with default configuration
func New() *Toolkit {
	return NewWithConfig(*config.Default())
}

// NewWithConfig creates a new Toolkit with custom configuration
func NewWithConfig(cfg Config) *Toolkit {
	return &Toolkit{
		config: cfg,
		parser: annotation.NewWithConfig(annotation.Config{
			RequireDepth: cfg.Parser.RequireDepth,
		}),
		runner: batch.NewPoolWithWorkers(cfg.Batch.Workers),
		analyzer: analyzer.NewWithConfig(analyzer.Config{
			Verbose: cfg.Analysis.Verbose,
			Output:  os.Stdout,
		}),
		processor: processing.NewProcessor(),
	}
}

// SetRunner replaces the executor used by folder-wide operations
func (tk *Toolkit) SetRunner(r batch.Runner) {
	tk.runner = r
}

// SetAnalyzer replaces the distribution analyzer
func (tk *Toolkit) SetAnalyzer(a *analyzer.Analyzer) {
	tk.analyzer = a
}

// ParseAnnotation parses a single annotation file
func (tk *Toolkit) ParseAnnotation(path string) (*types.Annotation, error) {
	return tk.parser.Parse(path)
}

// ParseAnnotations parses every file in dir in parallel. The result order is
// not significant; any parse failure fails the whole call.
func (tk *Toolkit) ParseAnnotations(ctx context.Context, dir string) ([]*types.Annotation, error) {
	paths, err := utils.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	return batch.Map(ctx, tk.runner, paths, func(ctx context.Context, path string) (*types.Annotation, error) {
		return tk.parser.Parse(path)
	})
}

// CheckMatch reports whether two folders hold the same names, ignoring extensions
func (tk *Toolkit) CheckMatch(dir1, dir2 string) (bool, error) {
	return dataset.CheckMatch(dir1, dir2)
}

// NewGenerator loads a names file and returns a label generator wired to the
// toolkit configuration
func (tk *Toolkit) NewGenerator(namesPath string) (*labels.Generator, error) {
	names, err := labels.LoadNames(namesPath)
	if err != nil {
		return nil, err
	}
	gen := labels.NewWithConfig(tk.parser, names, labels.Config{
		SkipDifficult: tk.config.Labels.SkipDifficult,
		ImageDir:      tk.config.Labels.ImageDir,
	})
	gen.SetSizeResolver(tk.processor)
	return gen, nil
}

// GenerateLabel writes the YOLO label file for one annotation and returns its path
func (tk *Toolkit) GenerateLabel(annoPath, namesPath, outDir string) (string, error) {
	gen, err := tk.NewGenerator(namesPath)
	if err != nil {
		return "", err
	}
	return gen.Generate(annoPath, outDir)
}

// GenerateLabels writes a YOLO label file for every annotation in annoDir
func (tk *Toolkit) GenerateLabels(ctx context.Context, annoDir, namesPath, outDir string) error {
	gen, err := tk.NewGenerator(namesPath)
	if err != nil {
		return err
	}
	paths, err := utils.ListFiles(annoDir)
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}
	return batch.Each(ctx, tk.runner, paths, func(ctx context.Context, path string) error {
		_, err := gen.Generate(path, outDir)
		return err
	})
}

// Distribution counts boxes per class across every annotation in dir
func (tk *Toolkit) Distribution(ctx context.Context, dir string) (analyzer.Distribution, error) {
	anns, err := tk.ParseAnnotations(ctx, dir)
	if err != nil {
		return analyzer.Distribution{}, err
	}
	return tk.analyzer.Distribution(anns)
}

// PreviewFile renders the boxes of one annotation onto its image and saves the
// result in outDir
func (tk *Toolkit) PreviewFile(annoPath, imageDir, outDir string) (string, error) {
	ann, err := tk.parser.Parse(annoPath)
	if err != nil {
		return "", err
	}

	imgPath := filepath.Join(imageDir, ann.Filename)
	if ann.Filename == "" || !utils.FileExists(imgPath) {
		var ok bool
		if imgPath, ok = utils.FindImage(imageDir, utils.StemName(annoPath)); !ok {
			return "", fmt.Errorf("no image found for %s in %s", ann.AnnotationName, imageDir)
		}
	}

	img, err := tk.processor.LoadImage(imgPath)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	pc := tk.config.Preview
	out := tk.processor.Fit(tk.processor.RenderAnnotation(img, ann), pc.MaxSize)

	if err := utils.EnsureDir(outDir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := utils.GenerateOutputFilename(annoPath, outDir, "", pc.Suffix, pc.Format)
	if err := tk.processor.SaveImage(out, outPath, pc.Format, pc.Quality, pc.Lossless); err != nil {
		return "", fmt.Errorf("failed to save preview: %w", err)
	}
	return outPath, nil
}

// Preview renders an overlay for every annotation in annoDir
func (tk *Toolkit) Preview(ctx context.Context, annoDir, imageDir, outDir string) error {
	paths, err := utils.ListFiles(annoDir)
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}
	return batch.Each(ctx, tk.runner, paths, func(ctx context.Context, path string) error {
		_, err := tk.PreviewFile(path, imageDir, outDir)
		return err
	})
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
