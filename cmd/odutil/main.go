package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/menta2k/odutil"
	"github.com/menta2k/odutil/internal/config"
	"github.com/menta2k/odutil/pkg/dataset"
)

func main() {
	var mode, annos, images, names, out, cfgPath string
	var workers int
	var verbose, skipDifficult bool

	flag.StringVar(&mode, "mode", "", "operation: parse|labels|match|dist|preview")
	flag.StringVar(&annos, "annos", "", "annotation directory (or file for -mode parse)")
	flag.StringVar(&images, "images", "", "image directory")
	flag.StringVar(&names, "names", "", "class names file, one name per line")
	flag.StringVar(&out, "out", "out", "output directory")
	flag.StringVar(&cfgPath, "config", "", "JSON config file")
	flag.IntVar(&workers, "workers", -1, "worker pool size, 0 = number of CPUs (overrides config)")
	flag.BoolVar(&verbose, "verbose", false, "print the class distribution report")
	flag.BoolVar(&skipDifficult, "skip-difficult", false, "drop boxes flagged difficult when writing labels")

	flag.Parse()
	if mode == "" || annos == "" {
		log.Fatalf("usage: %s -mode parse|labels|match|dist|preview -annos dir [-images dir] [-names file] [-out dir] [-config file]", filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if workers >= 0 {
		cfg.Batch.Workers = workers
	}
	if verbose {
		cfg.Analysis.Verbose = true
	}
	if skipDifficult {
		cfg.Labels.SkipDifficult = true
	}
	if images != "" && cfg.Labels.ImageDir == "" {
		cfg.Labels.ImageDir = images
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	tk := odutil.NewWithConfig(*cfg)
	ctx := context.Background()

	switch mode {
	case "parse":
		info, err := os.Stat(annos)
		if err != nil {
			log.Fatal(err)
		}
		var result interface{}
		if info.IsDir() {
			result, err = tk.ParseAnnotations(ctx, annos)
		} else {
			result, err = tk.ParseAnnotation(annos)
		}
		if err != nil {
			log.Fatal(err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal(err)
		}

	case "labels":
		if names == "" {
			log.Fatal("-names is required for -mode labels")
		}
		if err := tk.GenerateLabels(ctx, annos, names, out); err != nil {
			log.Fatalf("label generation failed: %v", err)
		}
		log.Printf("wrote labels to %s", out)

	case "match":
		if images == "" {
			log.Fatal("-images is required for -mode match")
		}
		ok, err := tk.CheckMatch(images, annos)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			c, err := dataset.Compare(images, annos)
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("%s: %d entries, %s: %d entries", images, c.Count1, annos, c.Count2)
			log.Printf("only in %s: %v", images, c.Only1)
			log.Printf("only in %s: %v", annos, c.Only2)
			if len(c.Duplicates1) > 0 {
				log.Printf("duplicated names in %s: %v", images, c.Duplicates1)
			}
			if len(c.Duplicates2) > 0 {
				log.Printf("duplicated names in %s: %v", annos, c.Duplicates2)
			}
			log.Fatal("folders do not match")
		}
		log.Print("folders match")

	case "dist":
		d, err := tk.Distribution(ctx, annos)
		if err != nil {
			log.Fatal(err)
		}
		if !cfg.Analysis.Verbose {
			log.Printf("%d objects in %d classes", d.Total, len(d.Counts))
		}

	case "preview":
		if images == "" {
			log.Fatal("-images is required for -mode preview")
		}
		if err := tk.Preview(ctx, annos, images, out); err != nil {
			log.Fatalf("preview failed: %v", err)
		}
		log.Printf("wrote previews to %s", out)

	default:
		log.Fatalf("unknown mode: %s (use parse, labels, match, dist or preview)", mode)
	}
}
