// Package analyzer computes class distribution statistics for annotation sets.
package analyzer

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/menta2k/odutil/pkg/types"
)

// Analyzer aggregates class statistics over parsed annotations
type Analyzer struct {
	config Config
}

// Config holds configuration for the analyzer
type Config struct {
	// Verbose writes a report to Output after each analysis
	Verbose bool
	Output  io.Writer
}

// New creates a new Analyzer with default configuration
func New() *Analyzer {
	return &Analyzer{
		config: Config{
			Verbose: false,
			Output:  os.Stdout,
		},
	}
}

// NewWithConfig creates a new Analyzer with custom configuration
func NewWithConfig(config Config) *Analyzer {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Analyzer{config: config}
}

// Distribution holds the number of boxes per class name
type Distribution struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Distribution counts every bounding box of every annotation by class name
func (a *Analyzer) Distribution(anns []*types.Annotation) (Distribution, error) {
	d := Distribution{Counts: map[string]int{}}
	for _, ann := range anns {
		if ann == nil {
			continue
		}
		for _, obj := range ann.Objects {
			d.Counts[obj.Name]++
			d.Total++
		}
	}

	if a.config.Verbose {
		if err := d.Report(a.config.Output); err != nil {
			return d, fmt.Errorf("failed to write report: %w", err)
		}
	}
	return d, nil
}

// Classes returns the class names sorted alphabetically
func (d Distribution) Classes() []string {
	classes := make([]string, 0, len(d.Counts))
	for name := range d.Counts {
		classes = append(classes, name)
	}
	sort.Strings(classes)
	return classes
}

// Share returns the percentage of all boxes that belong to class name
func (d Distribution) Share(name string) float64 {
	if d.Total == 0 {
		return 0
	}
	return 100 * float64(d.Counts[name]) / float64(d.Total)
}

// Report writes the total followed by one "<name>: <count>(<pct>%)" line per class
func (d Distribution) Report(w io.Writer) error {
	totalShare := 0.0
	if d.Total > 0 {
		totalShare = 100
	}
	if _, err := fmt.Fprintf(w, "N: %d(%.4f%%)\n", d.Total, totalShare); err != nil {
		return err
	}
	for _, name := range d.Classes() {
		if _, err := fmt.Fprintf(w, "%s: %d(%.4f%%)\n", name, d.Counts[name], d.Share(name)); err != nil {
			return err
		}
	}
	return nil
}
