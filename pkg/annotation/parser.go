// Package annotation parses Pascal VOC XML annotation files into typed records.
package annotation

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/menta2k/odutil/pkg/types"
)

var (
	// ErrMissingFile is returned when the annotation path does not exist
	ErrMissingFile = errors.New("annotation file not found")
	// ErrMalformed is returned for XML that is not well-formed or lacks required elements
	ErrMalformed = errors.New("malformed annotation")
	// ErrNumeric is returned when a size or coordinate value is not a number
	ErrNumeric = errors.New("invalid numeric value")
)

// Parser turns one annotation file into an Annotation
type Parser interface {
	Parse(path string) (*types.Annotation, error)
}

// Config holds configuration for the VOC parser
type Config struct {
	// RequireDepth rejects annotations whose size has no depth element
	RequireDepth bool
}

// VOCParser reads Pascal VOC XML annotations
type VOCParser struct {
	config Config
}

// New creates a new VOCParser with default configuration
func New() *VOCParser {
	return &VOCParser{}
}

// NewWithConfig creates a new VOCParser with custom configuration
func NewWithConfig(config Config) *VOCParser {
	return &VOCParser{config: config}
}

// Raw document shape. Pointers distinguish absent elements from empty ones.
type rawAnnotation struct {
	Filename *string     `xml:"filename"`
	Size     *rawSize    `xml:"size"`
	Objects  []rawObject `xml:"object"`
}

type rawSize struct {
	Width  *string `xml:"width"`
	Height *string `xml:"height"`
	Depth  *string `xml:"depth"`
}

type rawObject struct {
	Name      *string    `xml:"name"`
	BndBox    *rawBndBox `xml:"bndbox"`
	Difficult *string    `xml:"difficult"`
	Truncated *string    `xml:"truncated"`
}

type rawBndBox struct {
	XMin *string `xml:"xmin"`
	YMin *string `xml:"ymin"`
	XMax *string `xml:"xmax"`
	YMax *string `xml:"ymax"`
}

// Parse reads and parses the annotation file at path
func (p *VOCParser) Parse(path string) (*types.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrMissingFile, path, err)
		}
		return nil, fmt.Errorf("failed to open annotation: %w", err)
	}
	defer f.Close()

	return p.ParseReader(filepath.Base(path), f)
}

// ParseReader parses an annotation document from r; name becomes AnnotationName
func (p *VOCParser) ParseReader(name string, r io.Reader) (*types.Annotation, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var raw rawAnnotation
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	if err := checkTrailing(dec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	if raw.Filename == nil {
		return nil, fmt.Errorf("%w: %s: missing filename", ErrMalformed, name)
	}
	if raw.Size == nil {
		return nil, fmt.Errorf("%w: %s: missing size", ErrMalformed, name)
	}

	ann := &types.Annotation{
		AnnotationName: name,
		Filename:       *raw.Filename,
		Objects:        make([]types.BoundingBox, 0, len(raw.Objects)),
	}

	size, err := p.convertSize(raw.Size)
	if err != nil {
		return nil, fmt.Errorf("%s: size: %w", name, err)
	}
	ann.Size = size

	for i, obj := range raw.Objects {
		box, err := convertObject(obj)
		if err != nil {
			return nil, fmt.Errorf("%s: object %d: %w", name, i, err)
		}
		ann.Objects = append(ann.Objects, box)
	}

	return ann, nil
}

// checkTrailing consumes the rest of the document. Only whitespace, comments
// and processing instructions may follow the root element.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("element <%s> after document element", t.Name.Local)
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return errors.New("junk after document element")
			}
		}
	}
}

func (p *VOCParser) convertSize(s *rawSize) (types.Size, error) {
	var size types.Size
	var err error

	if size.Width, err = requireInt("width", s.Width); err != nil {
		return size, err
	}
	if size.Height, err = requireInt("height", s.Height); err != nil {
		return size, err
	}
	if s.Depth == nil {
		if p.config.RequireDepth {
			return size, fmt.Errorf("%w: missing depth", ErrMalformed)
		}
		return size, nil
	}
	if size.Depth, err = ParseInt(*s.Depth); err != nil {
		return size, fmt.Errorf("depth: %w", err)
	}
	return size, nil
}

func convertObject(obj rawObject) (types.BoundingBox, error) {
	var box types.BoundingBox
	var err error

	if obj.Name == nil {
		return box, fmt.Errorf("%w: missing name", ErrMalformed)
	}
	box.Name = *obj.Name

	if obj.BndBox == nil {
		return box, fmt.Errorf("%w: %s: missing bndbox", ErrMalformed, box.Name)
	}
	b := obj.BndBox
	if box.XMin, err = requireInt("xmin", b.XMin); err != nil {
		return box, err
	}
	if box.YMin, err = requireInt("ymin", b.YMin); err != nil {
		return box, err
	}
	if box.XMax, err = requireInt("xmax", b.XMax); err != nil {
		return box, err
	}
	if box.YMax, err = requireInt("ymax", b.YMax); err != nil {
		return box, err
	}

	if box.Difficult, err = optionalFlag("difficult", obj.Difficult); err != nil {
		return box, err
	}
	if box.Truncated, err = optionalFlag("truncated", obj.Truncated); err != nil {
		return box, err
	}
	return box, nil
}

func requireInt(field string, text *string) (int, error) {
	if text == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformed, field)
	}
	v, err := ParseInt(*text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func optionalFlag(field string, text *string) (bool, error) {
	if text == nil {
		return false, nil
	}
	v, err := ParseInt(*text)
	if err != nil {
		return false, fmt.Errorf("%s: %w", field, err)
	}
	return v != 0, nil
}

// ParseInt converts numeric text to an int by parsing it as a float and
// truncating toward zero, so "1621.0" and "904.7" yield 1621 and 904
func ParseInt(text string) (int, error) {
	s := strings.TrimSpace(text)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumeric, text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q out of range", ErrNumeric, text)
	}
	return int(math.Trunc(f)), nil
}
