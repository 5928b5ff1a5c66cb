package types

// Size holds the image dimensions declared by an annotation
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// BoundingBox is one labeled object in pixel coordinates, origin top-left
type BoundingBox struct {
	Name      string `json:"name"`
	XMin      int    `json:"xmin"`
	YMin      int    `json:"ymin"`
	XMax      int    `json:"xmax"`
	YMax      int    `json:"ymax"`
	Difficult bool   `json:"difficult,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Annotation is the parsed content of one Pascal VOC XML file
type Annotation struct {
	AnnotationName string        `json:"annotation_name"`
	Filename       string        `json:"filename"`
	Size           Size          `json:"size"`
	Objects        []BoundingBox `json:"object"`
}

// Box represents a normalized bounding box in center format, values in [0,1]
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Label is a single YOLO label line
type Label struct {
	Index int `json:"index"`
	Box   Box `json:"box"`
}
