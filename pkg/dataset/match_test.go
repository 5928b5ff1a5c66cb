package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// makeDir creates a directory holding empty files with the given names
func makeDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return dir
}

func TestCheckMatch(t *testing.T) {
	tests := []struct {
		name  string
		dir1  []string
		dir2  []string
		match bool
	}{
		{"same stems", []string{"1.xml", "2.xml"}, []string{"1.jpg", "2.jpg"}, true},
		{"same count different names", []string{"1.xml", "2.xml"}, []string{"1.jpg", "3.jpg"}, false},
		{"extra file", []string{"1.xml", "2.xml"}, []string{"1.jpg", "2.jpg", "3.jpg"}, false},
		{"missing file", []string{"1.xml", "2.xml"}, []string{"1.jpg"}, false},
		{"duplicate stem", []string{"1.xml", "2.xml"}, []string{"1.jpg", "1.png"}, false},
		{"duplicate stem reversed", []string{"1.jpg", "1.png"}, []string{"1.xml", "2.xml"}, false},
		{"both empty", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckMatch(makeDir(t, tt.dir1...), makeDir(t, tt.dir2...))
			if err != nil {
				t.Fatalf("CheckMatch failed: %v", err)
			}
			if got != tt.match {
				t.Errorf("Expected %v, got %v", tt.match, got)
			}
		})
	}
}

func TestCheckMatchSymmetric(t *testing.T) {
	a := makeDir(t, "1.xml", "2.xml", "4.xml")
	b := makeDir(t, "1.jpg", "2.jpg", "3.jpg")

	ab, err := CheckMatch(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := CheckMatch(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if ab || ba {
		t.Errorf("Expected no match in either direction, got %v and %v", ab, ba)
	}
}

func TestCheckMatchMissingDir(t *testing.T) {
	if _, err := CheckMatch(filepath.Join(t.TempDir(), "nope"), t.TempDir()); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestMismatch(t *testing.T) {
	only1, only2, err := Mismatch(makeDir(t, "1.xml", "2.xml", "5.xml"), makeDir(t, "1.jpg", "3.jpg", "4.png"))
	if err != nil {
		t.Fatalf("Mismatch failed: %v", err)
	}
	if !reflect.DeepEqual(only1, []string{"2", "5"}) {
		t.Errorf("Unexpected only1 %v", only1)
	}
	if !reflect.DeepEqual(only2, []string{"3", "4"}) {
		t.Errorf("Unexpected only2 %v", only2)
	}
}

func TestCompareDuplicateStems(t *testing.T) {
	// Same stem sets, counts differ only because of a duplicated stem.
	c, err := Compare(makeDir(t, "1.xml", "2.xml"), makeDir(t, "1.jpg", "1.png", "2.jpg"))
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if c.Match() {
		t.Error("Expected folders not to match")
	}
	if c.Count1 != 2 || c.Count2 != 3 {
		t.Errorf("Expected counts 2 and 3, got %d and %d", c.Count1, c.Count2)
	}
	if len(c.Only1) != 0 || len(c.Only2) != 0 {
		t.Errorf("Expected no one-sided names, got %v and %v", c.Only1, c.Only2)
	}
	if len(c.Duplicates1) != 0 {
		t.Errorf("Expected no duplicates in first folder, got %v", c.Duplicates1)
	}
	if !reflect.DeepEqual(c.Duplicates2, []string{"1"}) {
		t.Errorf("Expected duplicates [1], got %v", c.Duplicates2)
	}
}

func TestCompareMatching(t *testing.T) {
	c, err := Compare(makeDir(t, "a.xml", "b.xml"), makeDir(t, "a.jpg", "b.webp"))
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !c.Match() {
		t.Errorf("Expected match, got %+v", c)
	}
}
