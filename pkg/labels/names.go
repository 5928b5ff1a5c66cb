package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// NameMap maps a class name to its zero-based label index
type NameMap map[string]int

// ParseNames builds a NameMap from a newline-delimited names list.
// The index of a name is its line number starting at 0; a name listed
// twice keeps the index of its last line.
func ParseNames(r io.Reader) (NameMap, error) {
	names := NameMap{}
	scanner := bufio.NewScanner(r)
	for index := 0; scanner.Scan(); index++ {
		names[strings.TrimSuffix(scanner.Text(), "\r")] = index
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names: %w", err)
	}
	return names, nil
}

// LoadNames reads a .names file
func LoadNames(path string) (NameMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer f.Close()

	return ParseNames(f)
}

// Lookup returns the label index for a class name
func (m NameMap) Lookup(name string) (int, bool) {
	index, ok := m[name]
	return index, ok
}

// Classes returns the class names ordered by label index
func (m NameMap) Classes() []string {
	size := 0
	for _, index := range m {
		if index+1 > size {
			size = index + 1
		}
	}
	classes := make([]string, size)
	for name, index := range m {
		classes[index] = name
	}
	return classes
}
