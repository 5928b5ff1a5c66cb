// Package dataset checks that image and annotation folders correspond.
package dataset

import (
	"fmt"
	"sort"

	"github.com/menta2k/odutil/internal/utils"
)

// Comparison describes how two folders differ
type Comparison struct {
	Count1 int
	Count2 int
	// Only1 and Only2 hold stripped names found in one folder only
	Only1 []string
	Only2 []string
	// Duplicates1 and Duplicates2 hold stripped names shared by several entries
	Duplicates1 []string
	Duplicates2 []string
}

// Match reports whether the folders hold the same number of entries and the
// same set of stripped names
func (c *Comparison) Match() bool {
	return c.Count1 == c.Count2 && len(c.Only1) == 0 && len(c.Only2) == 0
}

// CheckMatch reports whether dir1 and dir2 hold the same number of entries and
// the same set of entry names once extensions are stripped
func CheckMatch(dir1, dir2 string) (bool, error) {
	c, err := Compare(dir1, dir2)
	if err != nil {
		return false, err
	}
	return c.Match(), nil
}

// Compare lists both folders and collects every difference between them
func Compare(dir1, dir2 string) (*Comparison, error) {
	names1, err := utils.ListEntryNames(dir1)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir1, err)
	}
	names2, err := utils.ListEntryNames(dir2)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir2, err)
	}

	set1, dup1 := stems(names1)
	set2, dup2 := stems(names2)
	only1, only2 := difference(set1, set2)
	return &Comparison{
		Count1:      len(names1),
		Count2:      len(names2),
		Only1:       only1,
		Only2:       only2,
		Duplicates1: dup1,
		Duplicates2: dup2,
	}, nil
}

// Mismatch returns the stripped names present only in dir1 and only in dir2, sorted
func Mismatch(dir1, dir2 string) (only1, only2 []string, err error) {
	c, err := Compare(dir1, dir2)
	if err != nil {
		return nil, nil, err
	}
	return c.Only1, c.Only2, nil
}

func stems(names []string) (map[string]struct{}, []string) {
	set := make(map[string]struct{}, len(names))
	seen := make(map[string]int, len(names))
	var dups []string
	for _, name := range names {
		stem := utils.StemName(name)
		set[stem] = struct{}{}
		seen[stem]++
		if seen[stem] == 2 {
			dups = append(dups, stem)
		}
	}
	sort.Strings(dups)
	return set, dups
}

func difference(a, b map[string]struct{}) (onlyA, onlyB []string) {
	for name := range a {
		if _, ok := b[name]; !ok {
			onlyA = append(onlyA, name)
		}
	}
	for name := range b {
		if _, ok := a[name]; !ok {
			onlyB = append(onlyB, name)
		}
	}
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return onlyA, onlyB
}
