package scoring

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var (
	parenthetical  = regexp.MustCompile(`\(.*?\)`)
	nonNameSymbols = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
)

type vocabulary map[string]struct{}

// AdditiveDetector matches comma separated ingredient lists against a set
// of known additive names. Lookups are lock free; Reload swaps the set.
type AdditiveDetector struct {
	names atomic.Pointer[vocabulary]
}

func NewAdditiveDetector(names []string) *AdditiveDetector {
	d := &AdditiveDetector{}
	d.Reload(names)
	return d
}

// Reload replaces the vocabulary and returns the number of distinct names.
func (d *AdditiveDetector) Reload(names []string) int {
	v := make(vocabulary, len(names))
	for _, name := range names {
		if n := NormalizeAdditiveName(name); n != "" {
			v[n] = struct{}{}
		}
	}
	d.names.Store(&v)
	return len(v)
}

func (d *AdditiveDetector) Size() int {
	return len(*d.names.Load())
}

// DetectCount returns how many distinct known additives appear in text and
// their names in first-seen order.
func (d *AdditiveDetector) DetectCount(text string) (int, []string) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	v := *d.names.Load()

	var matched []string
	seen := make(map[string]struct{})
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(parenthetical.ReplaceAllString(token, ""))
		if token == "" {
			continue
		}
		if _, ok := v[token]; !ok {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		matched = append(matched, token)
	}
	return len(matched), matched
}

// NormalizeAdditiveName strips parenthetical qualifiers and punctuation
// other than hyphens from a vocabulary entry.
func NormalizeAdditiveName(name string) string {
	name = parenthetical.ReplaceAllString(name, "")
	name = nonNameSymbols.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
