package scoring

import (
	"strings"
	"unicode"
)

type Material string

const (
	MaterialPET       Material = "PET"
	MaterialPP        Material = "PP"
	MaterialPS        Material = "PS"
	MaterialPE        Material = "PE"
	MaterialGlass     Material = "Glass"
	MaterialMetal     Material = "Metal"
	MaterialPaper     Material = "Paper"
	MaterialComposite Material = "Composite"
	MaterialOther     Material = "Other"
)

// DefaultPackagingMaterial is stored when the packaging lookup fails.
const DefaultPackagingMaterial = "기타"

var compositeMarkers = []string{"복합", "other", "composite"}

var materialKeywords = []struct {
	material Material
	keywords []string
}{
	{MaterialPET, []string{"폴리에틸렌테레프탈레이트", "polyethyleneterephthalate", "pet", "페트"}},
	{MaterialPE, []string{"hdpe", "ldpe", "lldpe", "폴리에틸렌", "polyethylene", "pe"}},
	{MaterialPP, []string{"폴리프로필렌", "polypropylene", "pp"}},
	{MaterialPS, []string{"폴리스티렌", "polystyrene", "ps"}},
	{MaterialMetal, []string{"알루미늄", "aluminum", "aluminium", "alu", "캔류", "캔", "metal", "steel", "철"}},
	{MaterialGlass, []string{"유리", "glass"}},
	{MaterialPaper, []string{"종이", "펄프", "paper"}},
}

// NormalizeMaterial maps a free-text packaging description to one category.
// No keyword yields Other, exactly one category yields that category and
// anything more is Composite.
func NormalizeMaterial(raw string) Material {
	s := squash(raw)
	if s == "" {
		return MaterialOther
	}
	for _, marker := range compositeMarkers {
		if strings.Contains(s, marker) {
			return MaterialComposite
		}
	}

	found := make(map[Material]struct{})
	for _, entry := range materialKeywords {
		text := s
		// Short keywords such as "pe" also occur inside other categories'
		// keywords ("pet", "paper"); those occurrences are masked first.
		for _, kw := range shadowing[entry.material] {
			text = strings.ReplaceAll(text, kw, "\x00")
		}
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				found[entry.material] = struct{}{}
				break
			}
		}
	}

	switch len(found) {
	case 0:
		return MaterialOther
	case 1:
		for m := range found {
			return m
		}
	}
	return MaterialComposite
}

// shadowing lists, per category, the keywords of other categories that
// contain one of its own keywords.
var shadowing = buildShadowing()

func buildShadowing() map[Material][]string {
	out := make(map[Material][]string)
	for _, entry := range materialKeywords {
		for _, other := range materialKeywords {
			if other.material == entry.material {
				continue
			}
			for _, long := range other.keywords {
				for _, short := range entry.keywords {
					if strings.Contains(long, short) {
						out[entry.material] = append(out[entry.material], long)
						break
					}
				}
			}
		}
	}
	return out
}

func squash(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, raw)
}
