package triage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the secondary term lists used next to the taxonomy.
type Vocabulary struct {
	// EmergencyTerms widen the classifier in relaxed mode.
	EmergencyTerms []string `yaml:"emergency_terms"`
	// OtherCities drive the relaxed-mode disambiguation in the scope filter.
	OtherCities []string `yaml:"other_cities"`
	// NearbyTerms earn the near_me proximity bonus.
	NearbyTerms []string `yaml:"nearby_terms"`
	// GlobalTerms earn the global-scope bonus.
	GlobalTerms []string `yaml:"global_terms"`
}

// DefaultVocabulary returns the reference term lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		EmergencyTerms: []string{
			"emergency", "incident", "accident", "disaster", "crisis",
			"alert", "warning", "danger", "hazard", "evacuate", "rescue",
		},
		OtherCities: []string{
			"new york", "london", "paris", "tokyo", "delhi", "mumbai", "beijing",
			"los angeles", "chicago", "houston", "sydney", "toronto",
		},
		NearbyTerms: []string{"near", "vicinity", "area", "region"},
		GlobalTerms: []string{"global", "international", "worldwide"},
	}
}

func (v Vocabulary) normalized() Vocabulary {
	return Vocabulary{
		EmergencyTerms: normalizeTerms(v.EmergencyTerms),
		OtherCities:    normalizeTerms(v.OtherCities),
		NearbyTerms:    normalizeTerms(v.NearbyTerms),
		GlobalTerms:    normalizeTerms(v.GlobalTerms),
	}
}

// Rules bundles the taxonomy with its vocabularies.
type Rules struct {
	Taxonomy   *Taxonomy
	Vocabulary Vocabulary
}

// DefaultRules returns the built-in taxonomy and vocabularies.
func DefaultRules() Rules {
	return Rules{
		Taxonomy:   DefaultTaxonomy(),
		Vocabulary: DefaultVocabulary().normalized(),
	}
}

type rulesFile struct {
	Categories []Category `yaml:"categories"`
	Vocabulary `yaml:",inline"`
}

// LoadRules reads a YAML rules file. Sections left out of the file keep their defaults, so a
// file may override only the city list or only the categories.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules on top of the defaults.
func ParseRules(data []byte) (Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}

	rules := DefaultRules()

	if len(f.Categories) > 0 {
		t, err := NewTaxonomy(f.Categories)
		if err != nil {
			return Rules{}, fmt.Errorf("building taxonomy: %w", err)
		}
		rules.Taxonomy = t
	}

	v := f.Vocabulary.normalized()
	if len(v.EmergencyTerms) > 0 {
		rules.Vocabulary.EmergencyTerms = v.EmergencyTerms
	}
	if len(v.OtherCities) > 0 {
		rules.Vocabulary.OtherCities = v.OtherCities
	}
	if len(v.NearbyTerms) > 0 {
		rules.Vocabulary.NearbyTerms = v.NearbyTerms
	}
	if len(v.GlobalTerms) > 0 {
		rules.Vocabulary.GlobalTerms = v.GlobalTerms
	}

	return rules, nil
}
