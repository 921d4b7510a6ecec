package parser

import (
	"regexp"
	"sort"
	"strings"

	"attbot/models"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Vocabulary maps field labels to response categories. The upstream embed
// format is undocumented and changes without notice, so the whole mapping is
// data: new label variants or entirely new categories are added here (or via
// config) without touching the reconciler, store or aggregator.
type Vocabulary struct {
	keywords map[models.Category][]string
}

// DefaultVocabulary covers the label spellings we have seen the event bot
// use so far.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{keywords: map[models.Category][]string{
		models.CategoryAccepted:  {"accepted", "attending", "going", "yes"},
		models.CategoryDeclined:  {"declined", "not attending", "absent", "no", "x"},
		models.CategoryTentative: {"tentative", "maybe"},
	}}
}

// LoadVocabulary builds a vocabulary from the "parser.vocabulary" config
// section, falling back to the defaults when the section is absent or empty.
func LoadVocabulary() (*Vocabulary, error) {
	raw := viper.Get("parser.vocabulary")
	if raw == nil {
		return DefaultVocabulary(), nil
	}

	var cfg models.VocabularyConfig
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, err
	}
	if len(cfg) == 0 {
		return DefaultVocabulary(), nil
	}

	v := &Vocabulary{keywords: make(map[models.Category][]string, len(cfg))}
	for name, words := range cfg {
		cat := models.Category(strings.ToLower(strings.TrimSpace(name)))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				v.keywords[cat] = append(v.keywords[cat], w)
			}
		}
	}
	return v, nil
}

// labelJunk matches everything that is not a letter, digit or space, which
// strips the emoji and punctuation the event bot decorates its labels with.
var labelJunk = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeLabel(label string) string {
	label = strings.ToLower(label)
	label = labelJunk.ReplaceAllString(label, " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(label, " "))
}

// Match classifies a field label. Single-word keywords must match a whole
// word of the label (a bare "x" must not fire on "example"); multi-word
// keywords match as substrings of the normalized label. Among all keywords
// that hit, the one with the most words wins regardless of category, so
// "not attending" beats "attending" on a "Not Attending" label. Ties fall
// back to the fixed category order.
func (v *Vocabulary) Match(label string) (models.Category, bool) {
	norm := normalizeLabel(label)
	if norm == "" {
		return "", false
	}
	words := strings.Fields(norm)

	var (
		best     models.Category
		bestSize int
	)
	for _, cat := range v.categories() {
		for _, kw := range v.keywords[cat] {
			if !keywordHits(kw, norm, words) {
				continue
			}
			if size := 1 + strings.Count(kw, " "); size > bestSize {
				best, bestSize = cat, size
			}
		}
	}
	return best, bestSize > 0
}

func keywordHits(kw, norm string, words []string) bool {
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(norm, kw)
	}
	for _, w := range words {
		if w == kw {
			return true
		}
	}
	return false
}

// categories returns the known categories in a fixed order so that matching
// is deterministic when keyword lists overlap.
func (v *Vocabulary) categories() []models.Category {
	fixed := []models.Category{models.CategoryAccepted, models.CategoryDeclined, models.CategoryTentative}
	seen := map[models.Category]bool{}
	out := make([]models.Category, 0, len(v.keywords))
	for _, c := range fixed {
		if _, ok := v.keywords[c]; ok {
			out = append(out, c)
			seen[c] = true
		}
	}
	// Extra (config-defined) categories sort after the built-in ones.
	extra := make([]string, 0)
	for c := range v.keywords {
		if !seen[c] {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		out = append(out, models.Category(c))
	}
	return out
}
