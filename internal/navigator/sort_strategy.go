package navigator

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortStrategy defines the interface for different sorting strategies
type SortStrategy interface {
	// Less is the comparator every listing of this strategy is ordered by.
	Less(a, b string) bool
	// Name returns the human-readable name of the strategy
	Name() string
}

// Sort returns a sorted copy of images without modifying the original.
func Sort(strategy SortStrategy, images []ImagePath) []ImagePath {
	result := make([]ImagePath, len(images))
	copy(result, images)
	sort.SliceStable(result, func(i, j int) bool {
		return strategy.Less(result[i].Path, result[j].Path)
	})
	return result
}

// LocaleSortStrategy orders names with the collation rules of a language,
// comparing digit runs by numeric value.
type LocaleSortStrategy struct {
	mu       sync.Mutex
	tag      language.Tag
	collator *collate.Collator
}

// NewLocaleSort returns a locale-aware natural comparator for tag.
func NewLocaleSort(tag language.Tag) *LocaleSortStrategy {
	return &LocaleSortStrategy{
		tag:      tag,
		collator: collate.New(tag, collate.Numeric, collate.IgnoreCase),
	}
}

func (s *LocaleSortStrategy) Less(a, b string) bool {
	s.mu.Lock()
	c := s.collator.CompareString(a, b)
	s.mu.Unlock()
	if c != 0 {
		return c < 0
	}
	// Collation equal (case or width only differs): keep the order total.
	if natural.Less(a, b) {
		return true
	}
	if natural.Less(b, a) {
		return false
	}
	return a < b
}

func (s *LocaleSortStrategy) Name() string {
	return "Locale (" + s.tag.String() + ")"
}

// NaturalSortStrategy implements natural sorting using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Less(a, b string) bool {
	if natural.Less(a, b) {
		return true
	}
	if natural.Less(b, a) {
		return false
	}
	return a < b
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Less(a, b string) bool {
	return a < b
}

func (s *SimpleSortStrategy) Name() string {
	return "Simple"
}

// GetSortStrategy returns the strategy for a config sort method name.
func GetSortStrategy(method string) SortStrategy {
	switch method {
	case "natural":
		return &NaturalSortStrategy{}
	case "simple":
		return &SimpleSortStrategy{}
	default:
		return NewLocaleSort(DetectLocale())
	}
}

// DetectLocale derives the user's language from the POSIX locale variables.
func DetectLocale() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
		if err == nil {
			return tag
		}
	}
	return language.Und
}
