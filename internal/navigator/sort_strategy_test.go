package navigator

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"
)

// Test data for sorting strategies
func getTestImagePaths() []ImagePath {
	return []ImagePath{
		{Path: "test/01.png"},
		{Path: "test/04.png"},
		{Path: "test/08.png"},
		{Path: "test/09.png"},
		{Path: "test/2.png"},
		{Path: "test/３.png"},
	}
}

func pathsToStrings(paths []ImagePath) []string {
	result := make([]string, len(paths))
	for i, p := range paths {
		result[i] = p.Path
	}
	return result
}

func TestNaturalSortStrategy(t *testing.T) {
	strategy := &NaturalSortStrategy{}

	if strategy.Name() != "Natural" {
		t.Errorf("Expected 'Natural', got '%s'", strategy.Name())
	}

	expected := []string{"test/01.png", "test/2.png", "test/04.png", "test/08.png", "test/09.png", "test/３.png"}
	got := pathsToStrings(Sort(strategy, getTestImagePaths()))
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Natural sort failed\nExpected: %v\nGot:      %v", expected, got)
	}
}

func TestSimpleSortStrategy(t *testing.T) {
	strategy := &SimpleSortStrategy{}

	if strategy.Name() != "Simple" {
		t.Errorf("Expected 'Simple', got '%s'", strategy.Name())
	}

	expected := []string{"test/01.png", "test/04.png", "test/08.png", "test/09.png", "test/2.png", "test/３.png"}
	got := pathsToStrings(Sort(strategy, getTestImagePaths()))
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Simple sort failed\nExpected: %v\nGot:      %v", expected, got)
	}
}

func TestLocaleSortStrategy(t *testing.T) {
	strategy := NewLocaleSort(language.English)

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "numeric runs by value",
			input: []string{"d/img10.png", "d/img2.png", "d/img1.png"},
			want:  []string{"d/img1.png", "d/img2.png", "d/img10.png"},
		},
		{
			name:  "case folded",
			input: []string{"d/b.png", "d/C.png", "d/a.png"},
			want:  []string{"d/a.png", "d/b.png", "d/C.png"},
		},
		{
			name:  "collation equal names stay ordered",
			input: []string{"d/a.png", "d/A.png"},
			want:  []string{"d/A.png", "d/a.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := make([]ImagePath, len(tt.input))
			for i, s := range tt.input {
				input[i] = FilePath(s)
			}
			got := pathsToStrings(Sort(strategy, input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	input := getTestImagePaths()
	original := make([]ImagePath, len(input))
	copy(original, input)

	_ = Sort(&NaturalSortStrategy{}, input)

	if !reflect.DeepEqual(input, original) {
		t.Error("Input slice was modified - should be immutable")
	}
}

func TestGetSortStrategy(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"natural", "Natural"},
		{"simple", "Simple"},
	}
	for _, tt := range tests {
		if got := GetSortStrategy(tt.method).Name(); got != tt.want {
			t.Errorf("GetSortStrategy(%q).Name() = %q, want %q", tt.method, got, tt.want)
		}
	}
	if _, ok := GetSortStrategy("locale").(*LocaleSortStrategy); !ok {
		t.Error("locale method should return a LocaleSortStrategy")
	}
}

func TestDetectLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_COLLATE", "")
	t.Setenv("LANG", "ja_JP.UTF-8")

	if got := DetectLocale(); got != language.MustParse("ja-JP") {
		t.Errorf("DetectLocale() = %v, want ja-JP", got)
	}

	t.Setenv("LANG", "C")
	if got := DetectLocale(); got != language.Und {
		t.Errorf("DetectLocale() = %v, want und", got)
	}
}
