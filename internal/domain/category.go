package domain

import (
	"encoding/json"
	"strings"
)

// Category is the closed set of event categories exposed to users.
type Category string

const (
	CategoryMusic         Category = "MUSIC"
	CategorySports        Category = "SPORTS"
	CategoryArtsTheatre   Category = "ARTS_THEATRE"
	CategoryFilm          Category = "FILM"
	CategoryMiscellaneous Category = "MISCELLANEOUS"
)

// Categories lists every category in classification priority order.
var Categories = []Category{
	CategoryMusic,
	CategorySports,
	CategoryArtsTheatre,
	CategoryFilm,
	CategoryMiscellaneous,
}

var displayNames = map[Category]string{
	CategoryMusic:         "Music",
	CategorySports:        "Sports",
	CategoryArtsTheatre:   "Arts & Theatre",
	CategoryFilm:          "Film",
	CategoryMiscellaneous: "Miscellaneous",
}

// classificationRules are checked in order; the first rule with a matching
// keyword wins.
var classificationRules = []struct {
	category Category
	keywords []string
}{
	{CategoryMusic, []string{"music", "concert"}},
	{CategorySports, []string{"sports", "basketball", "football", "hockey", "soccer", "baseball"}},
	{CategoryArtsTheatre, []string{"arts", "theatre", "theater", "dance", "opera", "ballet"}},
	{CategoryFilm, []string{"film", "movie", "cinema"}},
}

// DisplayName returns the human-readable name, e.g. "Arts & Theatre".
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

func (c Category) String() string { return string(c) }

// Classify maps free-form provider text to a Category using case-insensitive
// substring matching. Text that matches nothing, including the empty string,
// is MISCELLANEOUS.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	if lower == "" {
		return CategoryMiscellaneous
	}
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryMiscellaneous
}

// ParseCategory resolves user input by enum name ("ARTS_THEATRE") or display
// name ("Arts & Theatre"), ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.DisplayName()) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Message: "unknown category " + `"` + s + `"`}
}

// UnmarshalJSON accepts enum names and display names. Unknown values decode
// to MISCELLANEOUS so older saved lists keep loading.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		*c = CategoryMiscellaneous
		return nil
	}
	*c = parsed
	return nil
}
