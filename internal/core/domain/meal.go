package domain

import (
	"strings"
)

// IngredientSlots is the number of ingredient/measure columns a catalogue
// record carries (strIngredient1..20, strMeasure1..20).
const IngredientSlots = 20

// RandomMealAlias is the reserved cache key that points at the most recent
// random meal. Random meals have no stable identity of their own, so the
// offline fallback resolves this alias instead.
const RandomMealAlias = "random"

// Meal is a full recipe record from the catalogue.
type Meal struct {
	// ID is the stable identifier assigned by the catalogue.
	ID string `json:"id"`

	// Name is the meal title.
	Name string `json:"name"`

	// Category is the catalogue category (e.g. "Seafood").
	Category string `json:"category,omitempty"`

	// Area is the region of origin (e.g. "Italian").
	Area string `json:"area,omitempty"`

	// Instructions is the free-text method.
	Instructions string `json:"instructions,omitempty"`

	// Thumbnail is the image URL.
	Thumbnail string `json:"thumbnail,omitempty"`

	// Tags are the catalogue tags, trimmed, blanks removed.
	Tags []string `json:"tags,omitempty"`

	// YouTube is an optional external video link.
	YouTube string `json:"youtube,omitempty"`

	// Ingredients holds "<ingredient> - <measure>" entries in catalogue order.
	Ingredients []string `json:"ingredients,omitempty"`

	// Bookmarked is derived from the bookmark table. It is never stored
	// with the cached meal itself.
	Bookmarked bool `json:"bookmarked"`
}

// HasVideo reports whether the meal links to a video.
func (m *Meal) HasVideo() bool {
	return strings.TrimSpace(m.YouTube) != ""
}

// MealSummary is the lightweight record used by category listings.
type MealSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Category is a catalogue category.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
}

// HomeFeed is what the landing screen shows: every category plus one
// random meal. RandomMeal is nil when neither the network nor the cache
// could supply one.
type HomeFeed struct {
	Categories []Category `json:"categories"`
	RandomMeal *Meal      `json:"random_meal,omitempty"`
}

// PairIngredients zips ingredient names with their measures.
//
// Blank ingredients and blank measures are filtered independently and the
// remaining values are then paired by position, so an ingredient without a
// measure shifts later measures up. Unpaired trailing values are dropped.
func PairIngredients(ingredients, measures []string) []string {
	ings := nonBlank(ingredients)
	meas := nonBlank(measures)

	n := min(len(ings), len(meas))
	pairs := make([]string, 0, n)
	for i := range n {
		pairs = append(pairs, ings[i]+" - "+meas[i])
	}
	return pairs
}

// ParseTags splits a comma separated tag string.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return nonBlank(strings.Split(raw, ","))
}

// JoinTags is the inverse of ParseTags.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
