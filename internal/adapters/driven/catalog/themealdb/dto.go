package themealdb

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/recipedelight/delight/internal/core/domain"
)

// mealsEnvelope wraps random.php, lookup.php and search.php responses.
type mealsEnvelope struct {
	Meals []mealDTO `json:"meals" validate:"dive"`
}

// categoriesEnvelope wraps categories.php responses.
type categoriesEnvelope struct {
	Categories []categoryDTO `json:"categories" validate:"dive"`
}

// summariesEnvelope wraps filter.php responses.
type summariesEnvelope struct {
	Meals []summaryDTO `json:"meals" validate:"dive"`
}

// mealDTO is a full catalogue record. The numbered strIngredientN and
// strMeasureN columns are collected by UnmarshalJSON.
type mealDTO struct {
	ID           string  `json:"idMeal" validate:"required"`
	Name         string  `json:"strMeal" validate:"required"`
	Category     *string `json:"strCategory"`
	Area         *string `json:"strArea"`
	Instructions *string `json:"strInstructions"`
	Thumbnail    *string `json:"strMealThumb"`
	Tags         *string `json:"strTags"`
	YouTube      *string `json:"strYoutube"`

	Ingredients [domain.IngredientSlots]string `json:"-"`
	Measures    [domain.IngredientSlots]string `json:"-"`
}

// UnmarshalJSON decodes the named columns and the numbered ingredient slots.
func (d *mealDTO) UnmarshalJSON(data []byte) error {
	type plain mealDTO
	if err := json.Unmarshal(data, (*plain)(d)); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := range domain.IngredientSlots {
		n := strconv.Itoa(i + 1)
		d.Ingredients[i], _ = raw["strIngredient"+n].(string)
		d.Measures[i], _ = raw["strMeasure"+n].(string)
	}
	return nil
}

func (d *mealDTO) toDomain() domain.Meal {
	return domain.Meal{
		ID:           strings.TrimSpace(d.ID),
		Name:         strings.TrimSpace(d.Name),
		Category:     deref(d.Category),
		Area:         deref(d.Area),
		Instructions: deref(d.Instructions),
		Thumbnail:    deref(d.Thumbnail),
		Tags:         domain.ParseTags(deref(d.Tags)),
		YouTube:      deref(d.YouTube),
		Ingredients:  domain.PairIngredients(d.Ingredients[:], d.Measures[:]),
	}
}

type categoryDTO struct {
	ID          string  `json:"idCategory" validate:"required"`
	Name        string  `json:"strCategory" validate:"required"`
	Thumbnail   *string `json:"strCategoryThumb"`
	Description *string `json:"strCategoryDescription"`
}

func (d *categoryDTO) toDomain() domain.Category {
	return domain.Category{
		ID:          d.ID,
		Name:        d.Name,
		Thumbnail:   deref(d.Thumbnail),
		Description: strings.TrimSpace(deref(d.Description)),
	}
}

type summaryDTO struct {
	ID        string  `json:"idMeal" validate:"required"`
	Name      string  `json:"strMeal" validate:"required"`
	Thumbnail *string `json:"strMealThumb"`
}

func (d *summaryDTO) toDomain() domain.MealSummary {
	return domain.MealSummary{
		ID:        d.ID,
		Name:      d.Name,
		Thumbnail: deref(d.Thumbnail),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
