package exerciseindex

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrItemNotFound = errors.New("exercise not found")
	ErrForbidden    = errors.New("not allowed to change this exercise")
	ErrInvalidItem  = errors.New("invalid exercise")
)

const (
	CategoryWarmup     = "warmup"
	CategoryWorkout    = "workout"
	CategorySubstitute = "substitute"
	CategoryCore       = "core"

	OtherSubcategory = "Other"
)

var categories = []string{CategoryWarmup, CategoryWorkout, CategorySubstitute, CategoryCore}

func ValidCategory(c string) bool {
	return slices.Contains(categories, c)
}

type Item struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory"`
	Tier         string    `json:"tier"`
	VideoURL     string    `json:"video_url"`
	TimeSegment  string    `json:"time_segment"`
	Instructions string    `json:"instructions"`
	Tags         []string  `json:"tags"`
	IsCustom     bool      `json:"is_custom"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.Join(ErrInvalidItem, errors.New("name empty"))
	}
	if !ValidCategory(i.Category) {
		return errors.Join(ErrInvalidItem, errors.New("unknown category"))
	}
	return nil
}

// ItemPatch is a partial update, nil fields stay unchanged.
type ItemPatch struct {
	Name         *string   `json:"name,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Subcategory  *string   `json:"subcategory,omitempty"`
	Tier         *string   `json:"tier,omitempty"`
	VideoURL     *string   `json:"video_url,omitempty"`
	TimeSegment  *string   `json:"time_segment,omitempty"`
	Instructions *string   `json:"instructions,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
}

func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Subcategory == nil && p.Tier == nil &&
		p.VideoURL == nil && p.TimeSegment == nil && p.Instructions == nil && p.Tags == nil
}

func (p ItemPatch) Validate() error {
	if p.IsEmpty() {
		return errors.Join(ErrInvalidItem, errors.New("nothing to update"))
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.Join(ErrInvalidItem, errors.New("name empty"))
	}
	if p.Category != nil && !ValidCategory(*p.Category) {
		return errors.Join(ErrInvalidItem, errors.New("unknown category"))
	}
	return nil
}

type Filters struct {
	Category    string
	Subcategory string
	Search      string
}

// Filter keeps items matching all given filters: exact category and subcategory, and a
// case-insensitive substring of name or instructions. The result is ordered by
// category, subcategory, then name.
func Filter(items []Item, f Filters) []Item {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	filtered := []Item{}
	for _, it := range items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Subcategory != "" && it.Subcategory != f.Subcategory {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.Instructions), search) {
			continue
		}
		filtered = append(filtered, it)
	}

	slices.SortStableFunc(filtered, func(a, b Item) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		if c := strings.Compare(a.Subcategory, b.Subcategory); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return filtered
}

// Grouped maps category -> subcategory -> items. Items without a subcategory go to "Other".
func Grouped(items []Item) map[string]map[string][]Item {
	groups := make(map[string]map[string][]Item)
	for _, it := range items {
		sub := it.Subcategory
		if strings.TrimSpace(sub) == "" {
			sub = OtherSubcategory
		}
		if groups[it.Category] == nil {
			groups[it.Category] = make(map[string][]Item)
		}
		groups[it.Category][sub] = append(groups[it.Category][sub], it)
	}
	return groups
}
