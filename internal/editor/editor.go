// Package editor provides the mutable, user-editable model behind the dynamic grade
// calculator. Every mutation recomputes the report immediately.
package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/types"
)

// Field names an editable item field.
type Field string

const (
	FieldName   Field = "name"
	FieldScore  Field = "score"
	FieldWeight Field = "weight"
)

// CategoryPatch carries the category fields to replace. Nil fields are left alone.
type CategoryPatch struct {
	Name        *string      `json:"name,omitempty"`
	Items       []types.Item `json:"items,omitempty"`
	TotalWeight *float64     `json:"total_weight,omitempty"`
}

// Editor owns a list of categories for one session.
// It is not safe for concurrent use; Store serialises access per session.
type Editor struct {
	categories []types.Category
	linear     bool
	report     types.Report
	newID      func() string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLinearGPA switches the derived GPA to the linear policy.
func WithLinearGPA(linear bool) Option {
	return func(e *Editor) {
		e.linear = linear
	}
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) {
		e.newID = gen
	}
}

// New creates an editor over a copy of seed. An empty seed gets one fresh category so
// the computation always has something to work on.
func New(seed []types.Category, opts ...Option) *Editor {
	e := configure(opts)
	e.categories = types.CloneCategories(seed)
	if len(e.categories) == 0 {
		e.categories = append(e.categories, e.newCategory())
	}
	e.recompute()
	return e
}

// NewDefault creates an editor seeded with DefaultSeed, using the configured id
// generator for the seed as well.
func NewDefault(opts ...Option) *Editor {
	return New(DefaultSeed(configure(opts).newID), opts...)
}

func configure(opts []Option) *Editor {
	e := &Editor{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories returns a deep copy of the current categories.
func (e *Editor) Categories() []types.Category {
	return types.CloneCategories(e.categories)
}

// Result returns the report computed after the most recent edit.
func (e *Editor) Result() types.Report {
	return e.report
}

// Linear reports whether the editor derives GPA linearly.
func (e *Editor) Linear() bool {
	return e.linear
}

// SetLinear changes the GPA policy and recomputes.
func (e *Editor) SetLinear(linear bool) {
	e.linear = linear
	e.recompute()
}

// AddCategory appends a new category with one seeded item and a weight of 0.
// Existing weights are not rebalanced.
func (e *Editor) AddCategory() types.Category {
	c := e.newCategory()
	e.categories = append(e.categories, c)
	e.recompute()
	return c.Clone()
}

// RemoveCategory removes a category by id. Removing the last category is refused.
func (e *Editor) RemoveCategory(id string) bool {
	if len(e.categories) <= 1 {
		return false
	}
	idx := e.categoryIndex(id)
	if idx < 0 {
		return false
	}
	e.categories = append(e.categories[:idx], e.categories[idx+1:]...)
	e.recompute()
	return true
}

// UpdateCategory applies patch to the category with the given id. A patch that
// would leave the category without items is refused, like removing its last item.
// Patched items keep their id only when it names a distinct item already in the
// category; any other id is replaced with a fresh one.
func (e *Editor) UpdateCategory(id string, patch CategoryPatch) bool {
	idx := e.categoryIndex(id)
	if idx < 0 {
		return false
	}
	if patch.Items != nil && len(patch.Items) == 0 {
		return false
	}
	c := &e.categories[idx]
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Items != nil {
		c.Items = e.reconcileItems(c.Items, patch.Items)
	}
	if patch.TotalWeight != nil {
		c.TotalWeight = *patch.TotalWeight
	}
	e.recompute()
	return true
}

// AddItem appends a new empty item to a category.
func (e *Editor) AddItem(categoryID string) (types.Item, bool) {
	idx := e.categoryIndex(categoryID)
	if idx < 0 {
		return types.Item{}, false
	}
	c := &e.categories[idx]
	item := e.newItem(len(c.Items) + 1)
	c.Items = append(c.Items, item)
	e.recompute()
	return item, true
}

// UpdateItem sets one field of an item from raw text. Weight text goes through
// grading.ParseScore, so unparseable weights become 0 and the item turns inert.
func (e *Editor) UpdateItem(categoryID, itemID string, field Field, value string) bool {
	ci := e.categoryIndex(categoryID)
	if ci < 0 {
		return false
	}
	ii := itemIndex(e.categories[ci].Items, itemID)
	if ii < 0 {
		return false
	}

	item := &e.categories[ci].Items[ii]
	switch field {
	case FieldName:
		item.Name = value
	case FieldScore:
		item.Score = value
	case FieldWeight:
		item.Weight = grading.ParseScore(value)
	default:
		return false
	}
	e.recompute()
	return true
}

// RemoveItem removes an item from a category. The last item of a category stays.
func (e *Editor) RemoveItem(categoryID, itemID string) bool {
	ci := e.categoryIndex(categoryID)
	if ci < 0 {
		return false
	}
	items := e.categories[ci].Items
	if len(items) <= 1 {
		return false
	}
	ii := itemIndex(items, itemID)
	if ii < 0 {
		return false
	}
	e.categories[ci].Items = append(items[:ii], items[ii+1:]...)
	e.recompute()
	return true
}

// HasCategory reports whether a category with the given id exists.
func (e *Editor) HasCategory(id string) bool {
	return e.categoryIndex(id) >= 0
}

// HasItem reports whether the category holds an item with the given id.
func (e *Editor) HasItem(categoryID, itemID string) bool {
	ci := e.categoryIndex(categoryID)
	return ci >= 0 && itemIndex(e.categories[ci].Items, itemID) >= 0
}

func (e *Editor) reconcileItems(current, patched []types.Item) []types.Item {
	known := make(map[string]bool, len(current))
	for _, it := range current {
		known[it.ID] = true
	}

	out := make([]types.Item, len(patched))
	copy(out, patched)
	used := make(map[string]bool, len(out))
	for i := range out {
		if !known[out[i].ID] || used[out[i].ID] {
			out[i].ID = e.newID()
		}
		used[out[i].ID] = true
	}
	return out
}

func (e *Editor) recompute() {
	e.report = grading.Evaluate(e.categories, e.linear)
}

func (e *Editor) newCategory() types.Category {
	return types.Category{
		ID:          e.newID(),
		Name:        fmt.Sprintf("Category %d", len(e.categories)+1),
		Items:       []types.Item{e.newItem(1)},
		TotalWeight: 0,
	}
}

func (e *Editor) newItem(n int) types.Item {
	return types.Item{
		ID:     e.newID(),
		Name:   fmt.Sprintf("Assignment %d", n),
		Score:  "",
		Weight: 1,
	}
}

func (e *Editor) categoryIndex(id string) int {
	for i := range e.categories {
		if e.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func itemIndex(items []types.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
