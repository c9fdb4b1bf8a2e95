package category

// Category types
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Category groups transactions; each owns its subcategories
type Category struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon,omitempty"`
	Color         string        `json:"color,omitempty"`
	Type          string        `json:"type"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one category
type Subcategory struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Color      string `json:"color,omitempty"`
}

// Subcategory returns the subcategory with id, if this category owns it
func (c *Category) Subcategory(id int64) (*Subcategory, bool) {
	for i := range c.Subcategories {
		if c.Subcategories[i].ID == id {
			return &c.Subcategories[i], true
		}
	}
	return nil, false
}
