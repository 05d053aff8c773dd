package model

// CartOptionValue selects one value of a menu item option, optionally
// referencing combo sub-items.
type CartOptionValue struct {
	ValueID     string   `json:"valueid"`
	ComboItemID string   `json:"comboitemid,omitempty"`
	ComboItems  []string `json:"comboitems,omitempty"`
}

// CartOption is a chosen option on a cart item.
type CartOption struct {
	OptionID string            `json:"optionid"`
	Values   []CartOptionValue `json:"values"`
}

// CartItem mirrors the upstream cart item wire shape. Field names are the
// upstream contract and must not change.
type CartItem struct {
	ItemID          int          `json:"itemid"`
	SectionID       int          `json:"sectionid"`
	UpsellItemID    string       `json:"upsellitemid,omitempty"`
	UpsellVariantID string       `json:"upsellvariantid,omitempty"`
	Options         []CartOption `json:"options"`
	MealExApplied   bool         `json:"mealExApplied"`
}
