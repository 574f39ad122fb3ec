package models

// ItemType определяет, как отображать содержимое кандидата.
type ItemType string

const (
	ItemTypeText      ItemType = "TEXT"
	ItemTypeImage     ItemType = "IMAGE"
	ItemTypeVideoLink ItemType = "VIDEO_LINK"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeText, ItemTypeImage, ItemTypeVideoLink:
		return true
	}
	return false
}

// Item is a ranked candidate. Items are never modified after creation;
// matches point at them instead of copying.
type Item struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Label   string   `json:"label,omitempty"`
	Type    ItemType `json:"type"`
}

// DisplayName returns the label when present, otherwise the raw content.
func (i Item) DisplayName() string {
	if i.Label != "" {
		return i.Label
	}
	return i.Content
}
