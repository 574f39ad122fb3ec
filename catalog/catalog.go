// Package catalog builds and exchanges the candidate lists that feed a bracket:
// manual entry, bulk text, the JSON snapshot form and item search.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/models"
)

const DefaultTitle = "Untitled Tournament"

var (
	ErrEmptyContent    = errors.New("item content is required")
	ErrUnknownItemType = errors.New("unknown item type")
)

var (
	imageSuffixRe = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png)$`)
	videoIDRe     = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?]*).*`)
)

// DetectType guesses the item type from its content: YouTube links are
// videos, URLs ending in an image extension are images, anything else is text.
func DetectType(content string) models.ItemType {
	content = strings.TrimSpace(content)
	switch {
	case strings.Contains(content, "youtube.com"), strings.Contains(content, "youtu.be"):
		return models.ItemTypeVideoLink
	case imageSuffixRe.MatchString(content):
		return models.ItemTypeImage
	default:
		return models.ItemTypeText
	}
}

// NewItem validates a manually entered candidate. An empty type is detected
// from the content.
func NewItem(ids brackets.IDGenerator, content, label string, itemType models.ItemType) (models.Item, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Item{}, ErrEmptyContent
	}
	if itemType == "" {
		itemType = DetectType(content)
	}
	itemType = normalizeType(itemType)
	if !itemType.Valid() {
		return models.Item{}, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}

	return models.Item{
		ID:      ids.NewID(),
		Content: content,
		Label:   strings.TrimSpace(label),
		Type:    itemType,
	}, nil
}

// ParseBulkText turns every non-blank line into an item with a detected type.
func ParseBulkText(ids brackets.IDGenerator, text string) []models.Item {
	var items []models.Item

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, models.Item{
			ID:      ids.NewID(),
			Content: line,
			Type:    DetectType(line),
		})
	}
	return items
}

// VideoID extracts the 11-character YouTube video id from a link.
func VideoID(content string) (string, bool) {
	m := videoIDRe.FindStringSubmatch(content)
	if m == nil || len(m[2]) != 11 {
		return "", false
	}
	return m[2], true
}

// Normalize fills missing ids, trims fields and maps legacy types so a
// reloaded catalog can go straight into the bracket builder.
func Normalize(ids brackets.IDGenerator, items []models.Item) ([]models.Item, error) {
	out := make([]models.Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		item.Content = strings.TrimSpace(item.Content)
		item.Label = strings.TrimSpace(item.Label)
		if item.Content == "" {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrEmptyContent)
		}
		if item.Type == "" {
			item.Type = DetectType(item.Content)
		}
		item.Type = normalizeType(item.Type)
		if !item.Type.Valid() {
			return nil, fmt.Errorf("item %d: %w: %q", i+1, ErrUnknownItemType, item.Type)
		}
		if _, dup := seen[item.ID]; item.ID == "" || dup {
			item.ID = ids.NewID()
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

// TitleOrDefault returns the trimmed title, or DefaultTitle when blank.
func TitleOrDefault(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultTitle
}

// normalizeType accepts older snapshots that used YOUTUBE for video links.
func normalizeType(t models.ItemType) models.ItemType {
	switch strings.ToUpper(string(t)) {
	case "YOUTUBE", "VIDEO", string(models.ItemTypeVideoLink):
		return models.ItemTypeVideoLink
	case string(models.ItemTypeImage):
		return models.ItemTypeImage
	case string(models.ItemTypeText):
		return models.ItemTypeText
	}
	return t
}
