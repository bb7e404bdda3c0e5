package combobox

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Serializer turns an item into the text the filter searches
type Serializer[T any] func(item T) (string, error)

// JSONSerializer dumps the whole item as JSON. A null item has no text.
func JSONSerializer[T any](item T) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(item); err != nil {
		return "", err
	}
	text := strings.TrimSuffix(buf.String(), "\n")
	if text == "null" {
		return "", nil
	}
	return text, nil
}

// Filter returns the items whose JSON form contains query, ignoring case.
// An empty query returns items unchanged.
func Filter[T any](items []T, query string) []T {
	return FilterWith(items, query, JSONSerializer[T], SubstringMatcher{})
}

// FilterWith is Filter with a custom serializer and matcher. The result is
// always a subsequence of items in the original order. Items that fail to
// serialize never match a non-empty query.
func FilterWith[T any](items []T, query string, serialize Serializer[T], matcher Matcher) []T {
	if query == "" {
		return items
	}
	if serialize == nil {
		serialize = JSONSerializer[T]
	}
	if matcher == nil {
		matcher = SubstringMatcher{}
	}

	texts := make([]string, len(items))
	for i, item := range items {
		text, err := serialize(item)
		if err != nil {
			continue
		}
		texts[i] = text
	}

	indices := matcher.Match(texts, query)
	filtered := make([]T, 0, len(indices))
	for _, i := range indices {
		filtered = append(filtered, items[i])
	}
	return filtered
}
