package query

import (
	"encoding/json"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
)

// ContextItem is one retrieved transcript chunk and its metadata.
type ContextItem struct {
	Document string `json:"document"`
	Metadata string `json:"metadata"`
}

// MatchedContext pairs the first document batch with the first metadata
// batch by position. It returns nil when documents[0] is missing or is not
// a list. A document without a matching metadata entry gets an empty
// Metadata.
func MatchedContext(m *api.Matches) []ContextItem {
	if !m.HasDocuments() {
		return nil
	}

	docs, ok := firstBatch(m.Documents)
	if !ok {
		return nil
	}
	metas, _ := firstBatch(m.Metadatas)

	items := make([]ContextItem, 0, len(docs))
	for i, d := range docs {
		item := ContextItem{Document: api.RawText(d)}
		if i < len(metas) {
			item.Metadata = metadataText(metas[i])
		}
		items = append(items, item)
	}
	return items
}

// firstBatch decodes batches[0] as a list of raw values.
func firstBatch(raw json.RawMessage) ([]json.RawMessage, bool) {
	var batches []json.RawMessage
	if err := json.Unmarshal(raw, &batches); err != nil || len(batches) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(batches[0], &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// metadataText renders a metadata value as compact JSON, keeping the
// backend's key order. Strings keep their quotes.
func metadataText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		b, _ := json.Marshal(s)
		return string(b)
	}
	if text := api.RawText(raw); text != "" {
		return text
	}
	return "null"
}
