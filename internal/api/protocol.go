// Package api provides the HTTP client and wire types for the meeting
// intelligence backend (/records, /upload, /query).
package api

import (
	"bytes"
	"encoding/json"
)

// MeetingRecord is one processed meeting as stored by the backend.
type MeetingRecord struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	Insights   string `json:"insights"`
}

// UploadResult is the body returned by POST /upload.
type UploadResult struct {
	Success           *bool           `json:"success,omitempty"`
	TranscriptSuccess bool            `json:"transcript_success"`
	DBSuccess         bool            `json:"db_success"`
	ChromaSuccess     bool            `json:"chroma_success"`
	Message           json.RawMessage `json:"message,omitempty"`
	Detail            json.RawMessage `json:"detail,omitempty"`
}

// Declined reports whether the body explicitly carries success:false.
// An absent success field counts as success.
func (r UploadResult) Declined() bool {
	return r.Success != nil && !*r.Success
}

// QueryRequest is sent to POST /query.
type QueryRequest struct {
	MeetingID int64  `json:"meeting_id"`
	Question  string `json:"question"`
}

// QueryResult is the body returned by POST /query, on success or failure.
type QueryResult struct {
	Success  *bool           `json:"success,omitempty"`
	Question string          `json:"question,omitempty"`
	Answer   string          `json:"answer,omitempty"`
	Matches  *Matches        `json:"matches,omitempty"`
	Error    json.RawMessage `json:"error,omitempty"`
	Detail   json.RawMessage `json:"detail,omitempty"`
}

// Declined reports whether the body explicitly carries success:false.
func (r QueryResult) Declined() bool {
	return r.Success != nil && !*r.Success
}

// Matches is the raw vector-store query result. Each field is a batch: index
// 0 belongs to the single submitted question. Fields stay raw so that an
// unexpected shape degrades to "no context" instead of a decode failure.
type Matches struct {
	Documents json.RawMessage `json:"documents,omitempty"`
	Metadatas json.RawMessage `json:"metadatas,omitempty"`
	Distances json.RawMessage `json:"distances,omitempty"`
}

// UnmarshalJSON accepts any JSON value. Anything other than an object yields
// empty Matches.
func (m *Matches) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		*m = Matches{}
		return nil
	}
	*m = Matches{
		Documents: fields["documents"],
		Metadatas: fields["metadatas"],
		Distances: fields["distances"],
	}
	return nil
}

// HasDocuments reports whether a non-null documents field is present.
func (m *Matches) HasDocuments() bool {
	return m != nil && !isNull(m.Documents)
}

// RawText renders a raw JSON value for display: strings are unquoted, null
// and absent values are empty, anything else is compact JSON text.
func RawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Reply pairs a decoded body with the HTTP status it arrived with.
type Reply[T any] struct {
	StatusCode int
	Body       T
}

// OK reports a 2xx status.
func (r Reply[T]) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BoolPtr returns a pointer to a bool value. Convenience for building bodies.
func BoolPtr(b bool) *bool { return &b }
