// Package journal keeps a local SQLite log of finished uploads and queries.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/query"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/upload"
)

// Kind is what an entry records.
type Kind string

const (
	KindUpload Kind = "upload"
	KindQuery  Kind = "query"
)

// Entry is one settled upload or query.
type Entry struct {
	ID        string
	Kind      Kind
	MeetingID *int64
	Subject   string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// UploadEntry describes a settled upload controller.
func UploadEntry(c upload.Controller) Entry {
	e := Entry{Kind: KindUpload, Outcome: c.State().String()}
	if f, ok := c.File(); ok {
		e.Subject = f.Name
	}
	if c.State() == upload.Failed {
		e.Detail = c.Err()
		return e
	}

	var parts []string
	for _, s := range c.Steps() {
		status := "ok"
		if !s.OK {
			status = "failed"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", s.Label, status))
	}
	e.Detail = strings.Join(parts, ", ")
	return e
}

// QueryEntry describes a settled query controller.
func QueryEntry(c query.Controller) Entry {
	e := Entry{
		Kind:    KindQuery,
		Subject: c.Question(),
		Outcome: c.State().String(),
	}
	if id, ok := c.Selection(); ok {
		e.MeetingID = &id
	}
	switch {
	case c.State() == query.Failed:
		e.Detail = c.Err()
	case c.Result() != nil:
		e.Detail = c.Result().Answer
	}
	return e
}
