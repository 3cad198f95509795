// Package query owns the question lifecycle against one selected meeting:
// Idle → Querying → Succeeded | Failed.
package query

import (
	"fmt"
	"strings"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
)

// State is the controller's lifecycle position.
type State int

const (
	Idle State = iota
	Querying
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Querying:
		return "querying"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// GenericFailure is shown when a failed reply names no reason.
const GenericFailure = "Query failed"

// Controller holds the query state for one view.
type Controller struct {
	meetingID int64
	selected  bool
	question  string
	state     State
	result    *api.QueryResult
	err       string
}

// Select picks the meeting questions are asked against.
func (c *Controller) Select(id int64) {
	c.meetingID = id
	c.selected = true
}

// Deselect clears the meeting selection.
func (c *Controller) Deselect() {
	c.meetingID = 0
	c.selected = false
}

// Selection returns the selected meeting id.
func (c Controller) Selection() (int64, bool) {
	return c.meetingID, c.selected
}

// SetQuestion replaces the question text.
func (c *Controller) SetQuestion(q string) { c.question = q }

// Question returns the question text as typed.
func (c Controller) Question() string { return c.question }

// CanSubmit reports whether Begin would fire a request: a meeting is
// selected, the trimmed question is non-empty and nothing is in flight.
func (c Controller) CanSubmit() bool {
	return c.selected && strings.TrimSpace(c.question) != "" && c.state != Querying
}

// Begin moves to Querying and returns the request to send. When the
// preconditions do not hold it does nothing and returns false.
func (c *Controller) Begin() (api.QueryRequest, bool) {
	if !c.CanSubmit() {
		return api.QueryRequest{}, false
	}
	c.state = Querying
	c.result = nil
	c.err = ""
	return api.QueryRequest{MeetingID: c.meetingID, Question: c.question}, true
}

// Complete settles an in-flight query. err is a transport failure; reply
// carries the status and body otherwise.
func (c *Controller) Complete(reply api.Reply[api.QueryResult], err error) {
	if c.state != Querying {
		return
	}

	switch {
	case err != nil:
		c.state = Failed
		c.err = GenericFailure + ": " + err.Error()
	case !reply.OK() || reply.Body.Declined():
		c.state = Failed
		c.err = FailureMessage(reply.Body)
	default:
		res := reply.Body
		c.result = &res
		c.state = Succeeded
	}
}

// Clear resets question, result and error. The meeting selection stays.
// A query still in flight keeps running and settles normally.
func (c *Controller) Clear() {
	c.question = ""
	c.result = nil
	c.err = ""
	if c.state != Querying {
		c.state = Idle
	}
}

// FailureMessage picks the message for a failed reply:
// error, then detail, then GenericFailure.
func FailureMessage(body api.QueryResult) string {
	if s := api.RawText(body.Error); s != "" {
		return s
	}
	if s := api.RawText(body.Detail); s != "" {
		return s
	}
	return GenericFailure
}

// State returns the lifecycle position.
func (c Controller) State() State { return c.state }

// Busy reports a query in flight.
func (c Controller) Busy() bool { return c.state == Querying }

// Result is the answer payload once Succeeded.
func (c Controller) Result() *api.QueryResult { return c.result }

// Err is the failure message once Failed.
func (c Controller) Err() string { return c.err }
