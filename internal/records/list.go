package records

import (
	"sync/atomic"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
)

// Ticket identifies one fetch issued by a List. Tickets are unique across
// all lists so a response can never be mistaken for another mount's.
type Ticket uint64

var ticketSeq atomic.Uint64

// List is one consumer's snapshot of the record list.
type List struct {
	records []api.MeetingRecord
	byID    map[int64]int
	pending Ticket
	loading bool
	loaded  bool
	closed  bool
}

// Begin marks a fetch as issued and returns the ticket its response must
// carry. Any earlier ticket becomes stale.
func (l *List) Begin() Ticket {
	t := Ticket(ticketSeq.Add(1))
	l.pending = t
	l.loading = true
	l.closed = false
	return t
}

// Apply stores the response for ticket t. It returns false and changes
// nothing when the list was closed or t is stale. A failed fetch settles
// the load but leaves the previous records in place.
func (l *List) Apply(t Ticket, records []api.MeetingRecord, err error) bool {
	if l.closed || t == 0 || t != l.pending {
		return false
	}
	l.loading = false
	if err != nil {
		return true
	}

	l.records = records
	l.byID = make(map[int64]int, len(records))
	for i, r := range records {
		l.byID[r.ID] = i
	}
	l.loaded = true
	return true
}

// Close detaches the list from any fetch still in flight.
func (l *List) Close() {
	l.closed = true
	l.loading = false
	l.pending = 0
}

// Records returns the current snapshot in server order.
func (l List) Records() []api.MeetingRecord { return l.records }

// Len is the number of records held.
func (l List) Len() int { return len(l.records) }

// ByID looks up a record by its server-assigned id.
func (l List) ByID(id int64) (api.MeetingRecord, bool) {
	i, ok := l.byID[id]
	if !ok {
		return api.MeetingRecord{}, false
	}
	return l.records[i], true
}

// Loading reports a fetch in flight.
func (l List) Loading() bool { return l.loading }

// Loaded reports that at least one fetch succeeded.
func (l List) Loaded() bool { return l.loaded }
