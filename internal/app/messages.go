package app

import (
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/records"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/upload"
)

// RecordsLoadedMsg carries the result of one record-list fetch. Only the
// list that issued Ticket accepts it.
type RecordsLoadedMsg struct {
	Ticket  records.Ticket
	Records []api.MeetingRecord
	Err     error
}

// FileStatMsg reports the recording picked in the file input.
type FileStatMsg struct {
	Gen  uint64
	File upload.File
	Err  error
}

// UploadFinishedMsg settles the upload started in mount Gen.
type UploadFinishedMsg struct {
	Gen   uint64
	File  upload.File
	Reply api.Reply[api.UploadResult]
	Err   error
}

// QueryFinishedMsg settles the query started in mount Gen.
type QueryFinishedMsg struct {
	Gen     uint64
	Request api.QueryRequest
	Reply   api.Reply[api.QueryResult]
	Err     error
}
