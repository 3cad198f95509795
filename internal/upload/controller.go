// Package upload owns the single-file upload lifecycle:
// Idle → Uploading → Succeeded | Failed.
package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
)

// State is the controller's lifecycle position.
type State int

const (
	Idle State = iota
	Uploading
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fallback messages when the body names no reason.
const (
	GenericFailure    = "Upload failed"
	ProcessingFailure = "Processing failed"
)

// File is the recording chosen for upload.
type File struct {
	Path string
	Name string
	Size int64
}

// StatFile builds a File from a path on disk.
func StatFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat recording: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("stat recording: %s is a directory", path)
	}
	return File{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}

// Controller holds the upload state for one view.
type Controller struct {
	file   *File
	state  State
	result *api.UploadResult
	err    string
}

// SelectFile replaces the chosen file and clears any previous outcome.
// An upload already in flight keeps running.
func (c *Controller) SelectFile(f File) {
	c.file = &f
	c.result = nil
	c.err = ""
	if c.state != Uploading {
		c.state = Idle
	}
}

// CanSubmit reports whether Begin would start an upload.
func (c Controller) CanSubmit() bool {
	return c.file != nil && c.state != Uploading
}

// Begin moves to Uploading and returns the file to send. Without a file,
// or with an upload already in flight, it does nothing and returns false.
func (c *Controller) Begin() (File, bool) {
	if !c.CanSubmit() {
		return File{}, false
	}
	c.state = Uploading
	c.result = nil
	c.err = ""
	return *c.file, true
}

// Complete settles an in-flight upload. err is a transport failure; reply
// carries the status and body otherwise.
func (c *Controller) Complete(reply api.Reply[api.UploadResult], err error) {
	if c.state != Uploading {
		return
	}

	switch {
	case err != nil:
		c.fail(GenericFailure + ": " + err.Error())
	case !reply.OK():
		c.fail(FailureMessage(reply.Body))
	case reply.Body.Declined():
		c.fail(ProcessingFailureMessage(reply.Body))
	default:
		res := reply.Body
		c.result = &res
		c.state = Succeeded
	}
}

func (c *Controller) fail(msg string) {
	c.state = Failed
	c.err = msg
	c.result = nil
}

// FailureMessage picks the message for a non-2xx reply:
// detail, then message, then GenericFailure.
func FailureMessage(body api.UploadResult) string {
	if s := api.RawText(body.Detail); s != "" {
		return s
	}
	if s := api.RawText(body.Message); s != "" {
		return s
	}
	return GenericFailure
}

// ProcessingFailureMessage picks the message for a 2xx reply that declares
// success:false: message, then ProcessingFailure.
func ProcessingFailureMessage(body api.UploadResult) string {
	if s := api.RawText(body.Message); s != "" {
		return s
	}
	return ProcessingFailure
}

// State returns the lifecycle position.
func (c Controller) State() State { return c.state }

// Busy reports an upload in flight.
func (c Controller) Busy() bool { return c.state == Uploading }

// File returns the chosen file, if any.
func (c Controller) File() (File, bool) {
	if c.file == nil {
		return File{}, false
	}
	return *c.file, true
}

// Result is the processed outcome once Succeeded.
func (c Controller) Result() *api.UploadResult { return c.result }

// Err is the failure message once Failed.
func (c Controller) Err() string { return c.err }

// Step is one backend processing stage reported by a successful upload.
type Step struct {
	Label string
	OK    bool
}

// Steps lists the per-stage flags of the current result in display order.
func (c Controller) Steps() []Step {
	if c.result == nil {
		return nil
	}
	return []Step{
		{Label: "Transcript", OK: c.result.TranscriptSuccess},
		{Label: "SQLite DB Write", OK: c.result.DBSuccess},
		{Label: "Chroma Embeddings", OK: c.result.ChromaSuccess},
	}
}

// FailedSteps counts stages that reported failure.
func (c Controller) FailedSteps() int {
	n := 0
	for _, s := range c.Steps() {
		if !s.OK {
			n++
		}
	}
	return n
}
