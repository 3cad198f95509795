package upload

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
)

func okReply(body api.UploadResult) api.Reply[api.UploadResult] {
	return api.Reply[api.UploadResult]{StatusCode: 200, Body: body}
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestBeginWithoutFileIsNoop(t *testing.T) {
	var c Controller

	if _, ok := c.Begin(); ok {
		t.Error("Begin without a file should not start")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if c.CanSubmit() {
		t.Error("CanSubmit should be false without a file")
	}
}

func TestBeginClearsPreviousOutcome(t *testing.T) {
	var c Controller
	c.SelectFile(File{Path: "/tmp/a.m4a", Name: "a.m4a"})
	c.Begin()
	c.Complete(api.Reply[api.UploadResult]{}, errors.New("connection refused"))

	if c.State() != Failed {
		t.Fatalf("state = %v, want failed", c.State())
	}

	f, ok := c.Begin()
	if !ok {
		t.Fatal("retry after failure should start")
	}
	if f.Name != "a.m4a" {
		t.Errorf("file = %+v", f)
	}
	if c.Err() != "" || c.Result() != nil {
		t.Error("Begin should clear error and result")
	}
	if !c.Busy() {
		t.Error("should be uploading")
	}
}

func TestBeginWhileUploadingIsRefused(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "a.m4a"})
	c.Begin()

	if _, ok := c.Begin(); ok {
		t.Error("second Begin while uploading should be refused")
	}
	if c.CanSubmit() {
		t.Error("CanSubmit should be false while uploading")
	}
}

func TestCompleteSuccessWithMixedFlags(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "standup.m4a"})
	c.Begin()
	c.Complete(okReply(api.UploadResult{
		Success:           api.BoolPtr(true),
		TranscriptSuccess: true,
		DBSuccess:         false,
		ChromaSuccess:     true,
	}), nil)

	if c.State() != Succeeded {
		t.Fatalf("state = %v, want succeeded", c.State())
	}
	if c.FailedSteps() != 1 {
		t.Errorf("failed steps = %d, want 1", c.FailedSteps())
	}
	steps := c.Steps()
	if len(steps) != 3 || steps[1].Label != "SQLite DB Write" || steps[1].OK {
		t.Errorf("steps = %+v", steps)
	}
}

func TestCompleteSuccessWithoutSuccessField(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "a.m4a"})
	c.Begin()
	c.Complete(okReply(api.UploadResult{TranscriptSuccess: true, DBSuccess: true, ChromaSuccess: true}), nil)

	if c.State() != Succeeded {
		t.Errorf("state = %v, want succeeded", c.State())
	}
	if c.FailedSteps() != 0 {
		t.Errorf("failed steps = %d", c.FailedSteps())
	}
}

func TestCompleteTransportError(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "a.m4a"})
	c.Begin()
	c.Complete(api.Reply[api.UploadResult]{}, errors.New("dial tcp: connection refused"))

	if c.State() != Failed {
		t.Fatalf("state = %v", c.State())
	}
	if c.Err() != "Upload failed: dial tcp: connection refused" {
		t.Errorf("err = %q", c.Err())
	}
}

func TestCompleteStatusErrorFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body api.UploadResult
		want string
	}{
		{"detail wins", api.UploadResult{Detail: raw(`"disk full"`), Message: raw(`"ignored"`)}, "disk full"},
		{"message next", api.UploadResult{Message: raw(`"too large"`)}, "too large"},
		{"generic", api.UploadResult{}, "Upload failed"},
		{"empty detail falls through", api.UploadResult{Detail: raw(`""`), Message: raw(`"m"`)}, "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Controller
			c.SelectFile(File{Name: "a.m4a"})
			c.Begin()
			c.Complete(api.Reply[api.UploadResult]{StatusCode: 500, Body: tt.body}, nil)

			if c.State() != Failed {
				t.Fatalf("state = %v", c.State())
			}
			if c.Err() != tt.want {
				t.Errorf("err = %q, want %q", c.Err(), tt.want)
			}
		})
	}
}

func TestCompleteDeclinedFallbacks(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "a.m4a"})
	c.Begin()
	c.Complete(okReply(api.UploadResult{Success: api.BoolPtr(false), Detail: raw(`"not used"`)}), nil)

	if c.State() != Failed {
		t.Fatalf("state = %v", c.State())
	}
	if c.Err() != "Processing failed" {
		t.Errorf("err = %q", c.Err())
	}

	c.Begin()
	c.Complete(okReply(api.UploadResult{Success: api.BoolPtr(false), Message: raw(`"whisper crashed"`)}), nil)
	if c.Err() != "whisper crashed" {
		t.Errorf("err = %q", c.Err())
	}
}

func TestSelectFileResetsOutcome(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "a.m4a"})
	c.Begin()
	c.Complete(okReply(api.UploadResult{TranscriptSuccess: true}), nil)

	c.SelectFile(File{Name: "b.m4a"})

	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if c.Result() != nil || c.Err() != "" {
		t.Error("selecting a file should clear result and error")
	}
	if f, _ := c.File(); f.Name != "b.m4a" {
		t.Errorf("file = %+v", f)
	}
}

func TestSelectFileDuringUploadKeepsUploading(t *testing.T) {
	var c Controller
	c.SelectFile(File{Name: "a.m4a"})
	c.Begin()
	c.SelectFile(File{Name: "b.m4a"})

	if !c.Busy() {
		t.Error("upload in flight should keep running")
	}
}

func TestCompleteWhenNotUploadingIsIgnored(t *testing.T) {
	var c Controller
	c.Complete(okReply(api.UploadResult{TranscriptSuccess: true}), nil)

	if c.State() != Idle || c.Result() != nil {
		t.Errorf("stray completion changed state: %v", c.State())
	}
}

func TestStatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retro.wav")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := StatFile(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if f.Name != "retro.wav" || f.Size != 2048 || f.Path != path {
		t.Errorf("file = %+v", f)
	}

	if _, err := StatFile(dir); err == nil {
		t.Error("directory should be rejected")
	}
	if _, err := StatFile(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("missing file should be rejected")
	}
}
