package api

import (
	"encoding/json"
	"testing"
)

func TestQueryRequestMarshal(t *testing.T) {
	data, err := json.Marshal(QueryRequest{MeetingID: 7, Question: "What action items were assigned?"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if raw["meeting_id"] != float64(7) {
		t.Errorf("meeting_id = %v, want 7", raw["meeting_id"])
	}
	if raw["question"] != "What action items were assigned?" {
		t.Errorf("question = %v", raw["question"])
	}
}

func TestUploadResultSuccessDefaultsTrue(t *testing.T) {
	var r UploadResult
	if err := json.Unmarshal([]byte(`{"transcript_success":true,"db_success":false,"chroma_success":true}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if r.Declined() {
		t.Error("absent success should not count as declined")
	}
	if !r.TranscriptSuccess || r.DBSuccess || !r.ChromaSuccess {
		t.Errorf("flags = %+v", r)
	}
}

func TestUploadResultDeclined(t *testing.T) {
	var r UploadResult
	if err := json.Unmarshal([]byte(`{"success":false,"message":"whisper crashed"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !r.Declined() {
		t.Error("success:false should count as declined")
	}
	if got := RawText(r.Message); got != "whisper crashed" {
		t.Errorf("message = %q", got)
	}
}

func TestQueryResultMatchesNonObject(t *testing.T) {
	var r QueryResult
	if err := json.Unmarshal([]byte(`{"answer":"ok","matches":"oops"}`), &r); err != nil {
		t.Fatalf("non-object matches should not fail decoding: %v", err)
	}

	if r.Answer != "ok" {
		t.Errorf("answer = %q", r.Answer)
	}
	if r.Matches.HasDocuments() {
		t.Error("non-object matches should have no documents")
	}
}

func TestQueryResultMatchesNull(t *testing.T) {
	var r QueryResult
	if err := json.Unmarshal([]byte(`{"answer":"ok","matches":null}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Matches != nil {
		t.Errorf("matches = %+v, want nil", r.Matches)
	}
	if r.Matches.HasDocuments() {
		t.Error("nil matches should have no documents")
	}
}

func TestQueryResultMatchesKeepsRawBatches(t *testing.T) {
	body := `{"success":true,"matches":{"documents":[["a","b"]],"metadatas":[[{"meeting_id":3}]],"distances":[[0.1,0.2]]}}`

	var r QueryResult
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !r.Matches.HasDocuments() {
		t.Fatal("expected documents")
	}
	if string(r.Matches.Documents) != `[["a","b"]]` {
		t.Errorf("documents = %s", r.Matches.Documents)
	}
	if r.Declined() {
		t.Error("success:true should not be declined")
	}
}

func TestRawText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"meeting not found"`, "meeting not found"},
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"object keeps key order", `{ "title": "standup", "chunk_index": 0 }`, `{"title":"standup","chunk_index":0}`},
		{"list", `[{"loc":["body"],"msg":"field required"}]`, `[{"loc":["body"],"msg":"field required"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RawText(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("RawText(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestReplyOK(t *testing.T) {
	for _, code := range []int{200, 201, 299} {
		if !(Reply[QueryResult]{StatusCode: code}).OK() {
			t.Errorf("status %d should be OK", code)
		}
	}
	for _, code := range []int{0, 199, 300, 404, 500} {
		if (Reply[QueryResult]{StatusCode: code}).OK() {
			t.Errorf("status %d should not be OK", code)
		}
	}
}
