package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type recordingTransport struct {
	requests []*http.Request
	bodies   []string
	status   int
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	rt.requests = append(rt.requests, req)
	rt.bodies = append(rt.bodies, body)
	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
		Header:     make(http.Header),
	}, nil
}

func newRecordingNotifier(status int) (*TelegramNotifier, *recordingTransport) {
	rt := &recordingTransport{status: status}
	tn := NewTelegramNotifier("test-token", "chat-42", "")
	tn.Client = &http.Client{Transport: rt}
	return tn, rt
}

func TestSend_Payload(t *testing.T) {
	tn, rt := newRecordingNotifier(0)
	if err := tn.Send(context.Background(), "<b>hello</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rt.bodies) != 1 {
		t.Fatalf("expected 1 request, got %d", len(rt.bodies))
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(rt.bodies[0]), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["chat_id"] != "chat-42" {
		t.Errorf("unexpected chat_id: %s", payload["chat_id"])
	}
	if payload["text"] != "<b>hello</b>" {
		t.Errorf("unexpected text: %s", payload["text"])
	}
	if payload["parse_mode"] != "HTML" {
		t.Errorf("unexpected parse_mode: %s", payload["parse_mode"])
	}
	if !strings.Contains(rt.requests[0].URL.String(), "bottest-token/sendMessage") {
		t.Errorf("unexpected URL: %s", rt.requests[0].URL)
	}
}

func TestSend_APIError(t *testing.T) {
	tn, _ := newRecordingNotifier(http.StatusForbidden)
	if err := tn.Send(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestSend_CancelledContext(t *testing.T) {
	tn, _ := newRecordingNotifier(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tn.Send(ctx, "hi"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
