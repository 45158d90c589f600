package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logAdapter "github.com/aneoconsulting/logship/internal/adapters/log"
)

func TestClefSender_Send(t *testing.T) {
	body := "{\"@t\":\"1\"}\n{\"@t\":\"2\"}\n"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/events/raw" || r.URL.RawQuery != "clef" {
			t.Errorf("URL = %s, want /api/events/raw?clef", r.URL)
		}
		if got := r.Header.Get("Content-Type"); got != ClefContentType {
			t.Errorf("Content-Type = %s, want %s", got, ClefContentType)
		}
		if got := r.Header.Get("X-Seq-ApiKey"); got != "secret" {
			t.Errorf("X-Seq-ApiKey = %s, want secret", got)
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(data) != body {
			t.Errorf("Body = %q, want %q", data, body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	s := NewClefSender(SenderConfig{URL: ts.URL + "/api/events/raw?clef", APIKey: "secret"}, ts.Client(), logAdapter.NewNoopLogger())
	if err := s.Send(context.Background(), []byte(body)); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
}

func TestClefSender_Status(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		lenient bool
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "bad request is an error", status: http.StatusBadRequest, wantErr: true},
		{name: "server error is an error", status: http.StatusServiceUnavailable, wantErr: true},
		{name: "lenient ignores status", status: http.StatusServiceUnavailable, lenient: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"Error":"rejected"}`))
			}))
			defer ts.Close()

			s := NewClefSender(SenderConfig{URL: ts.URL, LenientStatus: tt.lenient}, ts.Client(), logAdapter.NewNoopLogger())
			err := s.Send(context.Background(), []byte("{\"@t\":\"1\"}\n"))

			if (err != nil) != tt.wantErr {
				t.Fatalf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "rejected") {
				t.Errorf("error %q does not carry the response body", err)
			}
		})
	}
}

func TestClefSender_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	s := NewClefSender(SenderConfig{URL: url}, http.DefaultClient, logAdapter.NewNoopLogger())
	if err := s.Send(context.Background(), []byte("{}\n")); err == nil {
		t.Fatal("Send() error = nil, want connection error")
	}
}
