package upload

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mynote-cli/internal/api"
)

func TestStartStreamsProgressEndToEnd(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if got := r.FormValue("noteTitle"); got != "Week 3" {
			t.Errorf("noteTitle = %q", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("no flusher")
		}
		for _, frame := range []string{
			`{"code":"UPLOAD_DONE","message":"uploaded","finished":false}`,
			`{"code":"OCR_DONE","message":"ocr complete","finished":false}`,
			`{"code":"COMPLETE","message":"done","noteId":42,"finished":true}`,
		} {
			fmt.Fprintf(w, "data: %s\n\n", frame)
			f.Flush()
		}
	}))
	t.Cleanup(srv.Close)

	c := api.New(srv.URL, time.Second, func() string { return "tok" })
	req := Request{
		File:               strings.NewReader("%PDF-1.4"),
		FileName:           "lecture.pdf",
		NoteTitle:          "Week 3",
		ExistingCategoryID: 7,
	}

	var events []ProcessEvent
	if err := Start(context.Background(), c, req, func(e ProcessEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if gotPath != "/notes/upload/process-stream" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAccept != "text/event-stream" {
		t.Fatalf("Accept = %q", gotAccept)
	}
	if len(events) != 3 {
		t.Fatalf("events = %#v", events)
	}
	last := events[2]
	if last.Code != CodeComplete || !last.Finished || last.NoteID == nil || *last.NoteID != 42 {
		t.Fatalf("terminal event = %+v", last)
	}
}

func TestStartValidatesBeforeAnyRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	c := api.New(srv.URL, time.Second, nil)
	err := Start(context.Background(), c, Request{}, func(ProcessEvent) {})
	if err == nil {
		t.Fatal("want validation error")
	}
	if called {
		t.Fatal("request sent despite invalid input")
	}
}
