package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// route records the single request a handler saw.
type recorded struct {
	method string
	path   string
	query  string
	body   string
}

func recordServer(t *testing.T, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		rec.body = string(b)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, nil), rec
}

func TestLoginDecodesRawPayload(t *testing.T) {
	c, rec := recordServer(t, `{"success":true,"data":{
		"userName":"alice","userId":"7","token":"tok","role":"USER",
		"nav":{"categories":{"1":{"id":1,"name":"Work"}},"notesByCategory":{}}
	}}`)

	raw, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.method != "POST" || rec.path != "/auth/login" {
		t.Fatalf("request = %s %s", rec.method, rec.path)
	}
	var sent map[string]string
	if err := json.Unmarshal([]byte(rec.body), &sent); err != nil {
		t.Fatalf("body: %v", err)
	}
	if sent["loginId"] != "alice" || sent["loginPass"] != "secret" {
		t.Fatalf("body = %#v", sent)
	}

	// userId arrives as a string on some backend versions.
	id, err := raw.UserID.Int64()
	if err != nil || id != 7 {
		t.Fatalf("userId = %v (%v)", raw.UserID, err)
	}
	if raw.Nav.Categories["1"].Name != "Work" {
		t.Fatalf("nav = %#v", raw.Nav)
	}
}

func TestAvailabilityEndpoints(t *testing.T) {
	c, rec := recordServer(t, `{"success":true,"data":{"userNameAvailable":true}}`)
	ok, err := c.UserNameAvailable(context.Background(), "a b+c")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if rec.path != "/auth/availability/username" {
		t.Fatalf("path = %q", rec.path)
	}
	if rec.query != "value=a+b%2Bc" {
		t.Fatalf("query = %q", rec.query)
	}

	c2, rec2 := recordServer(t, `{"success":true,"data":{"emailAvailable":false}}`)
	ok, err = c2.EmailAvailable(context.Background(), "x@example.com")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if rec2.path != "/auth/availability/email" {
		t.Fatalf("path = %q", rec2.path)
	}
}

func TestMutationEndpointRoutes(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantBody   map[string]string
	}{
		{
			name:       "rename note",
			call:       func(c *Client) error { return c.RenameNoteTitle(context.Background(), 3, "New") },
			wantMethod: "PATCH",
			wantPath:   "/notes/3/title",
			wantBody:   map[string]string{"title": "New"},
		},
		{
			name:       "update description",
			call:       func(c *Client) error { return c.UpdateNoteDescription(context.Background(), 3, "d") },
			wantMethod: "PATCH",
			wantPath:   "/notes/3/description",
			wantBody:   map[string]string{"description": "d"},
		},
		{
			name:       "delete note",
			call:       func(c *Client) error { return c.DeleteNote(context.Background(), 3) },
			wantMethod: "DELETE",
			wantPath:   "/notes/3",
		},
		{
			name:       "rename toc",
			call:       func(c *Client) error { return c.RenameTocTitle(context.Background(), 100, "T") },
			wantMethod: "PATCH",
			wantPath:   "/notes/toc/100/rename",
			wantBody:   map[string]string{"title": "T"},
		},
		{
			name:       "rebody toc",
			call:       func(c *Client) error { return c.UpdateTocBody(context.Background(), 100, "") },
			wantMethod: "PATCH",
			wantPath:   "/notes/toc/100/rebody",
			wantBody:   map[string]string{"body": ""},
		},
		{
			name:       "update page text",
			call:       func(c *Client) error { return c.UpdatePageText(context.Background(), 1000, "t") },
			wantMethod: "PATCH",
			wantPath:   "/notes/pages/1000/text",
			wantBody:   map[string]string{"extractedText": "t"},
		},
		{
			name:       "rename category",
			call:       func(c *Client) error { return c.RenameCategory(context.Background(), 1, "N") },
			wantMethod: "PATCH",
			wantPath:   "/notes/categories/1",
			wantBody:   map[string]string{"name": "N"},
		},
		{
			name:       "delete category",
			call:       func(c *Client) error { return c.DeleteCategory(context.Background(), 1) },
			wantMethod: "DELETE",
			wantPath:   "/notes/categories/1",
		},
		{
			name:       "delete account",
			call:       func(c *Client) error { return c.DeleteAccount(context.Background()) },
			wantMethod: "DELETE",
			wantPath:   "/auth/deleteUser",
		},
		{
			name:       "logout",
			call:       func(c *Client) error { return c.Logout(context.Background()) },
			wantMethod: "GET",
			wantPath:   "/auth/logout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := recordServer(t, `{"success":true,"data":null}`)
			if err := tt.call(c); err != nil {
				t.Fatalf("call: %v", err)
			}
			if rec.method != tt.wantMethod || rec.path != tt.wantPath {
				t.Fatalf("request = %s %s, want %s %s", rec.method, rec.path, tt.wantMethod, tt.wantPath)
			}
			if tt.wantBody != nil {
				var sent map[string]string
				if err := json.Unmarshal([]byte(rec.body), &sent); err != nil {
					t.Fatalf("body %q: %v", rec.body, err)
				}
				for k, v := range tt.wantBody {
					if sent[k] != v {
						t.Fatalf("body[%s] = %q, want %q", k, sent[k], v)
					}
				}
			}
		})
	}
}

func TestFetchNoteDetailAssemblesProjection(t *testing.T) {
	c, rec := recordServer(t, `{"success":true,"data":{
		"note":{"id":10,"categoryId":1,"userSeqNo":3,"title":"Compilers","description":"d","originalFilename":"c.pdf"},
		"toc":[{"id":100,"indexNumber":1,"startIndex":1,"endIndex":5,"title":"Intro"}],
		"page":[{"id":1000,"pageNumber":1,"imageUrl":"/img/1.png","extractedText":"text"}]
	}}`)

	detail, toc, err := c.FetchNoteDetail(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchNoteDetail: %v", err)
	}
	if rec.method != "GET" || rec.path != "/notes/3" {
		t.Fatalf("request = %s %s", rec.method, rec.path)
	}
	if detail.ID != 10 || detail.Title != "Compilers" || detail.OriginalFilename != "c.pdf" {
		t.Fatalf("detail = %+v", detail)
	}
	if len(detail.PageItems) != 1 || detail.PageItems[0].ExtractedText != "text" {
		t.Fatalf("pages = %#v", detail.PageItems)
	}
	// TOC is returned raw; normalization happens elsewhere.
	if len(toc) != 1 || toc[0].StartIndex != 1 {
		t.Fatalf("toc = %#v", toc)
	}
}

func TestFetchCategoryPrompts(t *testing.T) {
	c, rec := recordServer(t, `{"success":true,"data":{"prompt1":"toc prompt","prompt2":"page prompt"}}`)

	prompts, err := c.FetchCategoryPrompts(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchCategoryPrompts: %v", err)
	}
	if rec.path != "/notes/categories/1/prompts" {
		t.Fatalf("path = %q", rec.path)
	}
	if prompts.TocPrompt != "toc prompt" || prompts.PagePrompt != "page prompt" {
		t.Fatalf("prompts = %+v", prompts)
	}
}
