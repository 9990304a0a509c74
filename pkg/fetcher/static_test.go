package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const page = `<html><head><title> Old Site </title></head>
<body><nav>menu</nav><main id="content"><div class="well">Hello</div></main></body></html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			if r.Header.Get("X-Test") != "" {
				w.Header().Set("X-Echo", r.Header.Get("X-Test"))
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticFetcher_Fetch(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{})

	content, err := f.Fetch(context.Background(), srv.URL+"/page", Options{
		Headers: map[string]string{"X-Test": "1"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content.StatusCode != http.StatusOK {
		t.Errorf("status = %d", content.StatusCode)
	}
	if content.Title != "Old Site" {
		t.Errorf("title = %q", content.Title)
	}
	if !strings.Contains(content.HTML, "<nav>menu</nav>") {
		t.Errorf("expected full page, got %q", content.HTML)
	}
	if !strings.HasPrefix(content.ContentType, "text/html") {
		t.Errorf("content type = %q", content.ContentType)
	}
}

func TestStaticFetcher_Selector(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{})

	content, err := f.Fetch(context.Background(), srv.URL+"/page", Options{Selector: "#content"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content.HTML != `<div class="well">Hello</div>` {
		t.Errorf("HTML = %q", content.HTML)
	}

	_, err = f.Fetch(context.Background(), srv.URL+"/page", Options{Selector: "#missing"})
	if !errors.Is(err, ErrSelectorNotFound) {
		t.Errorf("expected ErrSelectorNotFound, got %v", err)
	}
}

func TestStaticFetcher_NotFound(t *testing.T) {
	srv := newServer(t)
	content, err := NewStatic(StaticConfig{}).Fetch(context.Background(), srv.URL+"/nope", Options{})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if content.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", content.StatusCode)
	}
}

func TestStaticFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStatic(StaticConfig{}).Fetch(ctx, "http://127.0.0.1:1/", Options{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewStatic_Defaults(t *testing.T) {
	f := NewStatic(StaticConfig{})
	if f.config.UserAgent == "" || f.config.Timeout == 0 {
		t.Errorf("expected defaults, got %+v", f.config)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q", f.Type())
	}
}
