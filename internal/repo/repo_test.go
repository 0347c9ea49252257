package repo

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reviewflow/reviewflow/internal/cache"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		owner:   "acme",
		name:    "widgets",
		apiURL:  serverURL,
		httpCli: &http.Client{Timeout: 5 * time.Second},
		trees:   cache.New(time.Minute),
	}
}

func TestParseFullName(t *testing.T) {
	tests := []struct {
		input   string
		owner   string
		name    string
		wantErr bool
	}{
		{"acme/widgets", "acme", "widgets", false},
		{" acme/widgets ", "acme", "widgets", false},
		{"acme", "", "", true},
		{"acme/", "", "", true},
		{"/widgets", "", "", true},
		{"a/b/c", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		owner, name, err := ParseFullName(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFullName(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFullName(%q): %v", tt.input, err)
			continue
		}
		if owner != tt.owner || name != tt.name {
			t.Errorf("ParseFullName(%q) = (%q, %q)", tt.input, owner, name)
		}
	}
}

func TestGetFile_Base64(t *testing.T) {
	content := "package main\n\nfunc main() {}\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/contents/cmd/main.go" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`,
			base64.StdEncoding.EncodeToString([]byte(content)))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	got, err := c.GetFile(context.Background(), "cmd/main.go", "main")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if got != content {
		t.Errorf("GetFile = %q, want %q", got, content)
	}
}

func TestGetFile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.GetFile(context.Background(), "nope.go", "main"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestGetTree_NormalizesAndCaches(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"tree": [
			{"path": "src", "type": "tree", "sha": "t1"},
			{"path": "src/main.go", "type": "blob", "sha": "b1"}
		]}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	entries, err := c.GetTree(context.Background(), "main")
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Type != "dir" || entries[1].Type != "file" {
		t.Errorf("types = %q, %q; want dir, file", entries[0].Type, entries[1].Type)
	}

	if _, err := c.GetTree(context.Background(), "main"); err != nil {
		t.Fatalf("second GetTree: %v", err)
	}
	if hits != 1 {
		t.Errorf("upstream hit %d times, want 1 (cached)", hits)
	}
}

func TestListCommitsAndDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widgets/commits":
			fmt.Fprint(w, `[{"sha": "abc"}, {"sha": "def"}]`)
		case "/repos/acme/widgets/commits/abc":
			fmt.Fprint(w, `{"sha": "abc", "files": [
				{"filename": "a.go", "status": "modified"},
				{"filename": "b.go", "status": "removed"}
			]}`)
		default:
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	commits, err := c.ListCommits(context.Background(), "main", 2)
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if len(commits) != 2 || commits[0].SHA != "abc" {
		t.Errorf("commits = %v", commits)
	}

	detail, err := c.GetCommitDetail(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetCommitDetail: %v", err)
	}
	if len(detail.Files) != 2 || detail.Files[1].Status != "removed" {
		t.Errorf("detail = %+v", detail)
	}
}
