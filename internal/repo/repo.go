package repo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/reviewflow/reviewflow/internal/cache"
)

const defaultAPIURL = "https://api.github.com"

const treeCacheTTL = 60 * time.Second

// TreeEntry is one entry of a recursive repository tree listing.
type TreeEntry struct {
	Path string
	Type string // "file" or "dir"
	SHA  string
}

// Commit identifies one commit on a branch.
type Commit struct {
	SHA string `json:"sha"`
}

// ChangedFile is one file touched by a commit.
type ChangedFile struct {
	Path   string `json:"filename"`
	Status string `json:"status"` // added, modified, removed, renamed
}

// CommitDetail holds the changed-file list of a single commit.
type CommitDetail struct {
	SHA   string        `json:"sha"`
	Files []ChangedFile `json:"files"`
}

// Client provides read access to one remote repository via the GitHub REST
// API. A Client is request-scoped: it is bound to a single owner/name pair.
type Client struct {
	owner   string
	name    string
	token   string
	apiURL  string
	httpCli *http.Client
	trees   *cache.TTL
}

// NewClient creates a Client for owner/name. The token comes from the
// GITHUB_TOKEN environment variable and is optional for public
// repositories. GITHUB_API_URL overrides the endpoint.
func NewClient(owner, name string) (*Client, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("repository identifier must be owner/name")
	}
	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		owner:   owner,
		name:    name,
		token:   os.Getenv("GITHUB_TOKEN"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		httpCli: &http.Client{Timeout: 30 * time.Second},
		trees:   cache.New(treeCacheTTL),
	}, nil
}

// ParseFullName splits an "owner/name" identifier into its two segments.
// Exactly two non-empty segments are required.
func ParseFullName(full string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(full), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", full)
	}
	return parts[0], parts[1], nil
}

// GetFile fetches a file's content at ref, decoding base64 when the API
// reports that encoding.
func (c *Client) GetFile(ctx context.Context, path, ref string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.apiURL, c.owner, c.name, escapePath(path), url.QueryEscape(ref))

	body, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", path, err)
	}

	var result struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing content response for %s: %w", path, err)
	}

	if result.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(result.Content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", path, err)
		}
		return string(decoded), nil
	}
	return result.Content, nil
}

// GetTree fetches the full recursive tree at ref. Responses are cached
// briefly: both pipelines may list the same tree within one burst of
// requests.
func (c *Client) GetTree(ctx context.Context, ref string) ([]TreeEntry, error) {
	key := cache.Key(c.owner, c.name, ref)
	body, ok := c.trees.Get(key)
	if !ok {
		u := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
			c.apiURL, c.owner, c.name, url.PathEscape(ref))
		raw, err := c.get(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("fetching tree: %w", err)
		}
		body = string(raw)
		c.trees.Put(key, body)
	}

	var result struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"` // "blob" or "tree"
			SHA  string `json:"sha"`
		} `json:"tree"`
	}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("parsing tree response: %w", err)
	}

	entries := make([]TreeEntry, 0, len(result.Tree))
	for _, e := range result.Tree {
		kind := "dir"
		if e.Type == "blob" {
			kind = "file"
		}
		entries = append(entries, TreeEntry{Path: e.Path, Type: kind, SHA: e.SHA})
	}
	return entries, nil
}

// ListCommits returns the n most recent commits on ref.
func (c *Client) ListCommits(ctx context.Context, ref string, n int) ([]Commit, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits?sha=%s&per_page=%d",
		c.apiURL, c.owner, c.name, url.QueryEscape(ref), n)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	var commits []Commit
	if err := json.Unmarshal(body, &commits); err != nil {
		return nil, fmt.Errorf("parsing commit list: %w", err)
	}
	return commits, nil
}

// GetCommitDetail fetches the changed-file list of one commit.
func (c *Client) GetCommitDetail(ctx context.Context, sha string) (*CommitDetail, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.apiURL, c.owner, c.name, url.PathEscape(sha))
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching commit %s: %w", sha, err)
	}
	var detail CommitDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parsing commit %s: %w", sha, err)
	}
	return &detail, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("not found in %s/%s", c.owner, c.name)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("authentication failed: %s", string(body))
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// escapePath escapes each path segment while keeping separators intact.
func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
