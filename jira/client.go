package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiPrefix = "/rest/api/latest"

// Credentials carry the basic-auth identity for one call. Every call is made
// under the credentials of the specific account it acts for.
type Credentials struct {
	Login  string
	Secret string
}

// Client defines the three tracker operations the sync pipeline needs.
type Client interface {
	SearchIssues(ctx context.Context, creds Credentials, req SearchRequest) ([]Issue, error)
	ListWorklogs(ctx context.Context, creds Credentials, issueKey string) ([]Worklog, error)
	CreateWorklog(ctx context.Context, creds Credentials, issueKey string, wl NewWorklog) error
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// StatusError is returned for any response with status >= 300. The run treats
// it as fatal; re-invoking the sync wholesale is safe.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

type SearchRequest struct {
	JQL        string
	MaxResults int
	Fields     []string
}

type searchPayload struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	Issues []Issue `json:"issues"`
}

type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary string       `json:"summary"`
	Project IssueProject `json:"project"`
}

type IssueProject struct {
	Key string `json:"key"`
}

type Worklog struct {
	ID        string `json:"id"`
	Author    Author `json:"author"`
	Started   string `json:"started"`
	Created   string `json:"created"`
	TimeSpent string `json:"timeSpent"`
	Comment   string `json:"comment"`
}

type Author struct {
	Name string `json:"name"`
}

type worklogListResponse struct {
	Worklogs []Worklog `json:"worklogs"`
}

// NewWorklog is the creation payload for one replayed worklog.
type NewWorklog struct {
	Comment   string `json:"comment"`
	Started   string `json:"started"`
	TimeSpent string `json:"timeSpent"`
}

func (c *HTTPClient) SearchIssues(ctx context.Context, creds Credentials, req SearchRequest) ([]Issue, error) {
	if strings.TrimSpace(req.JQL) == "" {
		return nil, errors.New("search query is required")
	}
	payload := searchPayload{
		JQL:        req.JQL,
		StartAt:    0,
		MaxResults: req.MaxResults,
		Fields:     req.Fields,
	}
	var out searchResponse
	if err := c.doJSON(ctx, creds, http.MethodPost, apiPrefix+"/search", payload, &out); err != nil {
		return nil, err
	}
	return out.Issues, nil
}

func (c *HTTPClient) ListWorklogs(ctx context.Context, creds Credentials, issueKey string) ([]Worklog, error) {
	if strings.TrimSpace(issueKey) == "" {
		return nil, errors.New("issue key is required")
	}
	var out worklogListResponse
	path := fmt.Sprintf("%s/issue/%s/worklog", apiPrefix, url.PathEscape(issueKey))
	if err := c.doJSON(ctx, creds, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Worklogs, nil
}

func (c *HTTPClient) CreateWorklog(ctx context.Context, creds Credentials, issueKey string, wl NewWorklog) error {
	if strings.TrimSpace(issueKey) == "" {
		return errors.New("issue key is required")
	}
	path := fmt.Sprintf("%s/issue/%s/worklog", apiPrefix, url.PathEscape(issueKey))
	return c.doJSON(ctx, creds, http.MethodPost, path, wl, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, creds Credentials, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	requestURL := c.baseURL + endpointPath
	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.SetBasicAuth(creds.Login, creds.Secret)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Method:     method,
			Path:       endpointPath,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
