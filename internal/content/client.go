package content

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Client talks to the questionnaire backend. It is both a content Source
// and the destination for submitted ratings and saved answers.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client. A zero timeout means 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Instructions(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) Step1Intro(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/step1-intro")
	if err != nil {
		return "", err
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", eris.Wrap(err, "content: decode step1 intro")
	}
	return msg.Message, nil
}

func (c *Client) Questions(ctx context.Context, s questionnaire.Section) ([]questionnaire.Question, error) {
	path := Path(s)
	if path == "" {
		return nil, eris.Errorf("content: section %s has no questions", s)
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	qs, err := ParseJSON(body)
	if err != nil {
		return nil, eris.Wrapf(err, "content: GET %s", path)
	}
	return qs, nil
}

// SubmitRating posts one rating record.
func (c *Client) SubmitRating(ctx context.Context, rec questionnaire.RatingRecord) error {
	_, err := c.post(ctx, "/submit-rating", rec)
	return err
}

// SaveResult is the backend's reply to a saved export.
type SaveResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// SaveAnswers posts the final export record and returns the file name
// the backend stored it under.
func (c *Client) SaveAnswers(ctx context.Context, rec questionnaire.ExportRecord) (SaveResult, error) {
	body, err := c.post(ctx, "/save-answers", rec)
	if err != nil {
		return SaveResult{}, err
	}
	var res SaveResult
	if err := json.Unmarshal(body, &res); err != nil {
		return SaveResult{}, eris.Wrap(err, "content: decode save-answers reply")
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "content: build GET %s", path)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrapf(err, "content: encode POST %s", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "content: build POST %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "content: %s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, eris.Wrapf(err, "content: read %s %s", req.Method, req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("content: %s %s: http %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
