package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

const (
	apiKeyHeaderName = "x-api-key"
	maxErrorBodySize = 512
)

// HTTPClient talks to a Cat API compatible REST service.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

// NewCatAPIClient builds a client for the service rooted at baseURL
// (e.g. https://api.thecatapi.com/v1). An empty apiKey sends no key header.
func NewCatAPIClient(baseURL, apiKey string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	return &HTTPClient{
		baseURL: u,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Ping checks that the service answers with a success status.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var images []wireImage
	return c.do(ctx, http.MethodGet, "/images/search", url.Values{"limit": {"1"}}, nil, &images)
}

func (c *HTTPClient) FetchImages(ctx context.Context, limit int) ([]models.CatImage, error) {
	var images []wireImage
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, "/images/search", q, nil, &images); err != nil {
		return nil, err
	}

	result := make([]models.CatImage, 0, len(images))
	for _, img := range images {
		result = append(result, models.CatImage{ID: string(img.ID), URL: img.URL, Width: img.Width, Height: img.Height})
	}
	return result, nil
}

func (c *HTTPClient) FetchVotes(ctx context.Context, voterID string) ([]models.Vote, error) {
	var votes []wireVote
	if err := c.do(ctx, http.MethodGet, "/votes", url.Values{"sub_id": {voterID}}, nil, &votes); err != nil {
		return nil, err
	}

	result := make([]models.Vote, 0, len(votes))
	for _, v := range votes {
		result = append(result, v.toModel(voterID, c.now()))
	}
	return result, nil
}

func (c *HTTPClient) SubmitVote(ctx context.Context, req models.VotingRequest, voterID string) (models.Vote, error) {
	body := createVoteRequest{ImageID: req.ImageID, SubID: voterID, Value: int(req.Value)}

	var resp wireVote
	if err := c.do(ctx, http.MethodPost, "/votes", nil, body, &resp); err != nil {
		return models.Vote{}, err
	}
	if resp.ID == "" {
		return models.Vote{}, fmt.Errorf("%w: response carries no vote id", ErrService)
	}

	if resp.ImageID == "" {
		resp.ImageID = req.ImageID
	}
	if resp.Value == 0 {
		resp.Value = int(req.Value)
	}
	return resp.toModel(voterID, c.now()), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeaderName, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%w: %s %s: %s: %s", ErrService, method, path, resp.Status, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode response: %w", ErrService, method, path, err)
	}
	return nil
}

type createVoteRequest struct {
	ImageID string `json:"image_id"`
	SubID   string `json:"sub_id"`
	Value   int    `json:"value"`
}

// flexibleID accepts both JSON strings and numbers; the service assigns
// numeric vote ids while image ids are strings.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

type wireVote struct {
	ID        flexibleID `json:"id"`
	ImageID   string     `json:"image_id"`
	SubID     string     `json:"sub_id"`
	Value     int        `json:"value"`
	CreatedAt *time.Time `json:"created_at"`
}

// toModel converts the wire form. The service may omit sub_id and
// created_at; they are filled from the request and the local clock.
func (w wireVote) toModel(voterID string, now time.Time) models.Vote {
	v := models.Vote{
		ID:        string(w.ID),
		ImageID:   w.ImageID,
		VoterID:   w.SubID,
		Value:     models.VoteDown,
		CreatedAt: now,
	}
	if v.VoterID == "" {
		v.VoterID = voterID
	}
	if w.Value > 0 {
		v.Value = models.VoteUp
	}
	if w.CreatedAt != nil {
		v.CreatedAt = *w.CreatedAt
	}
	return v
}

type wireImage struct {
	ID     flexibleID `json:"id"`
	URL    string     `json:"url"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
}
