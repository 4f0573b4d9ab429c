// Package client talks to the engagement HTTP API on behalf of one user.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const defaultTimeout = 10 * time.Second

// ErrTimeout marks a request that ran out of time. It always travels with
// domain.ErrTransient.
var ErrTimeout = errors.New("request timed out")

type Client struct {
	baseURL    string
	userID     int64
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, userID int64, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Like(ctx context.Context, itemID int64) (domain.LikeResult, error) {
	var res domain.LikeResult
	body := map[string]int64{"user_id": c.userID}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/engagement/%d/like", itemID), nil, body, &res)
	return res, err
}

func (c *Client) Unlike(ctx context.Context, itemID int64) (domain.LikeResult, error) {
	var res domain.LikeResult
	q := url.Values{"user_id": {strconv.FormatInt(c.userID, 10)}}
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/engagement/%d/like", itemID), q, nil, &res)
	return res, err
}

func (c *Client) Stats(ctx context.Context, itemIDs []int64) (map[int64]domain.ItemStats, error) {
	parts := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{
		"item_ids": {strings.Join(parts, ",")},
		"user_id":  {strconv.FormatInt(c.userID, 10)},
	}

	var raw map[string]domain.ItemStats
	if err := c.do(ctx, http.MethodGet, "/engagement/stats", q, nil, &raw); err != nil {
		return nil, err
	}

	res := make(map[int64]domain.ItemStats, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad stats key %q", domain.ErrInternalServerError, k)
		}
		res[id] = v
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrBadParamInput, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrTransient, err)
	}
	return nil
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w: %v", domain.ErrTransient, ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransient, err)
}

func statusError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrBadParamInput, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w: %s", domain.ErrTransient, ErrTimeout, msg)
	}
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", domain.ErrTransient, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrInternalServerError, msg)
}
