package practicum

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

var maxBodySize int64 = 4 << 20

// Client queries the homework review API on behalf of one student.
type Client struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
}

func NewClient(endpoint, token string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		Token:    token,
		HTTP:     httpClient,
	}
}

// Fetch returns the statuses of homeworks updated since the given unix time.
func (c *Client) Fetch(ctx context.Context, since int64) (gjson.Result, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return gjson.Result{}, &TransportError{Endpoint: c.Endpoint, Err: err}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(since, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return gjson.Result{}, &TransportError{Endpoint: c.Endpoint, Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return gjson.Result{}, &TransportError{Endpoint: c.Endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, &StatusCodeError{Endpoint: c.Endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return gjson.Result{}, &TransportError{Endpoint: c.Endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > maxBodySize {
		return gjson.Result{}, &TransportError{Endpoint: c.Endpoint, Err: fmt.Errorf("%w (limit %d bytes)", ErrResponseTooLarge, maxBodySize)}
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &DecodeError{Endpoint: c.Endpoint, Body: truncate(string(body), 200)}
	}
	return gjson.ParseBytes(body), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return &http.Client{Timeout: 30 * time.Second}
	}
	return c.HTTP
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
