package pushover

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noahxzhu/homework-notify/internal/notify"
)

const DefaultAPIURL = "https://api.pushover.net/1/messages.json"

type Client struct {
	Token  string
	User   string
	Title  string
	APIURL string
	HTTP   *http.Client
}

func NewClient(token, user string) *Client {
	return &Client{
		Token:  token,
		User:   user,
		Title:  "Homework review",
		APIURL: DefaultAPIURL,
	}
}

func (c *Client) Send(ctx context.Context, message string) error {
	params := url.Values{}
	params.Set("token", c.Token)
	params.Set("user", c.User)
	params.Set("title", c.Title)
	params.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, strings.NewReader(params.Encode()))
	if err != nil {
		return &notify.NotificationError{Transport: "pushover", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return &notify.NotificationError{Transport: "pushover", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return &notify.NotificationError{
			Transport: "pushover",
			Err:       fmt.Errorf("status %s, body %s", resp.Status, string(body)),
		}
	}

	return nil
}
