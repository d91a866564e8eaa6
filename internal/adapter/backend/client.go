package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"marketchat/pkg/errors"
)

// Client issues REST calls against the marketplace backend. It holds no
// credential of its own; callers pass the bearer token per request so the
// authentication gate stays in the usecase layer.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: r}
}

func (c *Client) request(token string) *resty.Request {
	req := c.http.R()
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// serverMessage digs the backend's human-readable message out of an error
// body. Bodies without one yield "".
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error.Message
}

// checkResponse maps the two failure classes every endpoint shares: transport
// errors and non-2xx statuses. Envelope validation stays per endpoint.
func checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		return errors.Transport(fmt.Sprintf("%s: request failed", op), err)
	}
	if resp.IsError() {
		return errors.ServerRejected(serverMessage(resp.Body()), resp.StatusCode())
	}
	return nil
}
