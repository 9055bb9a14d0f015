package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sender is the part of the Bot API the rest of the package needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyMarkup any) error
}

type ClientConfig struct {
	Token      string
	APIURL     string // e.g. https://api.telegram.org
	RatePerSec float64
	RetryMax   int
	Timeout    time.Duration
}

// Client talks to the Telegram Bot API through a retrying, rate-limited HTTP client.
type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
}

func NewClient(cfg ClientConfig, log logrus.FieldLogger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.telegram.org"
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = nil
	if log != nil {
		rc.Logger = log
	}

	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		baseURL: strings.TrimRight(cfg.APIURL, "/") + "/bot" + cfg.Token,
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
}

// APIError is a request Telegram answered with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Blocked reports whether the chat can no longer receive messages.
func (e *APIError) Blocked() bool {
	return e.Code == http.StatusForbidden
}

func (c *Client) send(ctx context.Context, method string, payload any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil || !out.OK {
		code := out.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		desc := out.Description
		if desc == "" {
			desc = resp.Status
		}
		return &APIError{Method: method, Code: code, Description: desc}
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyMarkup any) error {
	data := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if replyMarkup != nil {
		data["reply_markup"] = replyMarkup
	}
	return c.send(ctx, "sendMessage", data)
}
