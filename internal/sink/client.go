package sink

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Config defines the remote endpoint and transport behavior.
type Config struct {
	URL     string
	Timeout time.Duration
	// RetryMax applies to the idempotent bulk GET only. Pushes are never
	// retried automatically: a failed sync is a terminal state for that
	// action and the user re-triggers it.
	RetryMax int
}

// Client is the remote quote-log client.
type Client struct {
	http   *resty.Client
	url    string
	logger *zap.Logger
}

// NewClient builds the client on a retryable transport with resty on top.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0 // resty owns retry policy
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", "QuoteLogger/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	// Only reads are safe to replay.
	restyClient.AddRetryCondition(func(r *resty.Response, err error) bool {
		if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
			return false
		}
		return err != nil || r.StatusCode() >= 500
	})

	return &Client{http: restyClient, url: cfg.URL, logger: logger}
}

type pushBody struct {
	Rows any `json:"rows"`
}

// push posts {rows: ...} and validates the sink's success envelope. Any
// other shape or status is a failure and leaves caller state untouched.
func (c *Client) push(ctx context.Context, rows any) (SyncResult, error) {
	body, err := sonic.Marshal(pushBody{Rows: rows})
	if err != nil {
		return SyncResult{}, fmt.Errorf("encode rows: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.url)
	if err != nil {
		return SyncResult{}, fmt.Errorf("sink post: %w", err)
	}
	if !resp.IsSuccess() {
		return SyncResult{}, fmt.Errorf("sink post: unexpected status %d", resp.StatusCode())
	}

	var result SyncResult
	if err := sonic.Unmarshal(resp.Body(), &result); err != nil {
		return SyncResult{}, fmt.Errorf("sink post: undecodable response: %w", err)
	}
	if result.Result != "success" {
		return SyncResult{}, fmt.Errorf("sink post: result %q", result.Result)
	}
	return result, nil
}

// PushRows syncs full records to the sink.
func (c *Client) PushRows(ctx context.Context, rows []Row) (SyncResult, error) {
	res, err := c.push(ctx, rows)
	if err != nil {
		return res, err
	}
	c.logger.Info("synced rows",
		zap.Int("pushed", len(rows)),
		zap.Int("added", res.Added),
		zap.Int("status_updates", res.StatusUpdates),
		zap.Int("rate_changes", res.RateChanges),
	)
	return res, nil
}

// PushPatches sends minimal-diff updates to the sink.
func (c *Client) PushPatches(ctx context.Context, patches []Patch) (SyncResult, error) {
	res, err := c.push(ctx, patches)
	if err != nil {
		return res, err
	}
	c.logger.Info("synced patches", zap.Int("pushed", len(patches)))
	return res, nil
}

// Fetch returns up to limit stored rows for one team. A response without a
// rows array signals failure even on HTTP 200.
func (c *Client) Fetch(ctx context.Context, team string, limit int) ([]Row, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("team", team).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("sink fetch: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("sink fetch: unexpected status %d", resp.StatusCode())
	}

	var body struct {
		Rows *[]Row `json:"rows"`
	}
	if err := sonic.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("sink fetch: undecodable response: %w", err)
	}
	if body.Rows == nil {
		return nil, fmt.Errorf("sink fetch: response has no rows array")
	}
	return *body.Rows, nil
}
