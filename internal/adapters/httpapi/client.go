package httpapi

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

	"github.com/bnema/campus-cli/internal/config"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
	"github.com/bnema/campus-cli/internal/ports"
	"github.com/google/uuid"
)

const (
	maxResponseBytes = 4 << 20
	maxErrorBytes    = 64 << 10
	contentTypeJSON  = "application/json"
	requestIDHeader  = "X-Request-Id"
)

// TokenSource returns the bearer token to attach, or "" for anonymous requests.
type TokenSource func(ctx context.Context) string

type Options struct {
	Origin config.Origin
	// PageOrigin is the origin the caller runs under. An https page is a secure context; a proxy
	// path origin is resolved against it.
	PageOrigin   string
	HTTPClient   *http.Client
	Token        TokenSource
	Logger       *log.Logger
	NewRequestID func() string
}

type Client struct {
	origin     config.Origin
	pageOrigin string
	httpClient *http.Client
	token      TokenSource
	log        *log.Logger
	requestID  func() string
}

var _ ports.Backend = (*Client)(nil)

// NewClient builds the request layer. The origin is fixed for the lifetime of the client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	requestID := opts.NewRequestID
	if requestID == nil {
		requestID = uuid.NewString
	}

	return &Client{
		origin:     opts.Origin,
		pageOrigin: strings.TrimRight(opts.PageOrigin, "/"),
		httpClient: httpClient,
		token:      opts.Token,
		log:        logger.Named("httpapi"),
		requestID:  requestID,
	}
}

func (c *Client) Origin() config.Origin {
	return c.origin
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, jsonBody{value: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, jsonBody{value: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

type jsonBody struct {
	value any
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	op := method + " " + path

	if err := c.checkTransport(op); err != nil {
		return err
	}

	endpoint, err := c.endpoint(path)
	if err != nil {
		return unreachable(op, "build request url", err)
	}

	var reader io.Reader
	if payload, ok := body.(jsonBody); ok {
		encoded, err := json.Marshal(payload.value)
		if err != nil {
			return unreachable(op, "encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return unreachable(op, "create request", err)
	}
	requestID := c.requestID()
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(requestIDHeader, requestID)
	if c.token != nil {
		if token := strings.TrimSpace(c.token(ctx)); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			log.String("op", op), log.String("requestId", requestID), log.ErrorField(err))
		return unreachable(op, "perform request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("request completed",
		log.String("op", op),
		log.String("requestId", requestID),
		log.Int("status", resp.StatusCode),
		log.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.StatusError(op, resp.StatusCode, readErrorMessage(resp.Body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return unreachable(op, "read response body", err)
	}

	return decodeBody(op, data, out)
}

// checkTransport refuses requests a browser would block: a secure page talking to a plain
// http backend that is not reached through the same-origin proxy.
func (c *Client) checkTransport(op string) error {
	if !strings.HasPrefix(strings.ToLower(c.pageOrigin), "https://") {
		return nil
	}
	if c.origin.IsProxyPath() || c.origin.IsSecure() {
		return nil
	}

	c.log.Warn("refusing mixed transport request",
		log.String("op", op),
		log.String("pageOrigin", c.pageOrigin),
		log.String("origin", c.origin.String()))

	return domain.NewError(domain.KindMixedTransport, op,
		fmt.Sprintf("secure page %s cannot call insecure backend %s", c.pageOrigin, c.origin))
}

func (c *Client) endpoint(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("path %q must start with /", path)
	}

	base := c.origin.String()
	if base == "" {
		return "", errors.New("backend origin is not resolved")
	}
	if c.origin.IsProxyPath() {
		if c.pageOrigin == "" {
			return "", fmt.Errorf("proxy path %q requires a page origin", base)
		}
		base = c.pageOrigin + base
	}

	endpoint := strings.TrimRight(base, "/") + path
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}

	return parsed.String(), nil
}

func decodeBody(op string, data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		if out == nil {
			return nil
		}
		return unreachable(op, "decode response", errors.New("empty response body"))
	}

	if out == nil {
		if !json.Valid(data) {
			return unreachable(op, "decode response", errors.New("invalid JSON payload"))
		}
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return unreachable(op, "decode response", err)
	}

	return nil
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// readErrorMessage never fails: an unreadable body yields "".
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBytes))
	if err != nil {
		return ""
	}

	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	return strings.TrimSpace(string(data))
}

func unreachable(op, stage string, err error) *domain.Error {
	return &domain.Error{
		Kind:    domain.KindNetworkUnreachable,
		Op:      op,
		Message: fmt.Sprintf("%s: %v", stage, err),
		Err:     err,
	}
}
