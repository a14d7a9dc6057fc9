package sapclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
)

// maxResponseSize is the maximum allowed Service Layer response size (10MB).
const maxResponseSize = 10 * 1024 * 1024

const (
	// pageSize is the $top batch size; the Service Layer handles up to 500.
	pageSize = 500
	// defaultFetchLimit caps GetAll when the caller passes no limit.
	defaultFetchLimit = 10000
)

// Client is a typed request/response layer over an authenticated Service
// Layer session. All calls are synchronous and blocking; the only retry is
// the single re-login replay after a 401.
type Client struct {
	config     *Config
	store      SessionStore
	logger     *zap.Logger
	authClient *http.Client
	dataClient *http.Client

	// mu guards session and serializes login, so concurrent callers that
	// each observe a stale session do not authenticate twice.
	mu      sync.Mutex
	session *Session
}

// New creates a Service Layer client. The session store may be shared
// process-wide; pass an in-memory store for tests.
func New(cfg *Config, store SessionStore, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Service Layer deployments commonly run on self-signed certificates.
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
	}

	return &Client{
		config: cfg,
		store:  store,
		logger: logger,
		authClient: &http.Client{
			Timeout:   time.Duration(cfg.AuthTimeoutSeconds) * time.Second,
			Transport: transport,
		},
		dataClient: &http.Client{
			Timeout:   time.Duration(cfg.DataTimeoutSeconds) * time.Second,
			Transport: transport,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

// EnsureSession returns a session valid for at least the grace window,
// logging in when the local and cached sessions are both stale.
func (c *Client) EnsureSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureSessionLocked(ctx)
}

func (c *Client) ensureSessionLocked(ctx context.Context) (*Session, error) {
	now := time.Now()
	if c.session.ValidAt(now) {
		return c.session, nil
	}
	if c.store != nil {
		cached, err := c.store.Load(ctx)
		if err != nil {
			c.logger.Warn("session cache load failed", zap.Error(err))
		} else if cached.ValidAt(now) {
			c.session = cached
			return cached, nil
		}
	}
	return c.loginLocked(ctx)
}

// Login authenticates against the Service Layer and caches the session.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) (*Session, error) {
	payload, err := json.Marshal(map[string]string{
		"CompanyDB": c.config.CompanyDB,
		"UserName":  c.config.Username,
		"Password":  c.config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("sapclient: marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+apiRoot+"Login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sap.ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.authClient.Do(req)
	if err != nil {
		c.logger.Error("service layer login failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", sap.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sap.ErrAuthFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("service layer login rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return nil, fmt.Errorf("%w: status %d", sap.ErrAuthFailed, resp.StatusCode)
	}

	session := &Session{
		Cookies:   make(map[string]string),
		ExpiresAt: time.Now().Add(sessionLifetime),
	}
	for _, cookie := range resp.Cookies() {
		session.Cookies[cookie.Name] = cookie.Value
		if cookie.Name == sessionCookieName {
			session.SessionID = cookie.Value
		}
	}
	if session.SessionID == "" {
		return nil, fmt.Errorf("%w: login response carried no %s cookie", sap.ErrAuthFailed, sessionCookieName)
	}

	c.session = session
	if c.store != nil {
		if err := c.store.Save(ctx, session); err != nil {
			c.logger.Warn("session cache save failed", zap.Error(err))
		}
	}

	c.logger.Info("service layer login successful")
	return session, nil
}

// Logout best-effort posts to the logout endpoint and clears local and
// cached session state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+apiRoot+"Logout", nil)
		if err == nil {
			attachCookies(req, session)
			if resp, err := c.authClient.Do(req); err == nil {
				resp.Body.Close()
			}
		}
	}

	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn("session cache clear failed", zap.Error(err))
		}
	}
}

// invalidateSession drops the local and cached session after a 401.
func (c *Client) invalidateSession(ctx context.Context) {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn("session cache clear failed", zap.Error(err))
		}
	}
}

// ---------------------------------------------------------------------------
// Request layer
// ---------------------------------------------------------------------------

// Request issues an authenticated Service Layer call and returns the raw
// JSON body. On 401 the session is discarded and the request replayed once
// after a fresh login; a second 401 surfaces as ErrSessionExpired.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, params map[string]string) (json.RawMessage, error) {
	session, err := c.EnsureSession(ctx)
	if err != nil {
		return nil, err
	}

	raw, status, err := c.do(ctx, session, method, endpoint, body, params)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.invalidateSession(ctx)
		session, err = c.Login(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: re-login failed: %v", sap.ErrSessionExpired, err)
		}
		raw, status, err = c.do(ctx, session, method, endpoint, body, params)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, sap.ErrSessionExpired
		}
	}

	if status >= 400 {
		apiErr := &sap.APIError{StatusCode: status, Message: upstreamMessage(raw)}
		c.logger.Error("service layer request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	return raw, nil
}

// do performs one HTTP round trip and returns the body and status.
func (c *Client) do(ctx context.Context, session *Session, method, endpoint string, body any, params map[string]string) (json.RawMessage, int, error) {
	fullURL := c.config.BaseURL + apiRoot + strings.TrimLeft(endpoint, "/")
	if query := buildODataQuery(params); query != "" {
		if strings.Contains(fullURL, "?") {
			fullURL += "&" + query
		} else {
			fullURL += "?" + query
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("sapclient: marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", sap.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	attachCookies(req, session)

	c.logger.Debug("service layer request",
		zap.String("method", method),
		zap.String("url", fullURL),
	)

	resp, err := c.dataClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", sap.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", sap.ErrInvalidResponse, err)
	}
	return raw, resp.StatusCode, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, endpoint, nil, params)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, endpoint, body, nil)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPatch, endpoint, body, nil)
}

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

// collectionEnvelope is the Service Layer's collection response shape. The
// continuation link appears under either of two observed key spellings.
type collectionEnvelope struct {
	Value          []json.RawMessage `json:"value"`
	NextLink       string            `json:"@odata.nextLink"`
	NextLinkLegacy string            `json:"odata.nextLink"`
}

// GetAll follows $skip/$top pagination (and server continuation links when
// present) until the result set is exhausted or limit records accumulated.
// limit <= 0 applies the default cap.
func (c *Client) GetAll(ctx context.Context, endpoint string, params map[string]string, limit int) ([]json.RawMessage, error) {
	if limit <= 0 {
		limit = defaultFetchLimit
	}

	results := make([]json.RawMessage, 0, pageSize)
	skip := 0
	nextEndpoint := endpoint
	nextParams := cloneParams(params)
	followingLink := false

	for {
		if !followingLink {
			if _, ok := nextParams["$skip"]; !ok {
				nextParams["$skip"] = strconv.Itoa(skip)
			}
			if _, ok := nextParams["$top"]; !ok {
				nextParams["$top"] = strconv.Itoa(pageSize)
			}
		}

		raw, err := c.Get(ctx, nextEndpoint, nextParams)
		if err != nil {
			c.logger.Error("paginated fetch failed",
				zap.String("endpoint", nextEndpoint),
				zap.Int("skip", skip),
				zap.Error(err),
			)
			return nil, err
		}

		var env collectionEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", sap.ErrInvalidResponse, err)
		}

		count := len(env.Value)
		results = append(results, env.Value...)

		link := env.NextLink
		if link == "" {
			link = env.NextLinkLegacy
		}

		if link != "" && len(results) < limit {
			// The link is self-contained; drop the locally tracked paging.
			nextEndpoint = normalizeNextLink(link)
			nextParams = map[string]string{}
			followingLink = true
			continue
		}

		if !followingLink && count == pageSize {
			skip += pageSize
			if skip < limit && len(results) < limit {
				nextEndpoint = endpoint
				nextParams = cloneParams(params)
				continue
			}
		}
		break
	}

	c.logger.Debug("paginated fetch complete",
		zap.String("endpoint", endpoint),
		zap.Int("total", len(results)),
	)
	return results, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func attachCookies(req *http.Request, session *Session) {
	if session == nil || len(session.Cookies) == 0 {
		return
	}
	pairs := make([]string, 0, len(session.Cookies))
	for name, value := range session.Cookies {
		pairs = append(pairs, name+"="+value)
	}
	req.Header.Set("Cookie", strings.Join(pairs, "; "))
}

func cloneParams(params map[string]string) map[string]string {
	clone := make(map[string]string, len(params)+2)
	for k, v := range params {
		clone[k] = v
	}
	return clone
}

// upstreamMessage extracts the Service Layer's error.message.value envelope,
// falling back to a generic message.
func upstreamMessage(raw json.RawMessage) string {
	var envelope struct {
		Error struct {
			Message struct {
				Value string `json:"value"`
			} `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message.Value != "" {
		return envelope.Error.Message.Value
	}
	return "unknown error"
}
