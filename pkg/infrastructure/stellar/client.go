// Package stellar is the HTTP client for the Stellar Burgers REST API. It
// implements the catalog, order, feed and auth gateways of the domain.
package stellar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"burger/pkg/domain/model"
	"burger/pkg/infrastructure/tokenfile"
)

const jwtExpired = "jwt expired"

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, zero disables throttling
	Burst     int
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     tokenfile.Store
}

var (
	_ model.CatalogGateway = &Client{}
	_ model.OrderGateway   = &Client{}
	_ model.FeedGateway    = &Client{}
	_ model.AuthGateway    = &Client{}
)

func New(cfg Config, tokens tokenfile.Store) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		tokens:     tokens,
	}
}

func (c *Client) FetchCatalog(ctx context.Context) ([]model.Part, error) {
	var resp ingredientsResponse
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, false, &resp); err != nil {
		return nil, err
	}

	parts := make([]model.Part, 0, len(resp.Data))
	for _, dto := range resp.Data {
		part, err := dto.toPart()
		if err != nil {
			log.WithFields(log.Fields{"id": dto.ID, "type": dto.Type}).Warn("skipping ingredient with unknown type")
			continue
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func (c *Client) SubmitOrder(ctx context.Context, partIDs []string) (model.Order, error) {
	var resp newOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", newOrderRequest{Ingredients: partIDs}, true, &resp); err != nil {
		return model.Order{}, err
	}

	order := resp.Order.toOrder()
	if order.Name == "" {
		order.Name = resp.Name
	}
	if len(order.Ingredients) == 0 {
		order.Ingredients = partIDs
	}
	return order, nil
}

func (c *Client) FetchOrderByNumber(ctx context.Context, number int) (model.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", number), nil, false, &resp); err != nil {
		return model.Order{}, err
	}
	if len(resp.Orders) == 0 {
		return model.Order{}, errors.Wrapf(model.ErrOrderNotFound, "order %d", number)
	}
	return resp.Orders[0].toOrder(), nil
}

func (c *Client) FetchOwnOrders(ctx context.Context) ([]model.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, "/orders", nil, true, &resp); err != nil {
		return nil, err
	}
	return toOrders(resp.Orders), nil
}

func (c *Client) FetchFeed(ctx context.Context) (model.FeedSnapshot, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, false, &resp); err != nil {
		return model.FeedSnapshot{}, err
	}
	return model.FeedSnapshot{
		Orders:     toOrders(resp.Orders),
		Total:      resp.Total,
		TotalToday: resp.TotalToday,
	}, nil
}

func (c *Client) Register(ctx context.Context, registration model.Registration) (model.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", registration, false, &resp); err != nil {
		return model.User{}, err
	}
	return c.startSession(resp)
}

func (c *Client) Login(ctx context.Context, credentials model.Credentials) (model.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", credentials, false, &resp); err != nil {
		return model.User{}, err
	}
	return c.startSession(resp)
}

func (c *Client) startSession(resp authResponse) (model.User, error) {
	err := c.tokens.Save(tokenfile.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	if err != nil {
		return model.User{}, errors.Wrap(err, "store tokens")
	}
	return model.User{Name: resp.User.Name, Email: resp.User.Email}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		return errors.Wrap(err, "load tokens")
	}

	var resp envelope
	if err := c.do(ctx, http.MethodPost, "/auth/logout", tokenRequest{Token: tokens.RefreshToken}, false, &resp); err != nil {
		return err
	}
	return errors.Wrap(c.tokens.Clear(), "clear tokens")
}

func (c *Client) FetchUser(ctx context.Context) (model.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, true, &resp); err != nil {
		return model.User{}, err
	}
	return model.User{Name: resp.User.Name, Email: resp.User.Email}, nil
}

func (c *Client) UpdateUser(ctx context.Context, update model.UserUpdate) (model.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPatch, "/auth/user", update, true, &resp); err != nil {
		return model.User{}, err
	}
	return model.User{Name: resp.User.Name, Email: resp.User.Email}, nil
}

// do sends one request. Authorized requests that fail with an expired token
// are retried once after a token refresh.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, authorized bool, out interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		payload = data
	}

	status, data, err := c.send(ctx, method, path, payload, authorized)
	if err != nil {
		return err
	}
	if authorized && isExpired(status, data) {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, data, err = c.send(ctx, method, path, payload, authorized)
		if err != nil {
			return err
		}
	}
	return decode(method, path, status, data, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, authorized bool) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, errors.Wrapf(model.ErrTransport, "%s %s: %v", method, path, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	if authorized {
		tokens, err := c.tokens.Load()
		if err != nil {
			return 0, nil, errors.Wrap(err, "load tokens")
		}
		if tokens.Empty() {
			return 0, nil, errors.Wrapf(model.ErrUnauthorized, "%s %s: no session", method, path)
		}
		req.Header.Set("Authorization", tokens.AccessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(model.ErrTransport, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrapf(model.ErrTransport, "read %s %s: %v", method, path, err)
	}

	log.WithFields(log.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("stellar request")

	return resp.StatusCode, data, nil
}

// refresh exchanges the stored refresh token for a new token pair.
func (c *Client) refresh(ctx context.Context) error {
	tokens, err := c.tokens.Load()
	if err != nil {
		return errors.Wrap(err, "load tokens")
	}
	if tokens.RefreshToken == "" {
		return errors.Wrap(model.ErrUnauthorized, "no refresh token")
	}

	payload, err := json.Marshal(tokenRequest{Token: tokens.RefreshToken})
	if err != nil {
		return errors.Wrap(err, "encode refresh request")
	}
	status, data, err := c.send(ctx, http.MethodPost, "/auth/token", payload, false)
	if err != nil {
		return err
	}

	var resp refreshResponse
	if err := decode(http.MethodPost, "/auth/token", status, data, &resp); err != nil {
		return errors.Wrap(model.ErrUnauthorized, err.Error())
	}

	log.Debug("access token refreshed")
	return errors.Wrap(c.tokens.Save(tokenfile.Tokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}), "store tokens")
}

func isExpired(status int, data []byte) bool {
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	return env.Message == jwtExpired
}

func decode(method, path string, status int, data []byte, out interface{}) error {
	var env envelope
	_ = json.Unmarshal(data, &env)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.Wrapf(model.ErrUnauthorized, "%s %s: %s", method, path, env.Message)
	case status < 200 || status >= 300:
		return errors.Wrapf(model.ErrRejected, "%s %s: status %d: %s", method, path, status, env.Message)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(model.ErrTransport, "decode %s %s: %v", method, path, err)
	}
	if !env.Success {
		return errors.Wrapf(model.ErrRejected, "%s %s: %s", method, path, env.Message)
	}
	return nil
}
