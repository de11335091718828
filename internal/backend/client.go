package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Service is everything the station needs from the policy service.
type Service interface {
	FetchPolicies(ctx context.Context, userID int64) ([]Policy, error)
	CreatePolicy(ctx context.Context, req CreatePolicyRequest) (Policy, error)
	FetchUser(ctx context.Context, userID int64) (User, error)
}

type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:    "http://127.0.0.1:3000",
		Timeout:    15 * time.Second,
		RetryCount: 2,
		RetryWait:  500 * time.Millisecond,
	}
}

// Client talks to the service over HTTP. Only transport failures and 5xx
// answers are retried.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

var _ Service = (*Client)(nil)

func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4*cfg.RetryWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Client{http: http, logger: logger.With().Str("component", "backend").Logger()}
}

func (c *Client) FetchPolicies(ctx context.Context, userID int64) ([]Policy, error) {
	var body PoliciesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", strconv.FormatInt(userID, 10)).
		SetResult(&body).
		Get("/api/insurance/user/{userId}")
	if err := check(resp, err); err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("fetch policies failed")
		return nil, fmt.Errorf("fetch policies for user %d: %w", userID, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("fetch policies for user %d: %w", userID, ErrUnsuccessful)
	}
	c.logger.Debug().Int64("user_id", userID).Int("policies", len(body.Policies)).Msg("fetched policies")
	return body.Policies, nil
}

func (c *Client) CreatePolicy(ctx context.Context, req CreatePolicyRequest) (Policy, error) {
	var body createPolicyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post("/api/insurance/policy")
	if err := check(resp, err); err != nil {
		c.logger.Warn().Err(err).Str("policy_number", req.PolicyNumber).Msg("create policy failed")
		return Policy{}, fmt.Errorf("create policy %s: %w", req.PolicyNumber, err)
	}
	if !body.Success {
		if body.Message != "" {
			return Policy{}, fmt.Errorf("create policy %s: %w: %s", req.PolicyNumber, ErrUnsuccessful, body.Message)
		}
		return Policy{}, fmt.Errorf("create policy %s: %w", req.PolicyNumber, ErrUnsuccessful)
	}
	c.logger.Info().Str("policy_number", req.PolicyNumber).Int64("user_id", req.UserID).Msg("created policy")
	return body.Policy, nil
}

func (c *Client) FetchUser(ctx context.Context, userID int64) (User, error) {
	var body userResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(userID, 10)).
		SetResult(&body).
		Get("/api/users/{id}")
	if err := check(resp, err); err != nil {
		return User{}, fmt.Errorf("fetch user %d: %w", userID, err)
	}
	if !body.Success {
		return User{}, fmt.Errorf("fetch user %d: %w", userID, ErrUnsuccessful)
	}
	return body.User, nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &StatusError{Code: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	return nil
}
