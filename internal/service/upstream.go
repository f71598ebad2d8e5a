package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Upstream names used in logs and metrics.
const (
	UpstreamGeo       = "geo"
	UpstreamFeatures  = "features"
	UpstreamBannedURL = "banned_url"
)

const maxUpstreamBody = 1 << 20

// upstream is an HTTP client for one third-party endpoint guarded by a
// circuit breaker. Responses below 500 do not count as breaker failures.
type upstream struct {
	name     string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*upstreamResponse]
	failures *prometheus.CounterVec
	log      zerolog.Logger
}

type upstreamResponse struct {
	status int
	body   []byte
}

func newUpstream(name string, timeout time.Duration, log zerolog.Logger) *upstream {
	u := &upstream{
		name:   name,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
	u.breaker = gobreaker.NewCircuitBreaker[*upstreamResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("upstream", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
	return u
}

// get performs a GET and returns the status and body. Transport errors,
// 5xx responses and an open breaker are counted as failures.
func (u *upstream) get(ctx context.Context, rawURL string, header http.Header) (*upstreamResponse, error) {
	resp, err := u.breaker.Execute(func() (*upstreamResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range header {
			req.Header[k] = v
		}

		res, err := u.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, maxUpstreamBody))
		if err != nil {
			return nil, err
		}
		out := &upstreamResponse{status: res.StatusCode, body: body}
		if res.StatusCode >= 500 {
			return out, fmt.Errorf("%s returned %d", u.name, res.StatusCode)
		}
		return out, nil
	})

	if err != nil {
		if u.failures != nil {
			u.failures.WithLabelValues(u.name).Inc()
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &UpstreamError{Status: http.StatusServiceUnavailable, Code: "UPSTREAM_UNAVAILABLE", Message: u.name + " is temporarily unavailable"}
		}
		if resp != nil {
			return resp, nil
		}
		return nil, &UpstreamError{Status: http.StatusBadGateway, Code: "UPSTREAM_ERROR", Message: err.Error()}
	}
	return resp, nil
}

// upstreamErrorBody covers both the {code, message} and the
// {error: {message}} error shapes.
type upstreamErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   *struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}

// toUpstreamError converts a non-200 response into an UpstreamError.
func toUpstreamError(resp *upstreamResponse, fallbackCode string) *UpstreamError {
	e := &UpstreamError{Status: resp.status, Code: fallbackCode, Message: http.StatusText(resp.status)}

	var body upstreamErrorBody
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return e
	}
	if body.Code != "" {
		e.Code = errorCode(body.Code)
	}
	switch {
	case body.Message != "":
		e.Message = body.Message
	case body.Error != nil && body.Error.Message != "":
		e.Message = body.Error.Message
	}
	return e
}

// errorCode normalizes an upstream code such as "not found" to NOT_FOUND.
func errorCode(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return strings.ToUpper(s)
}

// SupportClient talks to the vendor support endpoints.
type SupportClient struct {
	featuresURL  string
	bannedURL    string
	siteURL      string
	features     *upstream
	bannedChecks *upstream
}

func NewSupportClient(featuresURL, bannedURLCheckURL, siteURL string, timeout time.Duration, log zerolog.Logger) *SupportClient {
	return &SupportClient{
		featuresURL:  featuresURL,
		bannedURL:    bannedURLCheckURL,
		siteURL:      siteURL,
		features:     newUpstream(UpstreamFeatures, timeout, log),
		bannedChecks: newUpstream(UpstreamBannedURL, timeout, log),
	}
}

// SetFailureCounter attaches the upstream failure counter.
func (c *SupportClient) SetFailureCounter(failures *prometheus.CounterVec) {
	c.features.failures = failures
	c.bannedChecks.failures = failures
}

// Features returns the product feature list.
func (c *SupportClient) Features(ctx context.Context) (json.RawMessage, error) {
	u, err := url.Parse(c.featuresURL)
	if err != nil {
		return nil, fmt.Errorf("parse features url: %w", err)
	}
	q := u.Query()
	q.Set("item", "pana-video-player")
	u.RawQuery = q.Encode()

	resp, err := c.features.get(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, toUpstreamError(resp, "FEATURES_ERROR")
	}

	var body struct {
		Data struct {
			Features json.RawMessage `json:"features"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if len(body.Data.Features) == 0 {
		return json.RawMessage("[]"), nil
	}
	return body.Data.Features, nil
}

// CheckSiteURL asks the support service whether this site may open tickets.
func (c *SupportClient) CheckSiteURL(ctx context.Context) error {
	header := http.Header{}
	header.Set("url", c.siteURL)

	resp, err := c.bannedChecks.get(ctx, c.bannedURL, header)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return toUpstreamError(resp, "SITE_BANNED")
	}
	return nil
}
