package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportClient_Features(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pana-video-player", r.URL.Query().Get("item"))
		_, _ = w.Write([]byte(`{"data":{"features":[{"title":"Chapters"}]}}`))
	}))
	defer srv.Close()

	c := NewSupportClient(srv.URL+"/features", "", "", time.Second, zerolog.Nop())
	got, err := c.Features(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Chapters"}]`, string(got))
}

func TestSupportClient_FeaturesMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := NewSupportClient(srv.URL, "", "", time.Second, zerolog.Nop())
	got, err := c.Features(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestSupportClient_CheckSiteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("url") == "https://allowed.example" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"site banned","message":"This site cannot open tickets."}`))
	}))
	defer srv.Close()

	ok := NewSupportClient("", srv.URL, "https://allowed.example", time.Second, zerolog.Nop())
	require.NoError(t, ok.CheckSiteURL(context.Background()))

	banned := NewSupportClient("", srv.URL, "https://spam.example", time.Second, zerolog.Nop())
	err := banned.CheckSiteURL(context.Background())

	var up *UpstreamError
	require.True(t, errors.As(err, &up), "want UpstreamError, got %v", err)
	assert.Equal(t, http.StatusForbidden, up.Status)
	assert.Equal(t, "SITE_BANNED", up.Code)
	assert.Equal(t, "This site cannot open tickets.", up.Message)
}

func TestUpstream_ServerErrorCountsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_upstream_failures_total"}, []string{"upstream"})
	c := NewSupportClient(srv.URL, "", "", time.Second, zerolog.Nop())
	c.SetFailureCounter(failures)

	_, err := c.Features(context.Background())

	var up *UpstreamError
	require.True(t, errors.As(err, &up), "want UpstreamError, got %v", err)
	assert.Equal(t, http.StatusBadGateway, up.Status)
	assert.Equal(t, "upstream down", up.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(failures.WithLabelValues(UpstreamFeatures)))
}

func TestUpstream_BreakerOpens(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSupportClient(srv.URL, "", "", time.Second, zerolog.Nop())
	for range 5 {
		_, _ = c.Features(context.Background())
	}

	_, err := c.Features(context.Background())
	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, http.StatusServiceUnavailable, up.Status)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", up.Code)
	assert.Equal(t, 5, calls)
}

func TestErrorCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"not found", "NOT_FOUND"},
		{"rate-limited", "RATE_LIMITED"},
		{" INVALID_TOKEN ", "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		if got := errorCode(tt.in); got != tt.want {
			t.Errorf("errorCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
