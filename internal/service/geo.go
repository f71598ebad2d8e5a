package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/sf-developer/video-player/internal/model"
)

// GeoClient resolves IP addresses through the ipinfo API.
type GeoClient struct {
	baseURL string
	up      *upstream
}

func NewGeoClient(baseURL string, timeout time.Duration, log zerolog.Logger) *GeoClient {
	return &GeoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		up:      newUpstream(UpstreamGeo, timeout, log),
	}
}

// SetFailureCounter attaches the upstream failure counter.
func (g *GeoClient) SetFailureCounter(failures *prometheus.CounterVec) {
	g.up.failures = failures
}

type ipinfoResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Postal  string `json:"postal"`
}

// Lookup returns the location of ip.
func (g *GeoClient) Lookup(ctx context.Context, ip, token string) (*model.Geo, error) {
	if token == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := g.up.get(ctx, g.endpoint(ip, token), nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, toUpstreamError(resp, "GEO_LOOKUP_FAILED")
	}

	var r ipinfoResponse
	if err := json.Unmarshal(resp.body, &r); err != nil {
		return nil, fmt.Errorf("decode geo response: %w", err)
	}

	geo := &model.Geo{
		CountryName: CountryName(r.Country),
		Country:     r.Country,
		Region:      r.Region,
		City:        r.City,
		Postal:      r.Postal,
	}
	geo.Latitude, geo.Longitude = parseLoc(r.Loc)
	return geo, nil
}

// TestToken checks an API key against the root endpoint. A rejected key is
// reported as an UpstreamError carrying the upstream status and message.
func (g *GeoClient) TestToken(ctx context.Context, token string) error {
	resp, err := g.up.get(ctx, g.endpoint("", token), nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return toUpstreamError(resp, "TEST_FAILED")
	}
	return nil
}

func (g *GeoClient) endpoint(ip, token string) string {
	u := g.baseURL
	if ip != "" {
		u += "/" + url.PathEscape(ip)
	}
	return u + "?token=" + url.QueryEscape(token)
}

// CountryName returns the English name of an ISO 3166 region code, or the
// code itself when unknown.
func CountryName(code string) string {
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}

// parseLoc splits an ipinfo "lat,lon" pair.
func parseLoc(loc string) (lat, lon float64) {
	parts := strings.SplitN(loc, ",", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	lat, _ = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, _ = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	return lat, lon
}
