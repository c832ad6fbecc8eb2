package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder implements ports.Geocoder using the OpenStreetMap
// Nominatim search API. Every Resolve issues exactly one lookup (plus
// retries of transient failures); there is no in-process caching.
//
// The geocoder is safe for concurrent use.
type NominatimGeocoder struct {
	session        *http.Client
	baseURL        string
	userAgent      string
	country        string
	maxAttempts    int
	initialBackoff time.Duration
}

type NominatimOption func(*NominatimGeocoder)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) NominatimOption {
	return func(n *NominatimGeocoder) { n.session = c }
}

// WithRetry sets the attempt count and the first backoff delay.
func WithRetry(maxAttempts int, initialBackoff time.Duration) NominatimOption {
	return func(n *NominatimGeocoder) {
		n.maxAttempts = maxAttempts
		n.initialBackoff = initialBackoff
	}
}

func NewNominatimGeocoder(
	baseURL string,
	userAgent string,
	country string,
	opts ...NominatimOption,
) (*NominatimGeocoder, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	g := &NominatimGeocoder{
		session:        &http.Client{Timeout: 10 * time.Second},
		baseURL:        strings.TrimRight(baseURL, "/"),
		userAgent:      userAgent,
		country:        country,
		maxAttempts:    4,
		initialBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}

	return g, nil
}

func (n *NominatimGeocoder) query(city string) string {
	city = strings.Join(strings.Fields(city), " ")
	if city == "" || n.country == "" {
		return city
	}
	return city + ", " + n.country
}

// Resolve returns the coordinates of the best match for city, or
// domain.ErrLocationNotFound when the search has no result.
func (n *NominatimGeocoder) Resolve(ctx context.Context, city string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.resolve")(&err)

	q := n.query(city)
	if q == "" {
		return domain.Coordinates{}, fmt.Errorf("nominatim resolve: %w", domain.ErrLocationNotFound)
	}

	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		return n.newRequest(ctx, q)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim resolve %q: %w", city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("nominatim resolve %q: unexpected status: %d", city, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim resolve %q: decode response: %w", city, err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, domain.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim resolve %q: invalid latitude %q: %w", city, places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim resolve %q: invalid longitude %q: %w", city, places[0].Lon, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
