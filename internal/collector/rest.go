package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"WheelSentinel/internal/model"
	"WheelSentinel/internal/telemetry"
)

// RESTFetcher implements Fetcher against a bearer-token market data REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restFundamentals is the expected JSON shape of /api/v1/fundamentals. Absent values are null.
type restFundamentals struct {
	Name               string   `json:"name"`
	Price              *float64 `json:"price"`
	Beta               *float64 `json:"beta"`
	DividendYield      *float64 `json:"dividend_yield"`
	EPSQuarterlyGrowth *float64 `json:"eps_quarterly_growth"`
}

// restBar is the expected JSON shape of one /api/v1/bars/daily element.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

func (f *RESTFetcher) FetchSnapshot(ctx context.Context, symbol string) (*model.TickerSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/v1/fundamentals?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var fund restFundamentals
	if err := f.getJSON(ctx, endpoint, &fund); err != nil {
		return nil, fmt.Errorf("fetch fundamentals: %w", err)
	}
	return &model.TickerSnapshot{
		Symbol:             symbol,
		DisplayName:        fund.Name,
		CurrentPrice:       fund.Price,
		Beta:               fund.Beta,
		DividendYield:      fund.DividendYield,
		EPSQuarterlyGrowth: fund.EPSQuarterlyGrowth,
	}, nil
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string, rng model.HistoryRange) (*model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&range=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(string(rng)))
	var bars []restBar
	if err := f.getJSON(ctx, endpoint, &bars); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	points := make([]model.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = model.PricePoint{Date: time.Unix(b.Timestamp, 0).UTC(), Close: b.Close}
	}
	// Ensure chronological order
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return &model.PriceSeries{Symbol: symbol, Range: rng, Points: points}, nil
}

func (f *RESTFetcher) getJSON(ctx context.Context, endpoint string, out any) (err error) {
	ctx, span := telemetry.Start(ctx, "rest.get", attribute.String("url.path", urlPath(endpoint)))
	defer func() { telemetry.End(span, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// urlPath strips the query so API keys never reach span attributes.
func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}

// newHTTPClient builds a client with a timeout and optional proxy.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
