package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"WheelSentinel/internal/model"
	"WheelSentinel/internal/telemetry"
)

const (
	defaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	defaultYahooCookieURL = "https://fc.yahoo.com"
)

// YahooFetcher implements Fetcher using Yahoo Finance public API.
// quoteSummary needs a session cookie plus crumb; the chart API does not.
type YahooFetcher struct {
	BaseURL   string
	CookieURL string
	Client    *http.Client
	SymbolMap map[string]string // maps index aliases to Yahoo tickers

	mu    sync.Mutex
	crumb string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	client := newHTTPClient(proxyURL, timeout)
	if jar, err := cookiejar.New(nil); err == nil {
		client.Jar = jar
	}
	return &YahooFetcher{
		BaseURL:   defaultYahooBaseURL,
		CookieURL: defaultYahooCookieURL,
		Client:    client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NDX":    "^NDX",
			"VIX":    "^VIX",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ShortName          string   `json:"shortName"`
				LongName           string   `json:"longName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooValue is the {raw, fmt} pair quoteSummary uses. Missing fields arrive as {}.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

// yahooSummary is the response structure from Yahoo Finance quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName          string     `json:"shortName"`
				LongName           string     `json:"longName"`
				RegularMarketPrice yahooValue `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryDetail struct {
				Beta          yahooValue `json:"beta"`
				DividendYield yahooValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				Beta                    yahooValue `json:"beta"`
				EarningsQuarterlyGrowth yahooValue `json:"earningsQuarterlyGrowth"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				CurrentPrice yahooValue `json:"currentPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// statusError is a non-200 response from Yahoo.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("yahoo: status %d, body: %s", e.Code, e.Body)
}

func (f *YahooFetcher) fetch(ctx context.Context, u string) (body []byte, err error) {
	ctx, span := telemetry.Start(ctx, "yahoo.get", attribute.String("url.path", urlPath(u)))
	defer func() { telemetry.End(span, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (f *YahooFetcher) get(ctx context.Context, u string, out any) error {
	body, err := f.fetch(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// sessionCrumb returns the cached crumb, running the cookie and getcrumb handshake on first use.
func (f *YahooFetcher) sessionCrumb(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crumb != "" {
		return f.crumb, nil
	}

	// The cookie endpoint answers 404 but still sets the session cookie.
	if f.CookieURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.CookieURL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		if resp, err := f.Client.Do(req); err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	body, err := f.fetch(ctx, f.BaseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", fmt.Errorf("yahoo crumb: empty response")
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) resetCrumb() {
	f.mu.Lock()
	f.crumb = ""
	f.mu.Unlock()
}

// FetchSnapshot reads fundamentals from quoteSummary. Fields Yahoo omits stay nil.
// Price and name missing from quoteSummary, or a refused quoteSummary call,
// fall back to the chart API metadata.
func (f *YahooFetcher) FetchSnapshot(ctx context.Context, symbol string) (*model.TickerSnapshot, error) {
	snap, summaryErr := f.fetchSummary(ctx, symbol)
	if snap == nil {
		snap = &model.TickerSnapshot{Symbol: symbol}
	}
	if snap.CurrentPrice != nil && snap.DisplayName != "" {
		return snap, nil
	}

	if err := f.fillFromChart(ctx, symbol, snap); err != nil && summaryErr != nil {
		return nil, summaryErr
	}
	return snap, nil
}

func (f *YahooFetcher) fetchSummary(ctx context.Context, symbol string) (*model.TickerSnapshot, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,defaultKeyStatistics,financialData",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)))
	if crumb, err := f.sessionCrumb(ctx); err == nil {
		u += "&crumb=" + url.QueryEscape(crumb)
	}

	var summary yahooSummary
	if err := f.get(ctx, u, &summary); err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			f.resetCrumb()
		}
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary returned for %s", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	snap := &model.TickerSnapshot{
		Symbol:             symbol,
		DisplayName:        r.Price.ShortName,
		CurrentPrice:       firstRaw(r.FinancialData.CurrentPrice, r.Price.RegularMarketPrice),
		Beta:               firstRaw(r.SummaryDetail.Beta, r.DefaultKeyStatistics.Beta),
		DividendYield:      r.SummaryDetail.DividendYield.Raw,
		EPSQuarterlyGrowth: r.DefaultKeyStatistics.EarningsQuarterlyGrowth.Raw,
	}
	if snap.DisplayName == "" {
		snap.DisplayName = r.Price.LongName
	}
	return snap, nil
}

// fillFromChart sets a missing price and name from the chart API metadata.
func (f *YahooFetcher) fillFromChart(ctx context.Context, symbol string, snap *model.TickerSnapshot) error {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return err
	}
	if chart.Chart.Error != nil {
		return fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return fmt.Errorf("yahoo: no chart returned for %s", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	if snap.CurrentPrice == nil {
		snap.CurrentPrice = meta.RegularMarketPrice
	}
	if snap.DisplayName == "" {
		snap.DisplayName = meta.ShortName
	}
	if snap.DisplayName == "" {
		snap.DisplayName = meta.LongName
	}
	return nil
}

// FetchHistory reads daily closes from the chart API, oldest first.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, rng model.HistoryRange) (*model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(string(rng)))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}

	series := &model.PriceSeries{Symbol: symbol, Range: rng, Points: []model.PricePoint{}}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return series, nil
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // skip null bars (holidays etc.)
		}
		series.Points = append(series.Points, model.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Date.Before(series.Points[j].Date) })
	return series, nil
}

func firstRaw(values ...yahooValue) *float64 {
	for _, v := range values {
		if v.Raw != nil {
			return v.Raw
		}
	}
	return nil
}
