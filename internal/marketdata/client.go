// Package marketdata fetches OHLCV bars from the Yahoo Finance chart
// endpoint and normalizes them into candle series.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"ibexbot/models"
)

// ErrNoData signals an empty or unusable bar series for a ticker. The
// instrument is skipped for the cycle; this is not an engine fault.
var ErrNoData = errors.New("no bar data returned")

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client is an HTTP client for the chart API with rate limiting and
// retry with exponential backoff.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a new bar client. The limiter spaces requests out so
// scanning a whole universe stays under the endpoint's tolerance.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(350*time.Millisecond), 1),
		baseURL:    defaultBaseURL,
		logger:     log.With().Str("component", "marketdata").Logger(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetBars fetches up to days of history for ticker at the given interval
// ("1d", "30m", ...), oldest bar first. Returns ErrNoData when the
// endpoint has nothing usable for the ticker.
func (c *Client) GetBars(ctx context.Context, ticker string, days int, interval string) ([]models.Candle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?range=%dd&interval=%s",
		c.baseURL, url.PathEscape(ticker), days, interval,
	)

	c.logger.Debug().Str("ticker", ticker).Str("url", endpoint).Msg("Fetching bars")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ibexbot/1.0)")

	var body []byte
	operation := func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, fmt.Errorf("after retries: %w", err)
	}

	var data chartResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("ticker", ticker).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if data.Chart.Error != nil {
		c.logger.Warn().Str("ticker", ticker).Str("code", data.Chart.Error.Code).Msg("Chart API error")
		return nil, fmt.Errorf("%w: %s", ErrNoData, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := data.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Bars with a missing close are padding rows, skip them.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.Candle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		candles = append(candles, bar)
	}

	if len(candles) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	c.logger.Debug().Str("ticker", ticker).Int("count", len(candles)).Msg("Fetched bars")
	return candles, nil
}
