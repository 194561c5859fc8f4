package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"RTMonitor/internal/model"
)

// OandaFetcher implements Fetcher against the OANDA v3 REST API.
type OandaFetcher struct {
	BaseURL   string
	APIKey    string
	AccountID string

	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewOandaFetcher creates a rate-limited fetcher with optional proxy support.
func NewOandaFetcher(baseURL, apiKey, accountID, proxyURL string) *OandaFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OandaFetcher{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		AccountID: accountID,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5), // 5 requests per second
		logger:  log.With().Str("component", "oanda").Logger(),
	}
}

func (f *OandaFetcher) Name() string { return "oanda" }

// oandaCandle is the broker's candle shape; prices arrive as strings.
type oandaCandle struct {
	Time     string `json:"time"`
	Complete bool   `json:"complete"`
	Mid      struct {
		O string `json:"o"`
		H string `json:"h"`
		L string `json:"l"`
		C string `json:"c"`
	} `json:"mid"`
}

// FetchCandles retrieves mid-price candles, oldest first.
func (f *OandaFetcher) FetchCandles(ctx context.Context, instrument string, granularity model.Granularity, count int) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/v3/instruments/%s/candles?count=%d&granularity=%s&price=M",
		f.BaseURL, url.PathEscape(instrument), count, granularity)

	var payload struct {
		Candles []oandaCandle `json:"candles"`
	}
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch candles for %s %s: %w", instrument, granularity, err)
	}
	if len(payload.Candles) == 0 {
		return nil, fmt.Errorf("no candle data for %s %s", instrument, granularity)
	}

	candles := make([]model.Candle, 0, len(payload.Candles))
	for _, c := range payload.Candles {
		ts, err := time.Parse(time.RFC3339Nano, c.Time)
		if err != nil {
			return nil, fmt.Errorf("parse candle time %q: %w", c.Time, err)
		}
		o, err1 := strconv.ParseFloat(c.Mid.O, 64)
		h, err2 := strconv.ParseFloat(c.Mid.H, 64)
		l, err3 := strconv.ParseFloat(c.Mid.L, 64)
		cl, err4 := strconv.ParseFloat(c.Mid.C, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, fmt.Errorf("parse candle prices for %s", instrument)
		}
		candles = append(candles, model.Candle{Time: ts, Open: o, High: h, Low: l, Close: cl})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	f.logger.Debug().Str("instrument", instrument).Str("granularity", string(granularity)).
		Int("count", len(candles)).Msg("fetched candles")
	return candles, nil
}

// oandaPosition carries both directional legs; units and P&L are strings.
type oandaPosition struct {
	Instrument string `json:"instrument"`
	Long       struct {
		Units        string `json:"units"`
		UnrealizedPL string `json:"unrealizedPL"`
	} `json:"long"`
	Short struct {
		Units        string `json:"units"`
		UnrealizedPL string `json:"unrealizedPL"`
	} `json:"short"`
}

// FetchOpenPositions flattens open positions into per-direction legs.
func (f *OandaFetcher) FetchOpenPositions(ctx context.Context) ([]model.Position, error) {
	if f.AccountID == "" {
		return nil, fmt.Errorf("account id not configured")
	}
	endpoint := fmt.Sprintf("%s/v3/accounts/%s/openPositions", f.BaseURL, url.PathEscape(f.AccountID))

	var payload struct {
		Positions []oandaPosition `json:"positions"`
	}
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch open positions: %w", err)
	}

	var out []model.Position
	for _, p := range payload.Positions {
		if p.Instrument == "" {
			continue
		}
		longUnits, _ := strconv.ParseFloat(p.Long.Units, 64)
		shortUnits, _ := strconv.ParseFloat(p.Short.Units, 64)
		if longUnits != 0 {
			pl, _ := strconv.ParseFloat(p.Long.UnrealizedPL, 64)
			out = append(out, model.Position{
				Instrument:   p.Instrument,
				Direction:    model.DirectionLong,
				Units:        math.Abs(longUnits),
				UnrealizedPL: pl,
			})
		}
		if shortUnits != 0 {
			pl, _ := strconv.ParseFloat(p.Short.UnrealizedPL, 64)
			out = append(out, model.Position{
				Instrument:   p.Instrument,
				Direction:    model.DirectionShort,
				Units:        math.Abs(shortUnits),
				UnrealizedPL: pl,
			})
		}
	}
	return out, nil
}

// getJSON performs an authenticated GET with exponential backoff retries.
func (f *OandaFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.APIKey)
	req.Header.Set("Content-Type", "application/json")

	var body []byte
	operation := func() error {
		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return fmt.Errorf("after retries: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
