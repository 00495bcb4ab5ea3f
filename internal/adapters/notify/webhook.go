package notify

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"guest_manual/internal/adapters/observability"
	"guest_manual/internal/domain"
)

var ErrRejected = errors.New("webhook: rejected")

// Webhook POSTs each guest message as JSON to a fixed URL.
type Webhook struct {
	url string
	hc  *http.Client
	rl  *rate.Limiter
}

func NewWebhook(url string, rps int) (*Webhook, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Webhook{
		url: url,
		hc:  &http.Client{Timeout: 10 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Webhook) NotifyMessage(ctx context.Context, ev domain.MessageEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.post(ctx, body)
}

// post sends body with client-side rate limiting and retries.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Webhook) post(ctx context.Context, body []byte) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// fresh request each attempt; the body reader is consumed
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "guest-manual/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("webhook", "message", 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("webhook", "message", resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("webhook: remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
