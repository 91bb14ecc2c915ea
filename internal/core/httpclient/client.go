package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"shipment-status/internal/core/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("httpclient")

	log.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// RateLimitedRoundTripper waits for a limiter token before every request.
type RateLimitedRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Limiter gates outbound requests.
	Limiter *rate.Limiter
}

// RoundTrip blocks until the limiter admits the request or its context ends.
func (rrt *RateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rrt.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return rrt.Proxied.RoundTrip(req)
}

// NewLimiter builds a limiter allowing perSecond requests with the given burst.
// A non-positive rate means unlimited.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// NewClient returns an http.Client with logging middleware.
// When limiter is non-nil every request first waits on it.
func NewClient(timeout time.Duration, limiter *rate.Limiter) *http.Client {
	var transport http.RoundTripper = &LoggingRoundTripper{
		Proxied: http.DefaultTransport,
	}

	if limiter != nil {
		transport = &RateLimitedRoundTripper{
			Proxied: transport,
			Limiter: limiter,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
