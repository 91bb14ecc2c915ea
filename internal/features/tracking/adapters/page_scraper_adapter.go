package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-status/internal/core/config"
	"shipment-status/internal/core/logger"
	"shipment-status/internal/features/tracking/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// PageScraperAdapter reads tracking data from a public tracking page by driving a headless browser
// and capturing the JSON call the page makes to its own backend.
type PageScraperAdapter struct {
	pageURL    string
	apiPattern string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewPageScraperAdapter creates a new PageScraperAdapter.
// cfg.PageURL is a printf template receiving the escaped shipment ID.
func NewPageScraperAdapter(cfg config.ScraperConfig) *PageScraperAdapter {
	return &PageScraperAdapter{
		pageURL:    cfg.PageURL,
		apiPattern: cfg.APIPattern,
		timeout:    cfg.Timeout(),
		logger:     logger.Named("page-scraper"),
	}
}

// Name implements ports.TrackingProvider.
func (a *PageScraperAdapter) Name() string {
	return "page-scraper"
}

// GetShipment implements ports.TrackingProvider.
func (a *PageScraperAdapter) GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	body, err := a.FetchRaw(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return a.Parse(body, shipmentID)
}

// Parse implements RawSource. The page's backend speaks the aggregator payload format.
func (a *PageScraperAdapter) Parse(body []byte, shipmentID string) (*domain.Shipment, error) {
	return parseShiprocketPayload(body, shipmentID)
}

// FetchRaw opens the tracking page and returns the body of the hijacked API response.
func (a *PageScraperAdapter) FetchRaw(ctx context.Context, shipmentID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	target := a.targetURL(shipmentID)

	a.logger.Debug("Launching browser...", zap.String("url", target))

	u, err := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	router := page.HijackRequests()
	defer router.MustStop()

	done := make(chan []byte, 1)

	err = router.Add(a.apiPattern, "", func(h *rod.Hijack) {
		if err := h.LoadResponse(http.DefaultClient, true); err != nil {
			a.logger.Error("Failed to load hijacked response", zap.Error(err))
			return
		}
		select {
		case done <- []byte(h.Response.Body()):
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register hijack pattern: %w", err)
	}

	go router.Run()

	if err := page.Navigate(target); err != nil {
		return nil, fmt.Errorf("failed to open tracking page: %w", err)
	}

	select {
	case body := <-done:
		if strings.TrimSpace(string(body)) == "" {
			return nil, fmt.Errorf("empty response from tracking page")
		}
		return body, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout waiting for tracking response: %w", ctx.Err())
	}
}

func (a *PageScraperAdapter) targetURL(shipmentID string) string {
	return fmt.Sprintf(a.pageURL, url.QueryEscape(shipmentID))
}
