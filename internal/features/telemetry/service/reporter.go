package service

import (
	"context"
	"fmt"
	"strings"

	statusdomain "shipment-status/internal/features/status/domain"
	statusports "shipment-status/internal/features/status/ports"
	"shipment-status/internal/features/telemetry/ports"

	"go.uber.org/zap"
)

// Reporter summarizes the vendor statuses the normalizer did not recognize.
type Reporter struct {
	recorder statusports.UnmappedRecorder
	notifier ports.Notifier
	topN     int
	logger   *zap.Logger
}

// NewReporter creates a new Reporter sending at most topN statuses per report.
func NewReporter(recorder statusports.UnmappedRecorder, notifier ports.Notifier, topN int, logger *zap.Logger) *Reporter {
	return &Reporter{
		recorder: recorder,
		notifier: notifier,
		topN:     topN,
		logger:   logger,
	}
}

// Run builds one report and sends it. Nothing is sent when there is nothing to report.
func (r *Reporter) Run(ctx context.Context) error {
	statuses, err := r.recorder.Top(ctx, r.topN)
	if err != nil {
		return fmt.Errorf("failed to read unmapped statuses: %w", err)
	}

	if len(statuses) == 0 {
		r.logger.Info("No unmapped statuses to report")
		return nil
	}

	r.logger.Info("Sending unmapped status report", zap.Int("statuses", len(statuses)))

	if err := r.notifier.Notify(ctx, FormatReport(statuses)); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	return nil
}

// slackEscaper drops backticks so a status cannot break out of its code span
// and escapes the control characters of Slack mrkdwn.
var slackEscaper = strings.NewReplacer("`", "", "&", "&amp;", "<", "&lt;", ">", "&gt;")

// FormatReport renders statuses as a Slack friendly text block.
func FormatReport(statuses []statusdomain.UnmappedStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Unrecognized shipment statuses* (%d)\n", len(statuses))
	for i, s := range statuses {
		fmt.Fprintf(&b, "%d. `%s` seen %d times\n", i+1, slackEscaper.Replace(s.Canonical), s.Count)
	}
	b.WriteString("These are shown as Order Placed until a rule maps them.")
	return b.String()
}
