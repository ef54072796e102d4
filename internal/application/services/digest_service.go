package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/email"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/email/templates"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// DigestService emails the current demand signals to merchandising.
type DigestService struct {
	demand    *DemandService
	mailer    email.Service
	recipient string
	logger    *logging.ChanneledLogger
}

// NewDigestService creates the digest service. The mailer may be nil when
// digests are disabled; SendDigest then reports an error.
func NewDigestService(demand *DemandService, mailer email.Service, recipient string, logger *logging.ChanneledLogger) *DigestService {
	return &DigestService{
		demand:    demand,
		mailer:    mailer,
		recipient: recipient,
		logger:    logger,
	}
}

// SendDigest computes the demand signals and emails them.
func (s *DigestService) SendDigest(ctx context.Context, params analytics.DemandParams) error {
	if s.mailer == nil || s.recipient == "" {
		return fmt.Errorf("digest delivery is not configured")
	}

	signals, err := s.demand.DetectDemand(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to compute demand signals for digest: %w", err)
	}

	rows := make([]templates.DigestRow, 0, len(signals))
	for _, signal := range signals {
		rows = append(rows, templates.DigestRow{
			Query:          signal.Query,
			PeriodSearches: signal.PeriodSearches,
			GrowthPct:      signal.WoWGrowthPct,
			ZeroResults:    signal.ZeroResultSearches,
			Reason:         signal.Reason,
		})
	}

	windowDays := params.WindowDays
	if windowDays <= 0 {
		windowDays = analytics.DefaultDemandWindowDays
	}

	opLog := s.logger.WithOperation(logging.ChannelEmail, "demand_digest")

	start := time.Now()
	if err := s.mailer.SendDemandDigest(s.recipient, windowDays, rows); err != nil {
		opLog.Error("Demand digest delivery failed", "error", err.Error(), "recipient", s.recipient)
		return err
	}

	opLog.Info("Demand digest sent",
		"recipient", s.recipient,
		"signals", len(rows),
		"duration", time.Since(start))
	return nil
}
