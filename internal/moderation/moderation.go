// Package moderation applies the report rule: one report per user per ad,
// automatic removal once enough distinct users have reported.
package moderation

import (
	"context"
	"errors"

	"github.com/safestay/shelter-bot/internal/storage"
	"go.uber.org/zap"
)

// DefaultThreshold is the number of distinct reports that removes an ad.
const DefaultThreshold = 3

// Outcome is the result of handling one report.
type Outcome int

const (
	// OutcomeRecorded means the report was saved and the ad stays up.
	OutcomeRecorded Outcome = iota
	// OutcomeAlreadyReported means this user had already reported the ad.
	OutcomeAlreadyReported
	// OutcomeAutoDeleted means the report pushed the ad over the
	// threshold and it was removed.
	OutcomeAutoDeleted
)

type Service struct {
	store     storage.Storage
	threshold int
	logger    *zap.Logger
}

func NewService(store storage.Storage, threshold int, logger *zap.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		store:     store,
		threshold: threshold,
		logger:    logger,
	}
}

// Report handles one report event. A repeat report by the same user does
// not count toward the threshold. Reporting a missing ad returns
// storage.ErrAdNotFound. The count check tolerates exceeding the
// threshold under races; deleting an already-deleted ad is a no-op.
func (s *Service) Report(ctx context.Context, adID, userID int64) (Outcome, error) {
	has, err := s.store.HasReport(ctx, adID, userID)
	if err != nil {
		return 0, err
	}
	if has {
		return OutcomeAlreadyReported, nil
	}

	if err := s.store.AddReport(ctx, adID, userID); err != nil {
		// A racing duplicate insert loses to the unique constraint.
		if errors.Is(err, storage.ErrAlreadyReported) {
			return OutcomeAlreadyReported, nil
		}
		return 0, err
	}

	count, err := s.store.CountReports(ctx, adID)
	if err != nil {
		return 0, err
	}
	if count < s.threshold {
		s.logger.Info("report recorded",
			zap.Int64("ad_id", adID),
			zap.Int64("user_id", userID),
			zap.Int("count", count))
		return OutcomeRecorded, nil
	}

	if err := s.store.DeleteAdAnyOwner(ctx, adID); err != nil {
		return 0, err
	}

	s.logger.Warn("ad auto-deleted after reports",
		zap.Int64("ad_id", adID),
		zap.Int("count", count),
		zap.Int("threshold", s.threshold))
	return OutcomeAutoDeleted, nil
}
