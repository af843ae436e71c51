package reminder

import (
	"context"
	"time"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/repository"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
	"github.com/medremind/medremind-api/pkg/logger"
)

// DefaultLimit caps a pending-reminder query when no limit is given.
const DefaultLimit = 100

type Service struct {
	repo   repository.ReminderRepository
	logger *logger.Logger
}

func NewService(repo repository.ReminderRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// FetchPending lists not-yet-sent reminders due at or before the cutoff,
// ascending by reminder time. A zero cutoff means now; a non-positive limit
// falls back to DefaultLimit.
func (s *Service) FetchPending(ctx context.Context, before time.Time, limit int) ([]*model.ReminderDetail, error) {
	if before.IsZero() {
		before = time.Now()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	reminders, err := s.repo.ListPending(ctx, before, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if reminders == nil {
		reminders = []*model.ReminderDetail{}
	}
	return reminders, nil
}

// BulkSetStatus flips the given status field to true on every reminder in ids
// that exists, and reports the ids it could not resolve. Partial resolution is
// not an error; the caller distinguishes it from full success.
func (s *Service) BulkSetStatus(ctx context.Context, field model.ReminderStatusField, ids []int64) (*model.BulkStatusResult, error) {
	if len(ids) == 0 {
		return nil, apperrors.BadRequest(`"ids" must be a non-empty array of numbers`, nil)
	}

	found, err := s.repo.FilterExisting(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	foundSet := make(map[int64]bool, len(found))
	for _, id := range found {
		foundSet[id] = true
	}

	result := &model.BulkStatusResult{
		UpdatedIDs:  make([]int64, 0, len(found)),
		NotFoundIDs: make([]int64, 0),
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if foundSet[id] {
			result.UpdatedIDs = append(result.UpdatedIDs, id)
		} else {
			result.NotFoundIDs = append(result.NotFoundIDs, id)
		}
	}

	if len(result.UpdatedIDs) > 0 {
		if err := s.repo.BulkSetStatus(ctx, field, result.UpdatedIDs); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	s.logger.Info("bulk reminder status update",
		"field", string(field),
		"updated", len(result.UpdatedIDs),
		"not_found", len(result.NotFoundIDs),
	)
	return result, nil
}
