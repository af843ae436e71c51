package medicine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/repository"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
	"github.com/medremind/medremind-api/pkg/logger"
)

const (
	cacheTTL       = 5 * time.Minute
	cacheCleanup   = 10 * time.Minute
	listCacheKey   = "medicines:list"
	medicineKeyFmt = "medicine:%d"
)

// Service manages the medicine catalog with a read-through cache; catalog
// entries change rarely relative to how often prescriptions reference them.
type Service struct {
	repo   repository.MedicineRepository
	cache  *cache.Cache
	logger *logger.Logger
}

func NewService(repo repository.MedicineRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache.New(cacheTTL, cacheCleanup),
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, req *model.MedicineRequest) (*model.Medicine, error) {
	medicine := &model.Medicine{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Delete(listCacheKey)
	s.logger.Info("medicine created", "medicine_id", medicine.ID, "name", medicine.Name)
	return medicine, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	key := fmt.Sprintf(medicineKeyFmt, id)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Medicine), nil
	}

	medicine, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("medicine", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Set(key, medicine, cache.DefaultExpiration)
	return medicine, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.MedicineRequest) (*model.Medicine, error) {
	medicine, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("medicine", err)
		}
		return nil, apperrors.Internal(err)
	}

	medicine.Name = req.Name
	medicine.Type = req.Type
	medicine.Description = req.Description
	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Delete(fmt.Sprintf(medicineKeyFmt, id))
	s.cache.Delete(listCacheKey)
	return medicine, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("medicine", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	s.cache.Delete(fmt.Sprintf(medicineKeyFmt, id))
	s.cache.Delete(listCacheKey)
	s.logger.Info("medicine deleted", "medicine_id", id)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Medicine, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.Medicine), nil
	}

	medicines, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if medicines == nil {
		medicines = []*model.Medicine{}
	}

	s.cache.Set(listCacheKey, medicines, cache.DefaultExpiration)
	return medicines, nil
}
