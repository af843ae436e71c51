package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/repository"
	"github.com/medremind/medremind-api/pkg/auth"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
	"github.com/medremind/medremind-api/pkg/logger"
	"github.com/medremind/medremind-api/pkg/security"
)

const uniqueViolation = "23505"

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	jwtSvc auth.JWTService
	logger *logger.Logger
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		jwtSvc: jwtSvc,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.UserRole(req.Role),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.BadRequest("email already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{Token: token, User: user}, nil
}
