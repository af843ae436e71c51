package user

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/pkg/auth"
	"github.com/medremind/medremind-api/pkg/errors"
	"github.com/medremind/medremind-api/pkg/logger"
	"github.com/medremind/medremind-api/pkg/security"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := r.users[user.Email]; exists {
		return &pq.Error{Code: "23505", Constraint: "users_email_key"}
	}
	r.nextID++
	user.ID = r.nextID
	c := *user
	r.users[user.Email] = &c
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *u
	return &c, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, hasher, jwtSvc, logger.NewLogger(nil)), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	registered, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Dr. Sharma",
		Email:    "sharma@example.com",
		Password: "s3cretpass",
		Role:     "doctor",
	})
	require.NoError(t, err)
	assert.NotZero(t, registered.ID)
	assert.Equal(t, model.RoleDoctor, registered.Role)
	assert.NotEqual(t, "s3cretpass", registered.PasswordHash)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "sharma@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	req := &model.RegisterRequest{
		Name:     "Dr. Sharma",
		Email:    "sharma@example.com",
		Password: "s3cretpass",
		Role:     "doctor",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
	assert.Equal(t, "email already registered", appErr.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Dr. Sharma",
		Email:    "sharma@example.com",
		Password: "s3cretpass",
		Role:     "doctor",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "sharma@example.com",
		Password: "wrongpass",
	})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	// Unknown account and wrong password are indistinguishable to the caller.
	assert.Equal(t, "invalid credentials", appErr.Message)
}
