package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/authz"
	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

type stubUserService struct {
	registerFn   func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserService) List(ctx context.Context, actor authz.Identity) ([]models.UserSummary, error) {
	return nil, nil
}

func newAuthTestRouter(users services.UserService) (*gin.Engine, services.AuthService) {
	gin.SetMode(gin.TestMode)
	auth := services.NewAuthService("test-secret", time.Hour)
	h := NewAuthHandler(users, auth)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
	r.GET("/healthz", Health)
	return r, auth
}

func TestLogin_Success(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour)
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	users := &stubUserService{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "lead@example.com", email)
			return &models.User{ID: 1, Name: "Lead", Email: email, PasswordHash: hash, Role: models.RoleLead}, nil
		},
	}
	r, _ := newAuthTestRouter(users)

	w := doJSON(r, http.MethodPost, "/auth/login", "", `{"email":"lead@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.NotContains(t, string(body.User), hash, "password hash must never be serialized")

	verifier := services.NewAuthService("test-secret", time.Hour)
	identity, err := verifier.ParseToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.ID)
	assert.Equal(t, models.RoleLead, identity.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour)
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	users := &stubUserService{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, PasswordHash: hash, Role: models.RoleLead}, nil
		},
	}
	r, _ := newAuthTestRouter(users)

	w := doJSON(r, http.MethodPost, "/auth/login", "", `{"email":"lead@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := &stubUserService{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	r, _ := newAuthTestRouter(users)

	// same message as a wrong password, no account enumeration
	w := doJSON(r, http.MethodPost, "/auth/login", "", `{"email":"ghost@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestLogin_MissingFields(t *testing.T) {
	users := &stubUserService{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			t.Fatal("lookup must not run without credentials")
			return nil, nil
		},
	}
	r, _ := newAuthTestRouter(users)

	w := doJSON(r, http.MethodPost, "/auth/login", "", `{"email":"  ","password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Created(t *testing.T) {
	users := &stubUserService{
		registerFn: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			assert.Equal(t, "Alice", in.Name)
			assert.Equal(t, models.RoleLead, in.Role)
			return &models.User{ID: 3, Name: in.Name, Email: in.Email, Role: in.Role}, nil
		},
	}
	r, _ := newAuthTestRouter(users)

	w := doJSON(r, http.MethodPost, "/auth/register", "", `{"name":"Alice","email":"alice@example.com","password":"secret1","role":"LEAD"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "user registered successfully")
}

func TestRegister_ValidationError(t *testing.T) {
	users := &stubUserService{
		registerFn: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			return nil, apperrors.Validation("password must be at least 6 characters")
		},
	}
	r, _ := newAuthTestRouter(users)

	w := doJSON(r, http.MethodPost, "/auth/register", "", `{"name":"Alice","email":"alice@example.com","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password must be at least 6 characters")
}

func TestHealth(t *testing.T) {
	r, _ := newAuthTestRouter(&stubUserService{})

	w := doJSON(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
