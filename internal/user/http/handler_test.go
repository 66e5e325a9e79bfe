package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/user"
)

type stubService struct {
	users map[string]*user.User
	err   error
}

func (s *stubService) Register(_ context.Context, email, _, name string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u := &user.User{ID: "u-new", Email: email, DisplayName: &name, IsActive: true}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubService) Login(_ context.Context, email, _ string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrInvalidCredentials
}

func (s *stubService) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func setup(t *testing.T, svc *stubService) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, jwtManager), auth.AuthRequired(jwtManager))
	return r, jwtManager
}

func post(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := &stubService{users: map[string]*user.User{}}
	r, jwtManager := setup(t, svc)

	w := post(r, "/v1/auth/register", gin.H{
		"email": "skipper@example.com", "password": "anchors-away", "display_name": "Skipper",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 900, resp.ExpiresIn)
	assert.Equal(t, user.RoleRenter, resp.User.Role)

	claims, err := jwtManager.ParseAndValidate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-new", claims.UserID())

	w = post(r, "/v1/auth/register", gin.H{"email": "not-an-email", "password": "anchors-away"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHidesInactiveAccounts(t *testing.T) {
	svc := &stubService{users: map[string]*user.User{}, err: user.ErrInactiveUser}
	r, _ := setup(t, svc)

	w := post(r, "/v1/auth/login", gin.H{"email": "gone@example.com", "password": "anchors-away"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())
}

func TestMe(t *testing.T) {
	svc := &stubService{users: map[string]*user.User{
		"admin": {ID: "admin", Email: "hm@example.com", IsActive: true, IsSystemAdmin: true},
	}}
	r, jwtManager := setup(t, svc)

	call := func(userID string) *httptest.ResponseRecorder {
		token, err := jwtManager.GenerateAccessToken(userID)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call("admin")
	require.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.RoleAdmin, resp.Role)
	assert.Equal(t, "hm@example.com", resp.DisplayName)

	assert.Equal(t, http.StatusUnauthorized, call("ghost").Code)
}
