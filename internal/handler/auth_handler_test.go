package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"baldguard/internal/auth"
	apperrors "baldguard/internal/errors"
	"baldguard/internal/model"
	"baldguard/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) AuthenticateWithGoogle(ctx context.Context, accessToken, idToken string) (*service.AuthResult, error) {
	args := m.Called(ctx, accessToken, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) AuthenticateWithEmail(ctx context.Context, email, name string, picture *string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, name, picture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetByWalletAddress(ctx context.Context, address string) (*model.User, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) AssignWallet(ctx context.Context, id uint, address string) error {
	args := m.Called(ctx, id, address)
	return args.Error(0)
}

// recordingEnqueuer captures wallet provisioning requests.
type recordingEnqueuer struct {
	mu  sync.Mutex
	ids []uint
}

func (r *recordingEnqueuer) Enqueue(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, userID)
}

func (r *recordingEnqueuer) enqueued() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.ids...)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authResult(isNew bool) *service.AuthResult {
	return &service.AuthResult{
		AccessToken: "signed-token",
		ExpiresIn:   3600,
		User:        &model.User{ID: 1, Email: "test@example.com", Name: "Test"},
		IsNewUser:   isNew,
	}
}

func TestAuthHandler_GoogleAuth(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		setupMock       func(*MockAuthService)
		expectedStatus  int
		expectedType    string
		expectedEnqueue int
	}{
		{
			name: "successful first login enqueues wallet",
			body: `{"access_token":"google-token"}`,
			setupMock: func(m *MockAuthService) {
				m.On("AuthenticateWithGoogle", mock.Anything, "google-token", "").
					Return(authResult(true), nil)
			},
			expectedStatus:  http.StatusOK,
			expectedEnqueue: 1,
		},
		{
			name: "repeat login does not enqueue",
			body: `{"access_token":"google-token"}`,
			setupMock: func(m *MockAuthService) {
				m.On("AuthenticateWithGoogle", mock.Anything, "google-token", "").
					Return(authResult(false), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing access token",
			body:           `{}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   "validation_error",
		},
		{
			name: "google rejects token",
			body: `{"access_token":"bad-token"}`,
			setupMock: func(m *MockAuthService) {
				m.On("AuthenticateWithGoogle", mock.Anything, "bad-token", "").
					Return(nil, apperrors.ErrGoogleTokenInvalid)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedType:   "authentication_error",
		},
		{
			name: "directory outage is not an auth failure",
			body: `{"access_token":"google-token"}`,
			setupMock: func(m *MockAuthService) {
				m.On("AuthenticateWithGoogle", mock.Anything, "google-token", "").
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(MockAuthService)
			tt.setupMock(mockAuth)
			wallets := &recordingEnqueuer{}
			h := NewAuthHandler(mockAuth, new(MockUserService), wallets)

			c, rec := newTestContext(http.MethodPost, "/api/v1/auth/google", tt.body)
			err := h.GoogleAuth(c)

			if tt.expectedStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `"token_type":"bearer"`)
				assert.Contains(t, rec.Body.String(), `"access_token":"signed-token"`)
			} else {
				var httpErr *apperrors.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
				assert.Equal(t, tt.expectedType, httpErr.Type)
			}

			assert.Len(t, wallets.enqueued(), tt.expectedEnqueue)
			mockAuth.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_EmailAuth(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		setupMock       func(*MockAuthService)
		expectedStatus  int
		expectedType    string
		expectedEnqueue int
	}{
		{
			name: "successful login",
			body: `{"email":"test@example.com","name":"Test"}`,
			setupMock: func(m *MockAuthService) {
				m.On("AuthenticateWithEmail", mock.Anything, "test@example.com", "Test", (*string)(nil)).
					Return(authResult(true), nil)
			},
			expectedStatus:  http.StatusOK,
			expectedEnqueue: 1,
		},
		{
			name:           "invalid email",
			body:           `{"email":"not-an-email","name":"Test"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   "validation_error",
		},
		{
			name:           "missing name",
			body:           `{"email":"test@example.com"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   "validation_error",
		},
		{
			name: "directory failure surfaces as internal error",
			body: `{"email":"test@example.com","name":"Test"}`,
			setupMock: func(m *MockAuthService) {
				m.On("AuthenticateWithEmail", mock.Anything, "test@example.com", "Test", (*string)(nil)).
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(MockAuthService)
			tt.setupMock(mockAuth)
			wallets := &recordingEnqueuer{}
			h := NewAuthHandler(mockAuth, new(MockUserService), wallets)

			c, rec := newTestContext(http.MethodPost, "/api/v1/auth/email", tt.body)
			err := h.EmailAuth(c)

			if tt.expectedStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				var httpErr *apperrors.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
				assert.Equal(t, tt.expectedType, httpErr.Type)
			}

			assert.Len(t, wallets.enqueued(), tt.expectedEnqueue)
			mockAuth.AssertExpectations(t)
		})
	}
}

func setSessionClaims(c echo.Context, userID uint, email string) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		UserID: userID,
		Email:  email,
	})
	c.Set("user", token)
}

func TestAuthHandler_Me(t *testing.T) {
	mockUsers := new(MockUserService)
	mockUsers.On("GetByID", mock.Anything, uint(1)).
		Return(&model.User{ID: 1, Email: "test@example.com", Name: "Test"}, nil)

	h := NewAuthHandler(new(MockAuthService), mockUsers, &recordingEnqueuer{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/auth/me", "")
	setSessionClaims(c, 1, "test@example.com")

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"test@example.com"`)
	mockUsers.AssertExpectations(t)
}

func TestAuthHandler_Me_UnresolvableSubject(t *testing.T) {
	mockUsers := new(MockUserService)
	mockUsers.On("GetByID", mock.Anything, uint(99)).
		Return(nil, apperrors.ErrUserNotFound)

	h := NewAuthHandler(new(MockAuthService), mockUsers, &recordingEnqueuer{})

	c, _ := newTestContext(http.MethodGet, "/api/v1/auth/me", "")
	setSessionClaims(c, 99, "gone@example.com")

	err := h.Me(c)
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "invalid_token", httpErr.Type)
}

func TestAuthHandler_Me_NoSession(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService), new(MockUserService), &recordingEnqueuer{})

	c, _ := newTestContext(http.MethodGet, "/api/v1/auth/me", "")

	err := h.Me(c)
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestAuthHandler_Health(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService), new(MockUserService), &recordingEnqueuer{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/auth/health", "")
	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}
