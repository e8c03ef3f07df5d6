package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	objmemory "github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/memory"
	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/core/services"
	"github.com/SscSPs/knowledge_hub/internal/dto"
	"github.com/SscSPs/knowledge_hub/internal/handlers"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
	"github.com/SscSPs/knowledge_hub/internal/repositories/memory"
	"github.com/SscSPs/knowledge_hub/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, identifier domain.LoginIdentifier, password string) (*domain.TokenPair, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *MockUserService) RenewSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func testTokenService() portssvc.TokenSvcFacade {
	return services.NewTokenService(services.TokenConfig{
		AccessSecret:  "handler-access-secret",
		RefreshSecret: "handler-refresh-secret",
		Issuer:        "knowledge-hub-test",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}, memory.NewUsedTokenRepository())
}

func newTestRouter(cfg *config.Config, container *portssvc.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(middleware.StructuredLoggingMiddleware(discardLogger()))
	handlers.RegisterRoutes(router, cfg, container, nil)
	return router
}

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockUserSvc *MockUserService
	tokens      portssvc.TokenSvcFacade
}

func (suite *AuthHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(validation.RegisterGinValidators())
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	suite.mockUserSvc = new(MockUserService)
	suite.tokens = testTokenService()
	suite.router = newTestRouter(&config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		User:      suite.mockUserSvc,
		Token:     suite.tokens,
		Namespace: services.NewNamespaceService(objmemory.NewStore()),
	})
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (suite *AuthHandlerTestSuite) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Error
}

func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	req := dto.RegisterUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Mobile:    "+15550100",
		Password:  "correct-horse",
	}
	user := &domain.User{
		UserID:       uuid.NewString(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Username:     "ada",
		Email:        "ada@example.com",
		Mobile:       "+15550100",
		PasswordHash: "$2a$10$secret",
	}
	suite.mockUserSvc.On("RegisterUser", mock.Anything, req).Return(user, nil).Once()

	body, _ := json.Marshal(req)
	w := suite.do(http.MethodPost, "/user/registration", string(body), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(user.UserID, resp.ID)
	suite.Equal("ada", resp.Username)
	suite.NotContains(w.Body.String(), "secret")
	suite.mockUserSvc.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.mockUserSvc.On("RegisterUser", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateEmail).Once()

	w := suite.do(http.MethodPost, "/user/registration",
		`{"first_name":"A","last_name":"L","username":"ada","email":"ada@example.com","mobile":"+15550100","password":"pw"}`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Email already exists", decodeError(w))
}

func (suite *AuthHandlerTestSuite) TestRegister_InvalidBody() {
	w := suite.do(http.MethodPost, "/user/registration",
		`{"first_name":"A","last_name":"L","username":"ada","email":"not-an-email","mobile":"abc","password":"pw"}`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUserSvc.AssertNotCalled(suite.T(), "RegisterUser", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	identifier, err := domain.NewLoginIdentifier("", "ada@example.com", "")
	suite.Require().NoError(err)
	pair := &domain.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	suite.mockUserSvc.On("Login", mock.Anything, identifier, "correct-horse").Return(pair, nil).Once()

	w := suite.do(http.MethodPost, "/user/login", `{"email":"ada@example.com","password":"correct-horse"}`, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TokenPairResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("access", resp.AccessToken)
	suite.Equal("refresh", resp.RefreshToken)
}

func (suite *AuthHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockUserSvc.On("Login", mock.Anything, mock.Anything, "wrong").Return(nil, apperrors.ErrInvalidCredentials).Once()

	w := suite.do(http.MethodPost, "/user/login", `{"username":"ada","password":"wrong"}`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid credentials", decodeError(w))
}

func (suite *AuthHandlerTestSuite) TestLogin_IdentifierRules() {
	w := suite.do(http.MethodPost, "/user/login", `{"password":"pw"}`, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/user/login", `{"username":"ada","email":"ada@example.com","password":"pw"}`, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.mockUserSvc.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestRenewTokens_Query() {
	pair := &domain.TokenPair{AccessToken: "a2", RefreshToken: "r2"}
	suite.mockUserSvc.On("RenewSession", mock.Anything, "r1").Return(pair, nil).Once()
	suite.mockUserSvc.On("RenewSession", mock.Anything, "r1").Return(nil, apperrors.ErrTokenAlreadyUsed).Once()

	w := suite.do(http.MethodPost, "/user/renew_tokens?refresh_token=r1", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/user/renew_tokens?refresh_token=r1", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Refresh token has already been used", decodeError(w))
}

func (suite *AuthHandlerTestSuite) TestRenewTokens_JSONBody() {
	suite.mockUserSvc.On("RenewSession", mock.Anything, "from-body").Return(nil, apperrors.ErrInvalidToken).Once()

	w := suite.do(http.MethodPost, "/user/renew_tokens", `{"refreshToken":"from-body"}`, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid or expired refresh token", decodeError(w))
}

func (suite *AuthHandlerTestSuite) TestRenewTokens_Missing() {
	w := suite.do(http.MethodPost, "/user/renew_tokens", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRenewTokens_MalformedBody() {
	w := suite.do(http.MethodPost, "/user/renew_tokens", `{"refreshToken":`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	msg := decodeError(w)
	suite.NotEqual("refresh_token is required", msg)
	suite.Contains(msg, "validation error")
	suite.mockUserSvc.AssertNotCalled(suite.T(), "RenewSession", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestMe() {
	access, _, err := suite.tokens.Issue("ada", domain.AccessToken, time.Hour)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "ada", Email: "ada@example.com"}
	suite.mockUserSvc.On("GetUserByUsername", mock.Anything, "ada").Return(user, nil).Once()

	w := suite.do(http.MethodGet, "/user/me", "", http.Header{"Authorization": {"Bearer " + access}})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(user.UserID, resp.ID)
}

func (suite *AuthHandlerTestSuite) TestMe_RejectsRefreshToken() {
	refresh, _, err := suite.tokens.Issue("ada", domain.RefreshToken, time.Hour)
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/user/me", "", http.Header{"Authorization": {"Bearer " + refresh}})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/user/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/user/me", "", http.Header{"Authorization": {"Token abc"}})
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.mockUserSvc.AssertNotCalled(suite.T(), "GetUserByUsername", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestHomeAndHealth() {
	w := suite.do(http.MethodGet, "/", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "API is running")

	w = suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}
