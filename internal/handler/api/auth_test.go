//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"librarium/internal/domain/member"
	"librarium/internal/handler/api"
	"librarium/internal/pkg/errs"
	"librarium/internal/pkg/jwt"
	"librarium/internal/usecase/commands"
	apimock "librarium/tests/mock/api"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testPhone = "0913-555-1234"

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockBus      *apimock.MockDispatcher
	mockQueries  *apimock.MockQueries
	mockVerifier *apimock.MockOTPVerifier
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBus = apimock.NewMockDispatcher(s.mockCtrl)
	s.mockQueries = apimock.NewMockQueries(s.mockCtrl)
	s.mockVerifier = apimock.NewMockOTPVerifier(s.mockCtrl)
	tokens := jwt.NewService("test-secret", 30*time.Minute)
	s.handler = api.NewAuthHandler(s.mockBus, s.mockQueries, s.mockVerifier, tokens)

	s.router.POST("/auth/otp/request", s.handler.RequestOTP)
	s.router.POST("/auth/otp/verify", s.handler.VerifyOTP)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) postJSON(url string, body map[string]any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthHandlerTestSuite) TestRequestOTP() {
	s.mockBus.EXPECT().
		Handle(gomock.Any(), commands.RequestLoginCode{PhoneNumber: testPhone}).
		Return(nil)

	w := s.postJSON("/auth/otp/request", map[string]any{"phone_number": testPhone})
	s.Equal(http.StatusAccepted, w.Code)
}

func (s *AuthHandlerTestSuite) TestRequestOTP_UnknownMember() {
	s.mockBus.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		Return(errs.ErrMemberNotFound)

	w := s.postJSON("/auth/otp/request", map[string]any{"phone_number": testPhone})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AuthHandlerTestSuite) TestRequestOTP_InvalidPhone() {
	s.mockBus.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		Return(errs.ErrInvalidPhoneNumber)

	w := s.postJSON("/auth/otp/request", map[string]any{"phone_number": "0012345678"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *AuthHandlerTestSuite) TestVerifyOTP_IssuesToken() {
	memberID := uuid.New()
	m, err := member.NewMember(memberID, "Sara", "Ahmadi", testPhone)
	s.Require().NoError(err)

	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), testPhone, "123456").
		Return(nil)
	s.mockQueries.EXPECT().
		GetMemberByPhone(gomock.Any(), testPhone).
		Return(m, nil)

	w := s.postJSON("/auth/otp/verify", map[string]any{"phone_number": testPhone, "code": "123456"})
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("Bearer", resp.TokenType)

	claims, err := jwt.NewService("test-secret", 30*time.Minute).ValidateToken(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(memberID, claims.MemberID)
	s.Equal(testPhone, claims.PhoneNumber)
}

func (s *AuthHandlerTestSuite) TestVerifyOTP_WrongCode() {
	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), testPhone, "000000").
		Return(errs.ErrInvalidOTPCode)

	w := s.postJSON("/auth/otp/verify", map[string]any{"phone_number": testPhone, "code": "000000"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerTestSuite) TestVerifyOTP_Expired() {
	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), testPhone, "123456").
		Return(errs.ErrOTPExpired)

	w := s.postJSON("/auth/otp/verify", map[string]any{"phone_number": testPhone, "code": "123456"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerTestSuite) TestVerifyOTP_NoRequest() {
	s.mockVerifier.EXPECT().
		Verify(gomock.Any(), testPhone, "123456").
		Return(errs.ErrNoOTPRequest)

	w := s.postJSON("/auth/otp/verify", map[string]any{"phone_number": testPhone, "code": "123456"})
	s.Equal(http.StatusUnauthorized, w.Code)
}
