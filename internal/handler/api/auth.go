package api

import (
	"errors"
	"net/http"

	reqdto "librarium/internal/handler/dto/request"
	resdto "librarium/internal/handler/dto/response"
	"librarium/internal/handler/httperr"
	"librarium/internal/pkg/errs"
	"librarium/internal/pkg/jwt"
	"librarium/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	bus     Dispatcher
	queries Queries
	otp     OTPVerifier
	tokens  *jwt.Service
}

func NewAuthHandler(b Dispatcher, q Queries, otpSvc OTPVerifier, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{bus: b, queries: q, otp: otpSvc, tokens: tokens}
}

// RequestOTP kicks off passwordless login: the command records an event
// that cascades into code delivery and outbound publishing.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req reqdto.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.RequestLoginCode{PhoneNumber: req.PhoneNumber}
	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidPhoneNumber):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid phone number", nil)
		case errors.Is(err, errs.ErrMemberNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No member registered with this phone number", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusAccepted, resdto.OTPRequestedResponse{Message: "Login code sent"})
}

// VerifyOTP exchanges a valid code for an access token.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req reqdto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.PhoneNumber, req.Code); err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidPhoneNumber):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid phone number", nil)
		case errors.Is(err, errs.ErrNoOTPRequest):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "No login code requested for this phone number", nil)
		case errors.Is(err, errs.ErrOTPExpired):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Login code expired, request a new one", nil)
		case errors.Is(err, errs.ErrInvalidOTPCode):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid login code", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	m, err := h.queries.GetMemberByPhone(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		if errors.Is(err, errs.ErrMemberNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "No member registered with this phone number", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	token, err := h.tokens.GenerateToken(m.ID(), m.PhoneNumber())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.TokenResponse{AccessToken: token, TokenType: "Bearer"})
}
