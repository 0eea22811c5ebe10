package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/response"
	"github.com/oksasatya/go-pizza-api/pkg/validation"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "userID"
	CtxUser   = "user"
	CtxToken  = "accessToken"
)

type UserHandler struct {
	Svc     *application.IdentityService
	Logger  *logrus.Logger
	Cookies *helpers.Manager

	// RevealUnknownEmail makes forgot-password answer 400 for unknown addresses.
	RevealUnknownEmail bool
}

func NewUserHandler(svc *application.IdentityService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, revealUnknown bool) *UserHandler {
	return &UserHandler{
		Svc:                svc,
		Logger:             logger,
		Cookies:            helpers.NewCookie(cookieDomain, cookieSecure),
		RevealUnknownEmail: revealUnknown,
	}
}

type registerRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	Gender         string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	PhoneNumber    string `json:"phone_number" binding:"omitempty,max=32"`
	IdentityNumber string `json:"identity_number" binding:"omitempty,max=64"`
	Address        string `json:"address" binding:"omitempty,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" binding:"omitempty,pwdpolicy"`
}

type userResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	ActivationStatus string `json:"activation_status"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Gender           string `json:"gender,omitempty"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	IdentityNumber   string `json:"identity_number,omitempty"`
	Address          string `json:"address,omitempty"`
	IsVerifiedEmail  bool   `json:"is_verified_email"`
}

type tokenResponse struct {
	AccessToken      string        `json:"access_token"`
	AccessExpiresAt  time.Time     `json:"access_expires_at"`
	RefreshToken     string        `json:"refresh_token"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at"`
	User             *userResponse `json:"user,omitempty"`
}

func toUserResponse(u *entity.User) *userResponse {
	return &userResponse{
		ID:               u.ID,
		Email:            u.Email,
		Role:             string(u.Role),
		ActivationStatus: string(u.Status),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Gender:           string(u.Gender),
		PhoneNumber:      u.PhoneNumber,
		IdentityNumber:   u.IdentityNumber,
		Address:          u.Address,
		IsVerifiedEmail:  u.IsVerifiedEmail,
	}
}

func toTokenResponse(p application.TokenPair, u *entity.User) tokenResponse {
	out := tokenResponse{
		AccessToken:      p.AccessToken,
		AccessExpiresAt:  p.AccessTokenExpiry,
		RefreshToken:     p.RefreshToken,
		RefreshExpiresAt: p.RefreshTokenExpiry,
	}
	if u != nil {
		out.User = toUserResponse(u)
	}
	return out
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Gender:         entity.Gender(req.Gender),
		PhoneNumber:    req.PhoneNumber,
		IdentityNumber: req.IdentityNumber,
		Address:        req.Address,
	})
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "User registered successfully. Check your inbox to activate the account.")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	h.setCookies(c, sess.Tokens)
	response.Success(c, http.StatusOK, toTokenResponse(sess.Tokens, sess.User), "Login successful")
}

func (h *UserHandler) Me(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		var err error
		if u, err = h.Svc.Profile(c.Request.Context(), c.GetString(CtxUserID)); err != nil {
			WriteError(c, h.Logger, err)
			return
		}
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "User loaded successfully")
}

// Logout revokes the bearer token used for the request plus any refresh
// token supplied in the body or cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)
	refresh := req.Token
	if refresh == "" {
		refresh, _ = c.Cookie(helpers.RefreshCookie)
	}
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(CtxToken), refresh); err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logout successful")
}

func (h *UserHandler) Activate(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Activate(c.Request.Context(), req.Token)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	h.setCookies(c, sess.Tokens)
	response.Success(c, http.StatusOK, toTokenResponse(sess.Tokens, sess.User), "User activated successfully")
}

// ForgotPassword answers 200 whether or not the address is known, unless
// RevealUnknownEmail is set.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil && (h.RevealUnknownEmail || !errors.Is(err, application.ErrUnknownUser)) {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "If the account exists, an email with further instructions has been sent.")
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if msg, ok := validation.PasswordMessage(err); ok {
			WriteError(c, h.Logger, application.ErrWeakPassword.WithMessage(msg))
			return
		}
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password reset successfully")
}

// RefreshToken rotates the refresh token from the body, falling back to the cookie.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)
	token := req.Token
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshCookie)
	}
	pair, err := h.Svc.RefreshSession(c.Request.Context(), token)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	h.setCookies(c, pair)
	response.Success(c, http.StatusOK, toTokenResponse(pair, nil), "Token refreshed successfully")
}

func (h *UserHandler) setCookies(c *gin.Context, p application.TokenPair) {
	h.Cookies.SetPair(c, p.AccessToken, p.AccessTokenExpiry, p.RefreshToken, p.RefreshTokenExpiry)
}

// CurrentUser returns the user stored by the auth middleware.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
