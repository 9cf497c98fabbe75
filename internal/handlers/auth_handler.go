package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"accounts/internal/lifecycle"
	"accounts/internal/logger"
	"accounts/internal/middleware"
	"accounts/internal/models"
	"accounts/internal/validation"
)

const (
	msgRegistered       = "New user registered successfully, please validate your email before trying to login!"
	msgEmailExists      = "Email already exists"
	msgProblem          = "There was a problem, please try again!"
	msgValidationUnsent = "The validation email couldn't be sent, please try again!"
	msgValidated        = "Email has been successfully validated!"
	msgCodeInvalid      = "Validation code is invalid"
	msgNotValidated     = "Email couldn't be validated, please try again!"
	msgEmailNotFound    = "Email not found"
	msgEmailUnverified  = "Email not validated yet"
	msgPasswordWrong    = "Password incorrect"
	msgResetSent        = "The reset email has been sent, please check your inbox!"
	msgResetUnsent      = "The reset email couldn't be sent, please try again!"
	msgPasswordChanged  = "Password changed successfully!"
	msgResetInvalid     = "Reset code is invalid"
	msgResetExpired     = "Reset code has expired"
	msgPasswordUnsaved  = "Password couldn't be changed, please try again!"
)

// Lifecycle is the credential lifecycle the auth routes drive.
type Lifecycle interface {
	Register(ctx context.Context, req models.RegisterRequest) error
	ConfirmEmail(ctx context.Context, req models.ValidateEmailRequest) error
	Authenticate(ctx context.Context, req models.LoginRequest) (string, error)
	RequestPasswordReset(ctx context.Context, req models.ForgotPasswordRequest) error
	CompletePasswordReset(ctx context.Context, req models.ResetPasswordRequest) error
}

type AuthHandler struct {
	accounts Lifecycle
	log      *zap.Logger
}

func NewAuthHandler(accounts Lifecycle) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: logger.WithModule("handlers")}
}

// writeValidation writes the field map when err is a validation failure.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, verrs)
		return true
	}
	return false
}

// @Tags Users
// @Summary Register a new account
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Registration request"
// @Success 200 {object} models.RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[models.RegisterRequest](r)

	err := h.accounts.Register(r.Context(), req)
	if err == nil {
		writeJSON(w, http.StatusOK, models.RegisterResponse{CreatedUser: msgRegistered})
		return
	}
	if writeValidation(w, err) {
		return
	}

	var notifyErr *lifecycle.NotifyError
	switch {
	case errors.Is(err, lifecycle.ErrDuplicateEmail):
		writeFieldError(w, http.StatusBadRequest, "email", msgEmailExists)
	case errors.As(err, &notifyErr):
		writeFieldError(w, http.StatusNotFound, "email", msgValidationUnsent)
	default:
		writeFieldError(w, http.StatusNotFound, "email", msgProblem)
	}
}

// @Tags Users
// @Summary Validate an email address
// @Accept json
// @Produce json
// @Param body body models.ValidateEmailRequest true "Validation code"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/validate [post]
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[models.ValidateEmailRequest](r)

	err := h.accounts.ConfirmEmail(r.Context(), req)
	if err == nil {
		writeJSON(w, http.StatusOK, models.SuccessResponse{Success: msgValidated})
		return
	}
	if writeValidation(w, err) {
		return
	}

	if errors.Is(err, lifecycle.ErrInvalidVerificationCode) {
		writeFieldError(w, http.StatusNotFound, "validatecode", msgCodeInvalid)
		return
	}
	writeFieldError(w, http.StatusBadRequest, "validatecode", msgNotValidated)
}

// @Tags Users
// @Summary Log in and receive a bearer token
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[models.LoginRequest](r)

	token, err := h.accounts.Authenticate(r.Context(), req)
	if err == nil {
		writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
		return
	}
	if writeValidation(w, err) {
		return
	}

	switch {
	case errors.Is(err, lifecycle.ErrEmailNotFound):
		writeFieldError(w, http.StatusNotFound, "email", msgEmailNotFound)
	case errors.Is(err, lifecycle.ErrEmailNotVerified):
		writeFieldError(w, http.StatusNotFound, "email", msgEmailUnverified)
	case errors.Is(err, lifecycle.ErrIncorrectPassword):
		writeFieldError(w, http.StatusBadRequest, "password", msgPasswordWrong)
	default:
		writeFieldError(w, http.StatusNotFound, "email", msgProblem)
	}
}

// @Tags Users
// @Summary Request a password reset code
// @Accept json
// @Produce json
// @Param body body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} models.EmailSentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[models.ForgotPasswordRequest](r)

	err := h.accounts.RequestPasswordReset(r.Context(), req)
	if err == nil {
		writeJSON(w, http.StatusOK, models.EmailSentResponse{EmailSent: msgResetSent})
		return
	}
	if writeValidation(w, err) {
		return
	}

	if errors.Is(err, lifecycle.ErrEmailNotFound) {
		writeFieldError(w, http.StatusNotFound, "email", msgEmailNotFound)
		return
	}
	writeFieldError(w, http.StatusNotFound, "email", msgResetUnsent)
}

// @Tags Users
// @Summary Reset a password with a reset code
// @Accept json
// @Produce json
// @Param body body models.ResetPasswordRequest true "Reset request"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/resetpassword [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[models.ResetPasswordRequest](r)

	err := h.accounts.CompletePasswordReset(r.Context(), req)
	if err == nil {
		writeJSON(w, http.StatusOK, models.SuccessResponse{Success: msgPasswordChanged})
		return
	}
	if writeValidation(w, err) {
		return
	}

	var hashErr *lifecycle.HashError
	switch {
	case errors.Is(err, lifecycle.ErrEmailNotFound):
		writeFieldError(w, http.StatusNotFound, "email", msgEmailNotFound)
	case errors.Is(err, lifecycle.ErrInvalidResetCode):
		writeFieldError(w, http.StatusBadRequest, "resetcode", msgResetInvalid)
	case errors.Is(err, lifecycle.ErrResetCodeExpired):
		writeFieldError(w, http.StatusBadRequest, "resetcode", msgResetExpired)
	case errors.As(err, &hashErr):
		writeFieldError(w, http.StatusNotFound, "resetcode", msgPasswordUnsaved)
	default:
		writeFieldError(w, http.StatusBadRequest, "resetcode", msgPasswordUnsaved)
	}
}

// @Tags Users
// @Summary Current account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.CurrentUserResponse
// @Failure 401 {string} string
// @Router /api/users/current [get]
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, name, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.log.Warn("current called without identity")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, models.CurrentUserResponse{ID: id, Name: name})
}
