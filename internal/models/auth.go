package models

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=30"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type ValidateEmailRequest struct {
	ValidateCode string `json:"validatecode" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ResetCode string `json:"resetcode" validate:"required"`
	Password  string `json:"password" validate:"required,min=6,max=30"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type RegisterResponse struct {
	CreatedUser string `json:"createduser"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type EmailSentResponse struct {
	EmailSent string `json:"emailsent"`
}

type CurrentUserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
