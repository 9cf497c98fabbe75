package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"accounts/internal/logger"
	"accounts/internal/metrics"
	"accounts/internal/models"
	"accounts/internal/repository"
	"accounts/internal/security"
	"accounts/internal/services"
	"accounts/internal/validation"
)

const (
	DefaultResetTokenTTL = time.Hour
	DefaultNotifyTimeout = 10 * time.Second

	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = "587"

	// digest collisions between fresh 128-bit codes are vanishingly rare
	maxVerifyCodeAttempts = 3
)

// Config is everything the controller needs from the process configuration.
type Config struct {
	SigningSecret    string
	MailSender       string
	MailPassword     string
	MailFrom         string
	ResetLinkBase    string
	ValidateLinkBase string

	TokenTTL       time.Duration
	ResetTokenTTL  time.Duration
	VerifyTokenTTL time.Duration // zero disables expiry
	NotifyTimeout  time.Duration
}

// TokenIssuer signs bearer tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(userID, name string) (string, error)
}

// Deps are the collaborators of the controller. Only Store is required.
type Deps struct {
	Store     repository.AccountRepository
	Hasher    security.Hasher
	Generator security.SecretGenerator
	Sender    services.EmailSender
	Issuer    TokenIssuer
	Validator validation.Validator
	Logger    *zap.Logger
	Now       func() time.Time
}

// Controller runs the credential lifecycle: register, confirm email,
// authenticate, request reset and complete reset. Each operation runs its
// steps in order (validate, find, hash, persist, notify) and never retries.
type Controller struct {
	cfg       Config
	store     repository.AccountRepository
	hasher    security.Hasher
	generator security.SecretGenerator
	sender    services.EmailSender
	issuer    TokenIssuer
	validator validation.Validator
	log       *zap.Logger
	now       func() time.Time
}

func NewController(cfg Config, deps Deps) (*Controller, error) {
	if deps.Store == nil {
		return nil, errors.New("lifecycle: account store is required")
	}

	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.MailSender
	}

	c := &Controller{
		cfg:       cfg,
		store:     deps.Store,
		hasher:    deps.Hasher,
		generator: deps.Generator,
		sender:    deps.Sender,
		issuer:    deps.Issuer,
		validator: deps.Validator,
		log:       deps.Logger,
		now:       deps.Now,
	}

	if c.now == nil {
		c.now = time.Now
	}
	if c.hasher == nil {
		c.hasher = security.NewBcryptHasher(security.DefaultHashCost)
	}
	if c.generator == nil {
		c.generator = security.NewSecretGenerator()
	}
	if c.validator == nil {
		c.validator = validation.New()
	}
	if c.log == nil {
		c.log = logger.WithModule("lifecycle")
	}
	if c.sender == nil {
		c.sender = &services.SMTPSender{
			Host: defaultSMTPHost,
			Port: defaultSMTPPort,
			User: cfg.MailSender,
			Pass: cfg.MailPassword,
			From: cfg.MailFrom,
		}
	}
	if c.issuer == nil {
		issuer, err := security.NewTokenIssuer(security.TokenConfig{
			Secret: cfg.SigningSecret,
			TTL:    cfg.TokenTTL,
			Clock:  c.now,
		})
		if err != nil {
			return nil, err
		}
		c.issuer = issuer
	}

	return c, nil
}

// Register creates an unverified account and mails its verification code.
// The account and the digest of the code are written in one insert, so a
// failed insert leaves nothing behind. A failed send does not undo the insert.
func (c *Controller) Register(ctx context.Context, req models.RegisterRequest) (err error) {
	const op = "register"
	defer c.record(op, &err)

	if err = c.validator.Validate(req); err != nil {
		return err
	}

	if _, findErr := c.store.GetByEmail(ctx, req.Email); findErr == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(findErr, repository.ErrNotFound) {
		return &StoreError{Op: op, Err: findErr}
	}

	passwordHash, hashErr := c.hasher.Hash(req.Password)
	if hashErr != nil {
		return &HashError{Op: op, Err: hashErr}
	}

	now := c.now()
	account := &models.Account{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.cfg.VerifyTokenTTL > 0 {
		expires := now.Add(c.cfg.VerifyTokenTTL)
		account.VerifyTokenExpiresAt = &expires
	}

	var code string
	for attempt := 1; ; attempt++ {
		var genErr error
		code, genErr = c.generator.Generate()
		if genErr != nil {
			return &SecretError{Op: op, Err: genErr}
		}
		account.VerifyTokenHash = security.DigestToken(code)

		createErr := c.store.Create(ctx, account)
		if createErr == nil {
			break
		}
		// a digest collision says nothing about the email, draw again
		if errors.Is(createErr, repository.ErrDuplicateToken) && attempt < maxVerifyCodeAttempts {
			c.log.Warn("verification code collided, regenerating", zap.Int("attempt", attempt))
			continue
		}
		if errors.Is(createErr, repository.ErrDuplicate) {
			return ErrDuplicateEmail
		}
		return &StoreError{Op: op, Err: createErr}
	}

	msg := services.ValidationEmail(c.cfg.MailFrom, account.Email, c.cfg.ValidateLinkBase, code)
	if sendErr := c.notify(ctx, "validation", msg); sendErr != nil {
		return &NotifyError{Op: op, Err: sendErr}
	}

	c.log.Info("account registered", zap.String("account_id", account.ID))
	return nil
}

// ConfirmEmail marks the account holding code as verified and consumes the code.
func (c *Controller) ConfirmEmail(ctx context.Context, req models.ValidateEmailRequest) (err error) {
	const op = "confirm_email"
	defer c.record(op, &err)

	if err = c.validator.Validate(req); err != nil {
		return err
	}

	account, findErr := c.store.GetByVerifyToken(ctx, security.DigestToken(req.ValidateCode))
	if errors.Is(findErr, repository.ErrNotFound) {
		return ErrInvalidVerificationCode
	}
	if findErr != nil {
		return &StoreError{Op: op, Err: findErr}
	}
	if account.VerifyTokenExpired(c.now()) {
		return ErrInvalidVerificationCode
	}

	account.EmailVerified = true
	account.ClearVerifyToken()
	account.UpdatedAt = c.now()

	if updateErr := c.store.Update(ctx, account); updateErr != nil {
		return &StoreError{Op: op, Err: updateErr}
	}

	c.log.Info("email verified", zap.String("account_id", account.ID))
	return nil
}

// Authenticate checks the credentials of a verified account and returns a
// bearer-prefixed signed token.
func (c *Controller) Authenticate(ctx context.Context, req models.LoginRequest) (token string, err error) {
	const op = "authenticate"
	defer c.record(op, &err)

	if err = c.validator.Validate(req); err != nil {
		return "", err
	}

	account, findErr := c.store.GetByEmail(ctx, req.Email)
	if errors.Is(findErr, repository.ErrNotFound) {
		return "", ErrEmailNotFound
	}
	if findErr != nil {
		return "", &StoreError{Op: op, Err: findErr}
	}

	if !account.EmailVerified {
		return "", ErrEmailNotVerified
	}

	ok, verifyErr := c.hasher.Verify(req.Password, account.PasswordHash)
	if verifyErr != nil {
		return "", &HashError{Op: op, Err: verifyErr}
	}
	if !ok {
		return "", ErrIncorrectPassword
	}

	signed, signErr := c.issuer.Issue(account.ID, account.Name)
	if signErr != nil {
		return "", &TokenError{Op: op, Err: signErr}
	}

	return security.BearerPrefix + signed, nil
}

// RequestPasswordReset stores a fresh reset code hash, replacing any live
// one, and mails the plaintext code. A failed send keeps the stored hash.
func (c *Controller) RequestPasswordReset(ctx context.Context, req models.ForgotPasswordRequest) (err error) {
	const op = "request_reset"
	defer c.record(op, &err)

	if err = c.validator.Validate(req); err != nil {
		return err
	}

	account, findErr := c.store.GetByEmail(ctx, req.Email)
	if errors.Is(findErr, repository.ErrNotFound) {
		return ErrEmailNotFound
	}
	if findErr != nil {
		return &StoreError{Op: op, Err: findErr}
	}

	code, genErr := c.generator.Generate()
	if genErr != nil {
		return &SecretError{Op: op, Err: genErr}
	}

	codeHash, hashErr := c.hasher.Hash(code)
	if hashErr != nil {
		return &HashError{Op: op, Err: hashErr}
	}

	now := c.now()
	expires := now.Add(c.cfg.ResetTokenTTL)
	account.ResetTokenHash = codeHash
	account.ResetTokenExpiresAt = &expires
	account.UpdatedAt = now

	if updateErr := c.store.Update(ctx, account); updateErr != nil {
		return &StoreError{Op: op, Err: updateErr}
	}

	msg := services.ResetEmail(c.cfg.MailFrom, account.Email, c.cfg.ResetLinkBase, code)
	if sendErr := c.notify(ctx, "reset", msg); sendErr != nil {
		return &NotifyError{Op: op, Err: sendErr}
	}

	c.log.Info("password reset requested", zap.String("account_id", account.ID))
	return nil
}

// CompletePasswordReset replaces the password when code matches the live,
// unexpired reset code. A matching but expired code is purged. On a failed
// save the stored code stays usable.
func (c *Controller) CompletePasswordReset(ctx context.Context, req models.ResetPasswordRequest) (err error) {
	const op = "complete_reset"
	defer c.record(op, &err)

	if err = c.validator.Validate(req); err != nil {
		return err
	}

	account, findErr := c.store.GetByEmail(ctx, req.Email)
	if errors.Is(findErr, repository.ErrNotFound) {
		return ErrEmailNotFound
	}
	if findErr != nil {
		return &StoreError{Op: op, Err: findErr}
	}

	if !account.HasResetToken() {
		return ErrInvalidResetCode
	}
	ok, verifyErr := c.hasher.Verify(req.ResetCode, account.ResetTokenHash)
	if verifyErr != nil {
		return &HashError{Op: op, Err: verifyErr}
	}
	if !ok {
		return ErrInvalidResetCode
	}

	now := c.now()
	if account.ResetTokenExpired(now) {
		account.ClearResetToken()
		account.UpdatedAt = now
		if purgeErr := c.store.Update(ctx, account); purgeErr != nil {
			c.log.Warn("failed to purge expired reset code",
				zap.String("account_id", account.ID), zap.Error(purgeErr))
		}
		return ErrResetCodeExpired
	}

	passwordHash, hashErr := c.hasher.Hash(req.Password)
	if hashErr != nil {
		return &HashError{Op: op, Err: hashErr}
	}

	account.PasswordHash = passwordHash
	account.ClearResetToken()
	account.UpdatedAt = now

	if updateErr := c.store.Update(ctx, account); updateErr != nil {
		return &StoreError{Op: op, Err: updateErr}
	}

	c.log.Info("password reset completed", zap.String("account_id", account.ID))
	return nil
}

// notify sends msg under its own deadline. The caller's cancellation does not
// abort a send that has already been committed to.
func (c *Controller) notify(ctx context.Context, kind string, msg services.Message) error {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.NotifyTimeout)
	defer cancel()

	receipt, err := c.sender.Send(sendCtx, msg)
	if err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "failed").Inc()
		return err
	}

	metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
	c.log.Debug("email sent", zap.String("kind", kind), zap.String("message_id", receipt.MessageID))
	return nil
}

func (c *Controller) record(op string, errp *error) {
	err := *errp

	var verrs validation.Errors
	outcome := "ok"
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		outcome = "invalid"
	case isRejection(err):
		outcome = "rejected"
	default:
		outcome = "error"
		c.log.Error("operation failed", zap.String("operation", op), zap.Error(err))
	}

	metrics.LifecycleOperations.WithLabelValues(op, outcome).Inc()
}
