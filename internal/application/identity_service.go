package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	repo "github.com/oksasatya/go-pizza-api/internal/domain/repository"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/metrics"
)

const (
	msgActivationLinkExpired = "The activation email is not valid anymore. Please contact your administrator."
	msgResetLinkExpired      = "The password reset link is not valid anymore. Please request a new one."
)

type IdentityOptions struct {
	ActivationMaxAge    time.Duration
	PasswordResetMaxAge time.Duration
}

// IdentityService owns the account lifecycle: registration, activation,
// sessions and password resets.
type IdentityService struct {
	Users    repo.UserRepository
	Revoked  repo.RevokedTokenRepository
	Tx       repo.Transactor
	Hasher   *helpers.PasswordHasher
	JWT      *helpers.JWTManager
	Tokens   *helpers.SignedTokenCodec
	Notifier Notifier
	Logger   *logrus.Logger
	Opts     IdentityOptions
}

func NewIdentityService(
	users repo.UserRepository,
	revoked repo.RevokedTokenRepository,
	tx repo.Transactor,
	hasher *helpers.PasswordHasher,
	jwt *helpers.JWTManager,
	tokens *helpers.SignedTokenCodec,
	notifier Notifier,
	logger *logrus.Logger,
	opts IdentityOptions,
) *IdentityService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &IdentityService{
		Users:    users,
		Revoked:  revoked,
		Tx:       tx,
		Hasher:   hasher,
		JWT:      jwt,
		Tokens:   tokens,
		Notifier: notifier,
		Logger:   logger,
		Opts:     opts,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Session is the result of a successful login or activation.
type Session struct {
	User   *entity.User
	Tokens TokenPair
}

type RegisterInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Gender         entity.Gender
	PhoneNumber    string
	IdentityNumber string
	Address        string
}

// Register creates a DEACTIVATED user and sends an activation token. The
// storage unique constraint decides between concurrent registrations.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (u *entity.User, err error) {
	defer func() { metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	email := entity.NormalizeEmail(in.Email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, internalErr(err)
	}
	if err := CheckPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, internalErr(fmt.Errorf("hash password: %w", err))
	}
	u = &entity.User{
		Email:           email,
		SecretHash:      hash,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Gender:          in.Gender,
		PhoneNumber:     in.PhoneNumber,
		IdentityNumber:  in.IdentityNumber,
		Address:         in.Address,
		IsVerifiedEmail: false,
		Role:            entity.RoleUser,
		Status:          entity.StatusDeactivated,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, internalErr(err)
	}

	// The account exists at this point; a failed send is recoverable via forgot-password.
	if err := s.sendActivation(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("activation email not sent")
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

func (s *IdentityService) sendActivation(ctx context.Context, u *entity.User) error {
	token, err := s.Tokens.Issue(u.ID, helpers.PurposeActivation)
	if err != nil {
		return fmt.Errorf("issue activation token: %w", err)
	}
	return s.Notifier.SendActivation(ctx, u, token)
}

// Login checks, in order, that the user exists, is ACTIVE and knows the password.
func (s *IdentityService) Login(ctx context.Context, email, password string) (sess *Session, err error) {
	defer func() { metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, internalErr(err)
	}
	if !u.IsActive() {
		return nil, ErrNotActivated
	}
	if !s.Hasher.Verify(u.SecretHash, password) {
		s.Logger.WithField("user_id", u.ID).Info("login rejected: invalid credentials")
		return nil, ErrInvalidCredentials
	}
	pair, err := s.issuePair(u.ID, "login")
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Tokens: pair}, nil
}

// Activate consumes an ACTIVATION token, flips the user to ACTIVE and opens a session.
// The token is written to the revocation ledger in the same transaction.
func (s *IdentityService) Activate(ctx context.Context, token string) (sess *Session, err error) {
	defer func() { metrics.ActivationsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	if token == "" {
		return nil, ErrInvalidActivationToken
	}
	subject, err := decodeSingleUse(s.Tokens.Decode(token, s.Opts.ActivationMaxAge, helpers.PurposeActivation), msgActivationLinkExpired)
	if err != nil {
		return nil, err
	}

	var u *entity.User
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var gerr error
		u, gerr = s.Users.GetByIDForUpdate(ctx, subject)
		if gerr != nil {
			if errors.Is(gerr, repo.ErrNotFound) {
				return ErrUnknownUser
			}
			return internalErr(gerr)
		}
		if aerr := u.Activate(); aerr != nil {
			if errors.Is(aerr, entity.ErrAlreadyActive) {
				return ErrAlreadyActivated
			}
			return internalErr(aerr)
		}
		if cerr := s.consume(ctx, token, u.ID); cerr != nil {
			return cerr
		}
		if uerr := s.Users.Update(ctx, u); uerr != nil {
			return internalErr(uerr)
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	s.Logger.WithField("user_id", u.ID).Info("user activated")

	pair, err := s.issuePair(u.ID, "activation")
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Tokens: pair}, nil
}

// Logout revokes every presented session token. Tokens that no longer decode
// are still revoked, without a user link.
func (s *IdentityService) Logout(ctx context.Context, tokens ...string) error {
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		rt := &entity.RevokedToken{Token: tok}
		if claims, err := s.JWT.ParseAccessToken(tok); err == nil {
			rt.UserID = &claims.UserID
		} else if claims, err := s.JWT.ParseRefreshToken(tok); err == nil {
			rt.UserID = &claims.UserID
		}
		if _, err := s.Revoked.Revoke(ctx, rt); err != nil {
			return internalErr(err)
		}
	}
	return nil
}

// RequestPasswordReset sends a reset link to ACTIVE users and a fresh
// activation link to everyone else. Unknown emails yield ErrUnknownUser; the
// HTTP layer decides whether to disclose that.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUnknownUser
		}
		return internalErr(err)
	}
	if !u.IsActive() {
		if err := s.sendActivation(ctx, u); err != nil {
			return internalErr(err)
		}
		s.Logger.WithField("user_id", u.ID).Info("forgot-password: activation email re-sent")
		return nil
	}
	token, err := s.Tokens.Issue(u.ID, helpers.PurposePasswordReset)
	if err != nil {
		return internalErr(fmt.Errorf("issue reset token: %w", err))
	}
	if err := s.Notifier.SendPasswordReset(ctx, u, token); err != nil {
		return internalErr(err)
	}
	s.Logger.WithField("user_id", u.ID).Info("forgot-password: reset email sent")
	return nil
}

// ResetPassword sets a new secret and revokes the reset token in one
// transaction. A token can be consumed once.
func (s *IdentityService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := CheckPassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := s.ensureNotRevoked(ctx, token); err != nil {
		return err
	}
	subject, err := decodeSingleUse(s.Tokens.Decode(token, s.Opts.PasswordResetMaxAge, helpers.PurposePasswordReset), msgResetLinkExpired)
	if err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return internalErr(fmt.Errorf("hash password: %w", err))
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, gerr := s.Users.GetByIDForUpdate(ctx, subject)
		if gerr != nil {
			if errors.Is(gerr, repo.ErrNotFound) {
				return ErrUnknownUser
			}
			return internalErr(gerr)
		}
		if err := s.consume(ctx, token, u.ID); err != nil {
			return err
		}
		u.SecretHash = hash
		if uerr := s.Users.Update(ctx, u); uerr != nil {
			return internalErr(uerr)
		}
		return nil
	})
	if err != nil {
		return AsError(err)
	}
	s.Logger.WithField("user_id", subject).Info("password reset")
	return nil
}

// RefreshSession rotates a refresh token: the presented token is revoked and
// a new pair is issued.
func (s *IdentityService) RefreshSession(ctx context.Context, refreshToken string) (pair TokenPair, err error) {
	defer func() {
		if err != nil {
			metrics.TokensIssuedTotal.WithLabelValues("refresh", "error").Inc()
		}
	}()

	if refreshToken == "" {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if err := s.ensureNotRevoked(ctx, refreshToken); err != nil {
		return TokenPair{}, err
	}
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, sessionTokenError(err)
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, gerr := s.Users.GetByID(ctx, claims.UserID)
		if gerr != nil {
			if errors.Is(gerr, repo.ErrNotFound) {
				return ErrUnknownUser
			}
			return internalErr(gerr)
		}
		if !u.IsActive() {
			return ErrNotActivated
		}
		return s.consume(ctx, refreshToken, u.ID)
	})
	if err != nil {
		return TokenPair{}, AsError(err)
	}
	return s.issuePair(claims.UserID, "refresh")
}

// Authenticate resolves an access token to an ACTIVE user.
func (s *IdentityService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, sessionTokenError(err)
	}
	if err := s.ensureNotRevoked(ctx, accessToken); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, internalErr(err)
	}
	if !u.IsActive() {
		return nil, ErrNotActivated
	}
	return u, nil
}

func (s *IdentityService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, internalErr(err)
	}
	return u, nil
}

func (s *IdentityService) issuePair(userID, flow string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues(flow, "error").Inc()
		s.Logger.WithError(err).WithField("user_id", userID).Error("generate access token failed")
		return TokenPair{}, internalErr(err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues(flow, "error").Inc()
		s.Logger.WithError(err).WithField("user_id", userID).Error("generate refresh token failed")
		return TokenPair{}, internalErr(err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(flow, "success").Inc()
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *IdentityService) ensureNotRevoked(ctx context.Context, token string) error {
	revoked, err := s.Revoked.IsRevoked(ctx, token)
	if err != nil {
		return internalErr(err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

// consume appends token to the ledger and fails if another request got there first.
func (s *IdentityService) consume(ctx context.Context, token, userID string) error {
	inserted, err := s.Revoked.Revoke(ctx, &entity.RevokedToken{Token: token, UserID: &userID})
	if err != nil {
		return internalErr(err)
	}
	if !inserted {
		return ErrTokenRevoked
	}
	return nil
}

func decodeSingleUse(res helpers.DecodeResult, expiredMsg string) (string, error) {
	switch r := res.(type) {
	case helpers.Decoded:
		return r.SubjectID, nil
	case helpers.WrongPurpose:
		return "", ErrTokenWrongPurpose.WithMessage(fmt.Sprintf("Wrong token type (needed %s, got %s)", r.Expected, r.Actual))
	case helpers.MissingSubject:
		return "", ErrTokenMissingSubject
	case helpers.SignatureExpired:
		return "", ErrTokenExpired.WithMessage(expiredMsg)
	default:
		return "", ErrTokenInvalid
	}
}

func sessionTokenError(err error) *Error {
	if errors.Is(err, helpers.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}
