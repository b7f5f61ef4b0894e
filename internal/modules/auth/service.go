package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"homecrew/internal/domain"
	"homecrew/internal/notification"
	"homecrew/internal/pkg/validator"
	"homecrew/internal/repository"
)

// Service registers customers, verifies their email with a one-time code and
// issues access tokens.
type Service struct {
	users  UserRepository
	codes  CodeStore
	tokens TokenIssuer
	sink   notification.Sink
	pepper string
	logger *zap.Logger
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(
	users UserRepository,
	codes CodeStore,
	tokens TokenIssuer,
	sink notification.Sink,
	pepper string,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:  users,
		codes:  codes,
		tokens: tokens,
		sink:   sink,
		pepper: pepper,
		logger: logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified customer account and mails a verification
// code. Company accounts are never created here.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = normalizeEmail(req.Email)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, duplicateErr(existing)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPendingVerification
		}
		return nil, err
	}

	if err := s.issueCode(ctx, user); err != nil {
		// The account exists; the customer can ask for a new code.
		s.logger.Warn("verification code not delivered",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	user.PasswordHash = ""
	return user, nil
}

func duplicateErr(u *domain.User) error {
	if u.EmailVerified {
		return ErrAlreadyVerified
	}
	return ErrPendingVerification
}

// ResendCode replaces the pending code of an unverified account.
func (s *Service) ResendCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	return s.issueCode(ctx, user)
}

// Verify checks the emailed code and marks the account verified. Verifying
// an already verified account succeeds.
func (s *Service) Verify(ctx context.Context, email, code string) (*domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if user.EmailVerified {
		user.PasswordHash = ""
		return user, nil
	}

	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(s.digest(email, code))) != 1 {
		return nil, ErrInvalidCode
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		s.logger.Warn("verification code not deleted", zap.String("user_id", user.ID), zap.Error(err))
	}

	user.EmailVerified = true
	user.PasswordHash = ""
	return user, nil
}

// Login checks credentials of a verified account and returns an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// EnsureAdmin makes sure a verified company account with the given
// credentials exists. It is run by the seeder and at startup.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleCompany {
			return nil, fmt.Errorf("%w: %s", ErrNotAdmin, email)
		}
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) != nil {
			hash, err := s.hashPassword(password)
			if err != nil {
				return nil, err
			}
			if err := s.users.UpdatePassword(ctx, existing.ID, hash); err != nil {
				return nil, err
			}
			s.logger.Info("admin password rotated", zap.String("user_id", existing.ID))
		}
		existing.PasswordHash = ""
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleCompany,
		EmailVerified: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("admin account created", zap.String("user_id", admin.ID))

	admin.PasswordHash = ""
	return admin, nil
}

func (s *Service) issueCode(ctx context.Context, user *domain.User) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, user.Email, s.digest(user.Email, code)); err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	if s.sink == nil {
		return nil
	}
	return s.sink.Send(ctx, notification.VerificationCode(user.Email, user.Name, code))
}

func (s *Service) digest(email, code string) string {
	sum := sha256.Sum256([]byte(s.pepper + ":" + email + ":" + code))
	return hex.EncodeToString(sum[:])
}

// generateCode returns a uniformly random six digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
