package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

const (
	DefaultRole       = "admin"
	minPasswordLength = 8
)

// LoginResult is a signed token plus the agency it was issued to
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Agency    *domain.Agency
}

// AuthService issues and validates agency bearer tokens
type AuthService struct {
	repo   repository.AgencyRepository
	config config.Auth
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(repo repository.AgencyRepository, cfg config.Auth, log *zap.Logger) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:   repo,
		config: cfg,
		log:    log,
		now:    time.Now,
	}
}

// Login checks credentials and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	agency, err := s.repo.GetAgencyByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Info("Login rejected: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storeError(err, "load agency")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agency.PasswordHash), []byte(password)); err != nil {
		s.log.Info("Login rejected: wrong password", zap.String("agency_id", agency.ID))
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.config.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   agency.ID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info("Agency logged in", zap.String("agency_id", agency.ID))

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Agency: agency}, nil
}

// Validate returns the agency ID a live token was issued to
func (s *AuthService) Validate(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	revoked, err := s.repo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return "", storeError(err, "check token revocation")
	}
	if revoked {
		return "", domain.ErrInvalidToken.WithMessage("token has been revoked")
	}

	return claims.Subject, nil
}

// Logout revokes the token until it expires; an already expired token needs no revocation
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if errors.Is(err, domain.ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.repo.RevokeToken(ctx, &domain.RevokedToken{
		JTI:       claims.ID,
		AgencyID:  claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	})
	if err != nil {
		return storeError(err, "revoke token")
	}

	s.log.Info("Agency logged out", zap.String("agency_id", claims.Subject))
	return nil
}

// Me returns the agency behind an authenticated request
func (s *AuthService) Me(ctx context.Context, agencyID string) (*domain.Agency, error) {
	agency, err := s.repo.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, storeError(err, "load agency")
	}
	return agency, nil
}

// Register creates an agency account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.Agency, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingName.WithMessage("agency name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, domain.ErrInvalidAgency.WithMessage("invalid email address %q", email)
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrInvalidAgency.WithMessage("password must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = DefaultRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	agency := &domain.Agency{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(addr.Address),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.CreateAgency(ctx, agency); err != nil {
		return nil, storeError(err, "create agency")
	}

	s.log.Info("Agency registered",
		zap.String("agency_id", agency.ID),
		zap.String("email", agency.Email))

	return agency, nil
}

func (s *AuthService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken.Wrap(err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
