package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"

	"sqlgenie/internal/mailer"
	"sqlgenie/internal/models"
	"sqlgenie/internal/repositories"
	"sqlgenie/internal/utils"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 30 * 24 * time.Hour
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrInvalidOTP         = errors.New("invalid or expired reset code")
)

type AuthService struct {
	userRepo *repositories.UserRepository
	tokens   *repositories.TokenStore
	mail     mailer.Mailer
}

func NewAuthService(userRepo *repositories.UserRepository, tokens *repositories.TokenStore, mail mailer.Mailer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (string, string, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if existing != nil {
		return "", "", ErrUserExists
	}

	hashed, err := utils.Hash(password)
	if err != nil {
		return "", "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", err
	}

	return s.tokenPair(user.ID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}

	if err := utils.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", "", ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("failed to update last login for %s: %v", user.ID, err)
	}

	return s.tokenPair(user.ID)
}

// Refresh rotates the token pair. The old pair's JTI is blacklisted so a
// stolen refresh token stops working after first use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret())
	if err != nil {
		return "", "", ErrInvalidToken
	}

	revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return "", "", err
	}
	if revoked {
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil || user == nil {
		return "", "", ErrInvalidToken
	}

	if err := s.tokens.Blacklist(ctx, claims.ID); err != nil {
		return "", "", err
	}

	return s.tokenPair(claims.UserID)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret())
	if err != nil {
		// Already unusable, nothing to revoke.
		return nil
	}
	return s.tokens.Blacklist(ctx, claims.ID)
}

// ForgotPassword issues a one-time reset code. It succeeds silently for
// unknown emails so the endpoint does not leak account existence.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.tokens.StoreOTP(ctx, user.Email, code); err != nil {
		return err
	}
	return s.mail.SendPasswordResetOTP(ctx, user.Email, code)
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.tokens.ConsumeOTP(ctx, email, code); err != nil {
		if errors.Is(err, repositories.ErrOTPNotFound) {
			return ErrInvalidOTP
		}
		return err
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidOTP
	}

	hashed, err := utils.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashed)
}

func (s *AuthService) tokenPair(userID uuid.UUID) (string, string, error) {
	jti := uuid.NewString()

	accessToken, err := utils.GenerateJWT(userID, jti, AccessTokenDuration, utils.AccessTokenSecret())
	if err != nil {
		return "", "", err
	}

	refreshToken, err := utils.GenerateJWT(userID, jti, RefreshTokenDuration, utils.RefreshTokenSecret())
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
