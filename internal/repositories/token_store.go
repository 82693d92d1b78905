package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps short-lived tokens in Redis with explicit TTLs:
// password-reset OTPs and the blacklist of revoked refresh-token IDs.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

const (
	otpTTL       = 10 * time.Minute
	blacklistTTL = 30 * 24 * time.Hour // matches refresh token lifetime
)

var ErrOTPNotFound = errors.New("otp not found or expired")

func (s *TokenStore) StoreOTP(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, "otp:"+email, code, otpTTL).Err()
}

// ConsumeOTP validates the code for the email and deletes it on success so
// each OTP is single-use.
func (s *TokenStore) ConsumeOTP(ctx context.Context, email, code string) error {
	key := "otp:" + email
	stored, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPNotFound
		}
		return err
	}
	if stored != code {
		return ErrOTPNotFound
	}
	return s.rdb.Del(ctx, key).Err()
}

func (s *TokenStore) Blacklist(ctx context.Context, jti string) error {
	return s.rdb.Set(ctx, "blacklist:"+jti, "true", blacklistTTL).Err()
}

func (s *TokenStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := s.rdb.Exists(ctx, "blacklist:"+jti).Result()
	return exists == 1, err
}
