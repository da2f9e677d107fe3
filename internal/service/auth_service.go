package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comtooin/support-center/internal/auth"
	"github.com/comtooin/support-center/internal/config"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

const (
	loginFailLimit  = 5
	loginFailWindow = 15 * time.Minute
)

// AuthService verifies the statically configured administrative principal and
// issues time-boxed bearer credentials. When redis is reachable, repeated
// failed logins from one client are throttled; without redis the throttle is
// simply off.
type AuthService struct {
	adminID       string
	adminPassword string
	tokenMgr      *auth.TokenManager
	redis         *redis.Client
	logger        *zap.Logger
}

// NewAuthService builds the service. redisClient may be nil.
func NewAuthService(cfg config.AuthConfig, redisClient *redis.Client, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminID:       cfg.AdminID,
		adminPassword: cfg.AdminPassword,
		tokenMgr:      auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		redis:         redisClient,
		logger:        logger,
	}
}

// TokenManager exposes the manager for the admin middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login compares the supplied credentials against the configured ones in
// constant time and returns a signed admin credential on match.
func (s *AuthService) Login(ctx context.Context, id, password, clientIP string) (string, time.Time, error) {
	if s.throttled(ctx, clientIP) {
		return "", time.Time{}, apperrors.NewUnauthorized("too many failed login attempts, try again later")
	}

	idMatch := subtle.ConstantTimeCompare([]byte(id), []byte(s.adminID))
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword))
	if idMatch&passMatch != 1 {
		s.recordFailure(ctx, clientIP)
		return "", time.Time{}, apperrors.NewUnauthorized("invalid id or password")
	}

	s.clearFailures(ctx, clientIP)
	token, expiresAt, err := s.tokenMgr.GenerateToken(s.adminID)
	if err != nil {
		return "", time.Time{}, apperrors.NewUpstreamError(err)
	}
	return token, expiresAt, nil
}

func (s *AuthService) throttled(ctx context.Context, clientIP string) bool {
	if s.redis == nil || clientIP == "" {
		return false
	}
	count, err := s.redis.Get(ctx, failKey(clientIP)).Int()
	if err != nil {
		return false
	}
	return count >= loginFailLimit
}

func (s *AuthService) recordFailure(ctx context.Context, clientIP string) {
	if s.redis == nil || clientIP == "" {
		return
	}
	key := failKey(clientIP)
	if err := s.redis.Incr(ctx, key).Err(); err != nil {
		s.logger.Debug("login throttle unavailable", zap.Error(err))
		return
	}
	s.redis.Expire(ctx, key, loginFailWindow)
}

func (s *AuthService) clearFailures(ctx context.Context, clientIP string) {
	if s.redis == nil || clientIP == "" {
		return
	}
	s.redis.Del(ctx, failKey(clientIP))
}

func failKey(clientIP string) string {
	return fmt.Sprintf("admin_login_fail:%s", clientIP)
}
