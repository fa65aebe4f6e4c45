package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fdg312/health-export/internal/config"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidUserID = errors.New("invalid user id")
)

const (
	DevUserID = "dev-user"
	// LocalUserID owns every request when AUTH_MODE=none.
	LocalUserID = "local"

	devTTL = 30 * 24 * time.Hour
)

// Service issues and verifies access tokens.
type Service struct {
	config *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// SignInDev signs in without credentials and issues a 30-day JWT.
func (s *Service) SignInDev(ctx context.Context, req DevAuthRequest) (*DevAuthResponse, error) {
	_ = ctx

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = DevUserID
	}
	if len(userID) > 128 || strings.ContainsAny(userID, "/\\") {
		return nil, ErrInvalidUserID
	}

	accessToken, err := s.generateJWTWithTTL(userID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(devTTL.Seconds()),
		UserID:      userID,
	}, nil
}

// generateJWT signs an HS256 token for userID.
func (s *Service) generateJWT(userID string) (string, error) {
	return s.generateJWTWithTTL(userID, time.Duration(s.config.JWTTTLMinutes)*time.Minute)
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT validates a token and returns its subject.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.JWTIssuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
