package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/bookstore-backend/pkg/config"
)

var (
	jwtSigningMethod = jwt.SigningMethodHS256

	ErrMissingSubject = errors.New("token is missing user id")
)

// MintAccessToken issues a signed JWT for payload. Production tokens come
// from the identity platform; this mirrors its claim layout for local runs
// and tests.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkConfig(cfg, true); err != nil {
		return "", err
	}
	if payload.UserID == uuid.Nil {
		return "", errors.New("user id is required")
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	registered := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   payload.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
		ID:        jti,
	}
	if cfg.Audience != "" {
		registered.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, AccessTokenClaims{
		UserID:           payload.UserID,
		Email:            payload.Email,
		RegisteredClaims: registered,
	}).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer, audience and expiry, then
// resolves the user id from the user_id claim or, failing that, the subject.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if err := checkConfig(cfg, false); err != nil {
		return nil, err
	}

	claims := &AccessTokenClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, secretFor(cfg), parserOptions(cfg)...); err != nil {
		return nil, err
	}

	if claims.UserID == uuid.Nil {
		sub, err := uuid.Parse(claims.Subject)
		if err != nil || sub == uuid.Nil {
			return nil, ErrMissingSubject
		}
		claims.UserID = sub
	}
	return claims, nil
}

func secretFor(cfg config.JWTConfig) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if token.Method != jwtSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}
}

func parserOptions(cfg config.JWTConfig) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	return opts
}

func checkConfig(cfg config.JWTConfig, minting bool) error {
	var errs []error
	if cfg.Secret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if minting && cfg.Issuer == "" {
		errs = append(errs, errors.New("jwt issuer is required"))
	}
	if minting && cfg.ExpirationMinutes <= 0 {
		errs = append(errs, errors.New("jwt expiration minutes must be positive"))
	}
	return errors.Join(errs...)
}
