package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrResumeTokenInvalid  = errors.New("resume token invalid")
	ErrResumeNotConfigured = errors.New("resume tokens not configured")
)

// ResumeClaims identifies the saved game a token holder may reopen.
type ResumeClaims struct {
	UserID    string
	GameID    string
	ExpiresAt time.Time
}

// ResumeTokenService signs and verifies HS256 tokens that name a saved game.
type ResumeTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewResumeTokenService returns a service signing with secret. A zero ttl means one day.
func NewResumeTokenService(secret, issuer string, ttl time.Duration) *ResumeTokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResumeTokenService{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue returns a token allowing userID to resume gameID until the ttl elapses.
func (s *ResumeTokenService) Issue(userID, gameID string) (string, error) {
	if s == nil || s.secret == "" {
		return "", ErrResumeNotConfigured
	}
	if userID == "" || gameID == "" {
		return "", fmt.Errorf("user and game are required")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"gid": gameID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, issuer and expiry of token and returns its claims.
func (s *ResumeTokenService) Verify(token string) (ResumeClaims, error) {
	if s == nil || s.secret == "" {
		return ResumeClaims{}, ErrResumeNotConfigured
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !parsed.Valid {
		return ResumeClaims{}, fmt.Errorf("%w: %v", ErrResumeTokenInvalid, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ResumeClaims{}, ErrResumeTokenInvalid
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return ResumeClaims{}, fmt.Errorf("%w: issuer", ErrResumeTokenInvalid)
	}
	sub, _ := claims["sub"].(string)
	gid, _ := claims["gid"].(string)
	exp, _ := claims["exp"].(float64)
	if sub == "" || gid == "" {
		return ResumeClaims{}, fmt.Errorf("%w: missing subject or game", ErrResumeTokenInvalid)
	}
	return ResumeClaims{UserID: sub, GameID: gid, ExpiresAt: time.Unix(int64(exp), 0)}, nil
}
