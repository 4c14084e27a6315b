package anonymous

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues short-lived guest sessions so shoppers can build a cart
// before signing in. Sessions live in process memory only; a restart just
// means guests start a fresh cart.
type Service struct {
	tokens    *tokenManager
	accessTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:    newTokenManager(),
		accessTTL: 3 * time.Hour,
	}
}

func (s *Service) Issue(ctx context.Context) (accessToken, anonymousID string, err error) {
	anonymousID = uuid.NewString()
	accessToken, err = s.tokens.Issue(anonymousID, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, anonymousID, nil
}

func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.AnonymousID, nil
}

func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
