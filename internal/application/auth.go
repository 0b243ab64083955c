package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
	"github.com/bnema/campus-cli/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService owns the persisted sign-in: the auth token in the secret store and the user
// record in the state store.
type AuthService struct {
	secrets ports.SecretStore
	state   ports.StateStore
	clock   ports.Clock
	logger  *log.Logger
}

var _ ports.Identity = (*AuthService)(nil)

func NewAuthService(secrets ports.SecretStore, state ports.StateStore, clock ports.Clock, logger *log.Logger) *AuthService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}

	return &AuthService{secrets: secrets, state: state, clock: clock, logger: logger.Named("auth")}
}

// Establish persists a successful login.
func (s *AuthService) Establish(ctx context.Context, result domain.LoginResult) (domain.User, error) {
	if !result.User.Identified() {
		return domain.User{}, errors.New("login response carries no user id")
	}

	encoded, err := json.Marshal(result.User)
	if err != nil {
		return domain.User{}, fmt.Errorf("encode user: %w", err)
	}

	if result.Token != "" {
		if err := s.secrets.Put(ctx, ports.SecretKeyAuthToken, result.Token); err != nil {
			return domain.User{}, fmt.Errorf("store auth token: %w", err)
		}
	} else if err := s.secrets.Delete(ctx, ports.SecretKeyAuthToken); err != nil {
		return domain.User{}, fmt.Errorf("clear previous auth token: %w", err)
	}

	if err := s.state.Put(ctx, ports.StateKeyUser, string(encoded)); err != nil {
		if result.Token != "" {
			if rollbackErr := s.secrets.Delete(ctx, ports.SecretKeyAuthToken); rollbackErr != nil {
				return domain.User{}, fmt.Errorf("store user and rollback auth token: %w", errors.Join(err, rollbackErr))
			}
		}
		return domain.User{}, fmt.Errorf("store user: %w", err)
	}

	s.logger.Debug("signed in", log.String("user", string(result.User.ID)), log.String("role", string(result.User.Role)))
	return result.User, nil
}

// Logout clears the token, the user record and the selected tenant.
func (s *AuthService) Logout(ctx context.Context) error {
	var errs []error
	if err := s.secrets.Delete(ctx, ports.SecretKeyAuthToken); err != nil {
		errs = append(errs, fmt.Errorf("delete auth token: %w", err))
	}
	for _, key := range []string{ports.StateKeyUser, ports.StateKeyCurrentTenantID} {
		if err := s.state.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

// CurrentUser returns the stored user unless the stored token has expired.
func (s *AuthService) CurrentUser(ctx context.Context) (domain.User, bool) {
	raw, err := s.state.Get(ctx, ports.StateKeyUser)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.Warn("read stored user", log.ErrorField(err))
		}
		return domain.User{}, false
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("decode stored user", log.ErrorField(err))
		return domain.User{}, false
	}
	if !user.Identified() {
		return domain.User{}, false
	}

	if token := s.Token(ctx); token != "" && s.expired(token) {
		s.logger.Debug("stored session expired", log.String("user", string(user.ID)))
		return domain.User{}, false
	}

	return user, true
}

// Token returns the stored auth token, or "" when there is none. It matches
// httpapi.TokenSource.
func (s *AuthService) Token(ctx context.Context) string {
	token, err := s.secrets.Get(ctx, ports.SecretKeyAuthToken)
	if err != nil {
		if !errors.Is(err, domain.ErrSecretNotFound) {
			s.logger.Debug("read auth token", log.ErrorField(err))
		}
		return ""
	}

	return strings.TrimSpace(token)
}

// expired reads exp without verifying the signature; only the backend can verify it. Opaque
// tokens never expire locally.
func (s *AuthService) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return !s.clock.Now().Before(exp.Time)
}
