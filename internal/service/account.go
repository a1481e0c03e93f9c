package service

import (
	"context"
	"log/slog"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/session"
	"github.com/vrksatech/market/internal/telemetry"
)

// AuthBackend is the slice of the storefront API the account service uses.
type AuthBackend interface {
	Login(ctx context.Context, email, password string, tenantID int) (*backend.AuthResult, error)
	Register(ctx context.Context, params backend.RegisterParams, tenantID int) (*backend.AuthResult, error)
}

// AccountService authenticates against the backend and binds the
// resulting credential to the caller's session. The cart in the session
// survives login, so an anonymous cart becomes the customer's cart.
type AccountService interface {
	Login(ctx context.Context, sess *session.Session, email, password string) (*domain.User, error)
	Register(ctx context.Context, sess *session.Session, params backend.RegisterParams) (*domain.User, error)
	Logout(ctx context.Context, sess *session.Session) error
}

type accountService struct {
	backend  AuthBackend
	sessions session.Store
	tenantID int
	logger   *slog.Logger
}

func NewAccountService(b AuthBackend, sessions session.Store, tenantID int, logger *slog.Logger) AccountService {
	return &accountService{
		backend:  b,
		sessions: sessions,
		tenantID: tenantID,
		logger:   logger,
	}
}

func (s *accountService) Login(ctx context.Context, sess *session.Session, email, password string) (*domain.User, error) {
	result, err := s.backend.Login(ctx, email, password, s.tenantID)
	if err != nil {
		if m := telemetry.Business; m != nil {
			m.LoginFailed.Inc()
		}
		return nil, err
	}
	return s.bind(ctx, sess, result)
}

func (s *accountService) Register(ctx context.Context, sess *session.Session, params backend.RegisterParams) (*domain.User, error) {
	result, err := s.backend.Register(ctx, params, s.tenantID)
	if err != nil {
		return nil, err
	}
	return s.bind(ctx, sess, result)
}

func (s *accountService) bind(ctx context.Context, sess *session.Session, result *backend.AuthResult) (*domain.User, error) {
	sess.Token = result.Token
	user := result.User
	sess.User = &user

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	if m := telemetry.Business; m != nil {
		m.Logins.WithLabelValues(string(user.Role)).Inc()
	}
	s.logger.Info("session authenticated",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return sess.User, nil
}

// Logout drops the session entirely. The next request starts a fresh
// anonymous session with an empty cart.
func (s *accountService) Logout(ctx context.Context, sess *session.Session) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	s.logger.Info("session ended", slog.String("session_id", sess.ID))
	return nil
}
