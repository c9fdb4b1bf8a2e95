package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

const (
	DefaultTTL      = 7 * 24 * time.Hour
	DefaultProbeTTL = 30 * time.Second

	// touchInterval limits how often LastSeenAt is written
	touchInterval = 5 * time.Minute
)

// Config tunes session lifetimes
type Config struct {
	TTL      time.Duration
	ProbeTTL time.Duration
}

// Service signs users in and out and answers whether a session is authenticated
type Service struct {
	repo    Repository
	gw      Gateway
	sealer  *Sealer
	tokens  *TokenService
	queries *query.Manager
	cfg     Config
	logger  *logger.Logger
	now     func() time.Time
}

// NewService creates a new session service
func NewService(repo Repository, gw Gateway, sealer *Sealer, tokens *TokenService, queries *query.Manager, cfg Config, log *logger.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.ProbeTTL <= 0 {
		cfg.ProbeTTL = DefaultProbeTTL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:    repo,
		gw:      gw,
		sealer:  sealer,
		tokens:  tokens,
		queries: queries,
		cfg:     cfg,
		logger:  log.WithField("component", "session"),
		now:     time.Now,
	}
}

// Current is a resolved session ready to make upstream calls
type Current struct {
	Session *Session
	Cookies []*http.Cookie
	Query   *query.Client
}

// Context returns ctx carrying the upstream cookies
func (c *Current) Context(ctx context.Context) context.Context {
	return WithCookies(ctx, c.Cookies)
}

// LoginForm is the raw sign-in submission
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are present
func (f LoginForm) Validate() (LoginForm, error) {
	var errs validation.Errors
	out := LoginForm{
		Username: validation.Required(&errs, "username", f.Username),
		Password: f.Password,
	}
	if strings.TrimSpace(f.Password) == "" {
		errs.Add("password", "is required")
	}
	return out, errs.Err()
}

// Login signs in upstream, stores the session and returns its browser token
func (s *Service) Login(ctx context.Context, form LoginForm) (*Session, string, error) {
	creds, err := form.Validate()
	if err != nil {
		return nil, "", err
	}

	identity, cookies, err := s.gw.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to sign in: %w", err)
	}

	sealed, err := s.sealer.Seal(cookies)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	username := creds.Username
	if identity != nil && identity.Username != "" {
		username = identity.Username
	}
	sess := &Session{
		ID:            uuid.New(),
		Username:      username,
		SealedCookies: sealed,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.TTL),
		LastSeenAt:    now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.tokens.Generate(sess)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("session started", "session_id", sess.ID, "username", sess.Username)
	return sess, token, nil
}

// Resolve turns a browser token into a live session. Expired sessions are removed.
func (s *Service) Resolve(ctx context.Context, token string) (*Current, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.repo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if sess.Expired(now) {
		if err := s.repo.Delete(ctx, sess.ID); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", sess.ID, "error", err)
		}
		s.dropQueries(ctx, sess.ID)
		return nil, ErrSessionExpired
	}

	cookies, err := s.sealer.Open(sess.SealedCookies)
	if err != nil {
		return nil, err
	}

	if now.Sub(sess.LastSeenAt) > touchInterval {
		if err := s.repo.Touch(ctx, sess.ID, now); err != nil {
			s.logger.Warn("failed to touch session", "session_id", sess.ID, "error", err)
		}
	}

	return &Current{
		Session: sess,
		Cookies: cookies,
		Query:   s.queries.For(sess.ID.String()),
	}, nil
}

// IsAuthenticated probes the finance API with the session's cookies. Any failure,
// including an unreachable API, counts as unauthenticated. Successful probes are
// cached for the probe TTL.
func (s *Service) IsAuthenticated(ctx context.Context, cur *Current) bool {
	_, err := s.Identity(ctx, cur)
	return err == nil
}

// Identity returns the probed user of cur
func (s *Service) Identity(ctx context.Context, cur *Current) (*Identity, error) {
	if cur == nil {
		return nil, ErrSessionNotFound
	}
	identity, err := query.FetchTTL(cur.Context(ctx), cur.Query, query.KeyAuthProbe, s.cfg.ProbeTTL, func(ctx context.Context) (*Identity, error) {
		return s.gw.Me(ctx)
	})
	if err != nil {
		s.logger.Debug("session probe failed", "session_id", cur.Session.ID, "error", err)
		return nil, err
	}
	if identity == nil {
		return nil, ErrSessionNotFound
	}
	return identity, nil
}

// Logout ends the session upstream (best effort) and locally
func (s *Service) Logout(ctx context.Context, cur *Current) error {
	if err := s.gw.Logout(cur.Context(ctx)); err != nil {
		s.logger.Warn("upstream logout failed", "session_id", cur.Session.ID, "error", err)
	}

	s.dropQueries(ctx, cur.Session.ID)
	if err := s.repo.Delete(ctx, cur.Session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("session ended", "session_id", cur.Session.ID)
	return nil
}

func (s *Service) dropQueries(ctx context.Context, id uuid.UUID) {
	if err := s.queries.Drop(ctx, id.String()); err != nil {
		s.logger.Warn("failed to drop session cache", "session_id", id, "error", err)
	}
}

// Cleanup removes expired sessions
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}

// RunCleanup calls Cleanup every interval until ctx is cancelled
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Cleanup(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					s.logger.Error("session cleanup failed", "error", err)
				}
				continue
			}
			if n > 0 {
				s.logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}
