package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/dto"
	"github.com/lshigami/acebrainiac/internal/session"
	"github.com/lshigami/acebrainiac/internal/transport"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
	mePath     = "/auth/me"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*dto.AdminUserDTO, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (*dto.AdminUserDTO, error)
}

type authService struct {
	client  *transport.Client
	session *session.Session
}

func NewAuthService(client *transport.Client) AuthService {
	return &authService{client: client, session: client.Session()}
}

// Login exchanges credentials for a bearer token and stores it in the session.
func (s *authService) Login(ctx context.Context, email, password string) (*dto.AdminUserDTO, error) {
	req := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := core.ValidateStruct(req); err != nil {
		return nil, err
	}
	body, err := s.client.PostJSON(ctx, loginPath, req)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		return nil, core.NewNoticeError(core.Notice(err, "Login failed"), err)
	}

	var resp dto.LoginResponse
	if err := transport.DecodeData(body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, core.NewNoticeError("Login failed", errors.New("login response carried no token"))
	}
	if err := s.session.SetToken(resp.Token); err != nil {
		return nil, err
	}
	if exp, ok := s.session.ExpiresAt(); ok {
		log.Info().Str("email", req.Email).Time("expires_at", exp).Msg("Logged in")
	} else {
		log.Info().Str("email", req.Email).Msg("Logged in")
	}
	return resp.User, nil
}

// Logout tells the backend, then clears the local session even if that call
// failed.
func (s *authService) Logout(ctx context.Context) error {
	if s.session.Authenticated() {
		if _, err := s.client.PostJSON(ctx, logoutPath, nil); err != nil {
			log.Warn().Err(err).Msg("Backend logout failed, clearing local session anyway")
		}
	}
	return s.session.Logout()
}

func (s *authService) Whoami(ctx context.Context) (*dto.AdminUserDTO, error) {
	if !s.session.Authenticated() {
		return nil, core.NewNoticeError("Not logged in", session.ErrNotAuthenticated)
	}
	if s.session.Expired(time.Now()) {
		log.Warn().Msg("Session token has expired")
	}
	body, err := s.client.Get(ctx, mePath, nil)
	if err != nil {
		return nil, core.NewNoticeError(core.Notice(err, "Failed to load profile"), err)
	}
	var user dto.AdminUserDTO
	if err := transport.DecodeData(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
