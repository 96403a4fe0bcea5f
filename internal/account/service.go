package account

import (
	"context"
	"fmt"

	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
	"nutritrack/internal/session"
)

// Loading/error keys used by the auth and profile screens.
const (
	KeyAuth    = "auth"
	KeyProfile = "perfil"
)

type accountAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context) (*api.Profile, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.Profile, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, email string) error
}

type Service struct {
	api     accountAPI
	session *session.Store
	store   *appstate.Store
}

func NewService(client accountAPI, sess *session.Store, store *appstate.Store) *Service {
	return &Service{api: client, session: sess, store: store}
}

// Register creates an account and signs the user in. The password confirmation
// is checked locally before anything goes over the wire.
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) error {
	if req.Password != req.Password2 {
		s.store.SetError(KeyAuth, "senhas_nao_coincidem")
		return fmt.Errorf("senhas_nao_coincidem")
	}

	s.store.SetLoading(KeyAuth, "1")
	defer s.store.SetLoading(KeyAuth, "")

	token, err := s.api.Register(ctx, req)
	if err != nil {
		s.store.SetError(KeyAuth, err.Error())
		return fmt.Errorf("register: %w", err)
	}
	if err := s.session.SetToken(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.store.ClearError(KeyAuth)
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) error {
	s.store.SetLoading(KeyAuth, "1")
	defer s.store.SetLoading(KeyAuth, "")

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.store.SetError(KeyAuth, err.Error())
		return fmt.Errorf("login: %w", err)
	}
	if err := s.session.SetToken(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.store.ClearError(KeyAuth)
	return nil
}

// Logout clears the session; the installed logout hook handles the return to
// the login flow.
func (s *Service) Logout() {
	s.session.Logout()
}

func (s *Service) Profile(ctx context.Context) (*api.Profile, error) {
	s.store.SetLoading(KeyProfile, "1")
	defer s.store.SetLoading(KeyProfile, "")

	profile, err := s.api.Profile(ctx)
	if err != nil {
		s.store.SetError(KeyProfile, err.Error())
		return nil, fmt.Errorf("load profile: %w", err)
	}

	s.store.ClearError(KeyProfile)
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.Profile, error) {
	s.store.SetLoading(KeyProfile, "1")
	defer s.store.SetLoading(KeyProfile, "")

	profile, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		s.store.SetError(KeyProfile, err.Error())
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.store.ClearError(KeyProfile)
	return profile, nil
}

func (s *Service) ChangePassword(ctx context.Context, password, password2 string) error {
	if password != password2 {
		s.store.SetError(KeyAuth, "senhas_nao_coincidem")
		return fmt.Errorf("senhas_nao_coincidem")
	}

	req := api.ChangePasswordRequest{Password: password, Password2: password2}
	if err := s.api.ChangePassword(ctx, req); err != nil {
		s.store.SetError(KeyAuth, err.Error())
		return fmt.Errorf("change password: %w", err)
	}

	s.store.ClearError(KeyAuth)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := s.api.ResetPassword(ctx, email); err != nil {
		s.store.SetError(KeyAuth, err.Error())
		return fmt.Errorf("reset password: %w", err)
	}

	s.store.ClearError(KeyAuth)
	return nil
}
