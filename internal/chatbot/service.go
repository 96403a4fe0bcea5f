package chatbot

import (
	"context"
	"fmt"
	"strings"

	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
)

const KeyChat = "chat"

type chatAPI interface {
	SendChatMessage(ctx context.Context, req api.SendChatRequest) (*api.SendChatResponse, error)
}

// Service holds the active chat session. The backend assigns the session id
// on the first message; subsequent messages reuse it until Reset or an
// explicit new-session send.
type Service struct {
	api       chatAPI
	store     *appstate.Store
	sessionID *int64
}

func NewService(client chatAPI, store *appstate.Store) *Service {
	return &Service{api: client, store: store}
}

// SessionID returns the active session id, or 0 and false when no session is
// open yet.
func (s *Service) SessionID() (int64, bool) {
	if s.sessionID == nil {
		return 0, false
	}
	return *s.sessionID, true
}

// Reset drops the local session handle. The next send starts a fresh session.
func (s *Service) Reset() {
	s.sessionID = nil
}

// SendMessage sends one user message and returns the assistant's reply.
// createNew forces a fresh session even when one is active.
func (s *Service) SendMessage(ctx context.Context, message string, createNew bool) (*api.SendChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("mensagem_vazia")
	}

	req := api.SendChatRequest{
		Message:          message,
		CreateNewSession: createNew,
	}
	if !createNew && s.sessionID != nil {
		req.SessionID = s.sessionID
	}

	s.store.SetLoading(KeyChat, "1")
	defer s.store.SetLoading(KeyChat, "")

	resp, err := s.api.SendChatMessage(ctx, req)
	if err != nil {
		s.store.SetError(KeyChat, err.Error())
		return nil, fmt.Errorf("send chat message: %w", err)
	}

	s.store.ClearError(KeyChat)
	id := resp.SessionID
	s.sessionID = &id
	return resp, nil
}
