package chatbot

import (
	"context"
	"fmt"
	"testing"

	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
)

type mockAPI struct {
	requests []api.SendChatRequest
	sendFn   func(req api.SendChatRequest) (*api.SendChatResponse, error)
}

func (m *mockAPI) SendChatMessage(_ context.Context, req api.SendChatRequest) (*api.SendChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.sendFn != nil {
		return m.sendFn(req)
	}
	return &api.SendChatResponse{SessionID: 10}, nil
}

func newTestService(t *testing.T) (*Service, *mockAPI, *appstate.Store) {
	t.Helper()

	mock := &mockAPI{}
	store := appstate.NewStore()
	return NewService(mock, store), mock, store
}

func TestFirstMessageOpensSession(t *testing.T) {
	svc, mock, _ := newTestService(t)

	if _, ok := svc.SessionID(); ok {
		t.Fatal("session open before any message")
	}

	resp, err := svc.SendMessage(context.Background(), "quantas calorias tem um ovo?", false)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if resp.SessionID != 10 {
		t.Fatalf("session id = %d", resp.SessionID)
	}
	if mock.requests[0].SessionID != nil {
		t.Fatal("first message carried a session id")
	}

	id, ok := svc.SessionID()
	if !ok || id != 10 {
		t.Fatalf("session not tracked: id=%d ok=%v", id, ok)
	}
}

func TestFollowupReusesSession(t *testing.T) {
	svc, mock, _ := newTestService(t)

	svc.SendMessage(context.Background(), "oi", false)
	svc.SendMessage(context.Background(), "e um pão francês?", false)

	second := mock.requests[1]
	if second.SessionID == nil || *second.SessionID != 10 {
		t.Fatalf("followup did not reuse session: %+v", second.SessionID)
	}
	if second.CreateNewSession {
		t.Fatal("followup asked for a new session")
	}
}

func TestCreateNewSessionDropsOldID(t *testing.T) {
	svc, mock, _ := newTestService(t)
	calls := 0
	mock.sendFn = func(req api.SendChatRequest) (*api.SendChatResponse, error) {
		calls++
		return &api.SendChatResponse{SessionID: int64(calls * 10)}, nil
	}

	svc.SendMessage(context.Background(), "oi", false)
	svc.SendMessage(context.Background(), "recomeçar", true)

	second := mock.requests[1]
	if second.SessionID != nil {
		t.Fatal("new-session send carried the old id")
	}
	if !second.CreateNewSession {
		t.Fatal("create_new_session not set")
	}

	id, _ := svc.SessionID()
	if id != 20 {
		t.Fatalf("session id after new session = %d, want 20", id)
	}
}

func TestResetForgetsSession(t *testing.T) {
	svc, mock, _ := newTestService(t)

	svc.SendMessage(context.Background(), "oi", false)
	svc.Reset()
	svc.SendMessage(context.Background(), "oi de novo", false)

	if mock.requests[1].SessionID != nil {
		t.Fatal("send after reset reused the old session")
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	svc, mock, _ := newTestService(t)

	if _, err := svc.SendMessage(context.Background(), "   ", false); err == nil {
		t.Fatal("blank message accepted")
	}
	if len(mock.requests) != 0 {
		t.Fatal("blank message reached the network")
	}
}

func TestSendErrorRecorded(t *testing.T) {
	svc, mock, store := newTestService(t)
	mock.sendFn = func(api.SendChatRequest) (*api.SendChatResponse, error) {
		return nil, fmt.Errorf("status 503")
	}

	if _, err := svc.SendMessage(context.Background(), "oi", false); err == nil {
		t.Fatal("expected error")
	}
	if store.Snapshot().Errors[KeyChat] == "" {
		t.Fatal("error not recorded")
	}
	if _, ok := svc.SessionID(); ok {
		t.Fatal("failed send opened a session")
	}
}
