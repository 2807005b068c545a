package service

import (
	"context"
	"sync"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/nbang/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	regResp, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if regResp.Msg.Token == "" {
		t.Error("expected token after registration")
	}
	if regResp.Msg.User.DisplayName != "Alice" {
		t.Errorf("display name: expected 'Alice', got '%s'", regResp.Msg.User.DisplayName)
	}

	loginResp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loginResp.Msg.User.ID != regResp.Msg.User.ID {
		t.Errorf("user id: expected %s, got %s", regResp.Msg.User.ID, loginResp.Msg.User.ID)
	}

	meResp, err := env.auth.GetCurrentUser(ctx, authed(loginResp.Msg.Token, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if meResp.Msg.User.Email != "alice@example.com" {
		t.Errorf("email: expected 'alice@example.com', got '%s'", meResp.Msg.User.Email)
	}
}

func TestAuthErrors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "alice@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:    "alice@example.com",
			Password: "another-password",
		}))
		expectCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:    "bob@example.com",
			Password: "short",
		}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("anonymous current user", func(t *testing.T) {
		_, err := env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestConcurrentRegistration(t *testing.T) {
	env := setupTestServer(t)

	const attempts = 8
	codes := make([]connect.Code, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
				Email:    "alice@example.com",
				Password: "correct-horse",
			}))
			if err != nil {
				codes[i] = connect.CodeOf(err)
			}
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, code := range codes {
		switch code {
		case 0:
			succeeded++
		case connect.CodeAlreadyExists:
		default:
			t.Errorf("attempt %d: expected AlreadyExists, got %v", i, code)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one registration to succeed, got %d", succeeded)
	}
}
