package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/session"
)

type fakeAuthBackend struct {
	loginErr error
	result   *backend.AuthResult
	tenantID int
}

func (f *fakeAuthBackend) Login(_ context.Context, email, password string, tenantID int) (*backend.AuthResult, error) {
	f.tenantID = tenantID
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.result, nil
}

func (f *fakeAuthBackend) Register(_ context.Context, _ backend.RegisterParams, tenantID int) (*backend.AuthResult, error) {
	f.tenantID = tenantID
	return f.result, nil
}

func TestLoginBindsCredentialToSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 1, UnitPricePaise: 10000, Quantity: 1})

	b := &fakeAuthBackend{result: &backend.AuthResult{
		Token: "jwt-abc",
		User:  domain.User{ID: 9, Name: "Asha", Role: domain.RoleCustomer},
	}}
	svc := NewAccountService(b, store, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))

	user, err := svc.Login(context.Background(), sess, "asha@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, 1, b.tenantID)

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.Authenticated())
	assert.Equal(t, "jwt-abc", stored.Token)
	assert.False(t, stored.Cart.IsEmpty(), "login must keep the anonymous cart")
}

func TestLoginFailurePassesThrough(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store)

	b := &fakeAuthBackend{loginErr: &domain.Error{Code: domain.EUNAUTHORIZED, Message: "Invalid credentials"}}
	svc := NewAccountService(b, store, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Login(context.Background(), sess, "asha@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	assert.False(t, sess.Authenticated())
}

func TestLogoutDropsSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store)
	svc := NewAccountService(&fakeAuthBackend{}, store, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, svc.Logout(context.Background(), sess))

	_, err := store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
