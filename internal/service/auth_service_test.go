package service

import (
	"context"
	"testing"

	"go-erp-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.user(t, "alice", false, model.CapView)
	dormant := e.user(t, "bob", false, model.CapView)
	require.NoError(t, e.db.Model(&model.User{}).Where("id = ?", dormant.ID).Update("is_active", false).Error)
	ctx := context.Background()

	cases := []LoginRequest{
		{Username: "alice", Password: "wrong-pass"},
		{Username: "mallory", Password: "secret-pass"},
		{Username: "bob", Password: "secret-pass"},
		{Username: "", Password: ""},
	}
	for _, req := range cases {
		req := req
		_, err := e.auth.Login(ctx, &req)
		require.ErrorIs(t, err, ErrInvalidCredentials, req.Username)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error(), req.Username)
	}
}

func TestLoginAndLogout(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", false, model.CapView)
	ctx := context.Background()

	resp, err := e.auth.Login(ctx, &LoginRequest{Username: "alice", Password: "secret-pass", IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	user, sessionID, err := e.auth.ResolveSession(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	require.NotEmpty(t, sessionID)

	require.NoError(t, e.auth.Logout(ctx, sessionID))
	_, _, err = e.auth.ResolveSession(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = e.auth.ResolveSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveSessionRejectsDeactivatedUser(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", false, model.CapView)
	ctx := context.Background()

	resp, err := e.auth.Login(ctx, &LoginRequest{Username: "alice", Password: "secret-pass"})
	require.NoError(t, err)
	require.NoError(t, e.db.Model(&model.User{}).Where("id = ?", alice.ID).Update("is_active", false).Error)

	_, _, err = e.auth.ResolveSession(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResetPassword(t *testing.T) {
	e := newEnv(t)
	e.user(t, "alice", false, model.CapView)
	ctx := context.Background()

	err := e.auth.ResetPassword(ctx, &ResetPasswordRequest{Username: "alice", OldPassword: "nope", NewPassword: "brand-new"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = e.auth.ResetPassword(ctx, &ResetPasswordRequest{Username: "alice", OldPassword: "secret-pass", NewPassword: "abc"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, e.auth.ResetPassword(ctx, &ResetPasswordRequest{Username: "alice", OldPassword: "secret-pass", NewPassword: "brand-new"}))

	_, err = e.auth.Login(ctx, &LoginRequest{Username: "alice", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, &LoginRequest{Username: "alice", Password: "brand-new"})
	assert.NoError(t, err)
}
