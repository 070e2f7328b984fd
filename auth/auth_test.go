package auth

import (
	"context"
	"testing"
	"time"

	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef")

func TestVerifyActorToken(t *testing.T) {
	token, err := IssueActorToken(secret, &model.Actor{ID: 7, Name: "ana", Roles: []string{"dj"}}, time.Hour)
	require.Nil(t, err, "expected err to be nil")

	claims, err := VerifyActorToken(token, secret, time.Minute)
	require.Nil(t, err)

	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, "ana", claims.Name)
	assert.Equal(t, []string{"dj"}, claims.Roles)
}

func TestVerifyActorTokenFailsForWrongSecret(t *testing.T) {
	token, err := IssueActorToken(secret, &model.Actor{ID: 7}, time.Hour)
	require.Nil(t, err)

	_, err = VerifyActorToken(token, []byte("other"), time.Minute)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyActorTokenAcceptsRecentlyExpired(t *testing.T) {
	sign := func(exp time.Time) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "3", "exp": exp.Unix()}).SignedString(secret)
		require.Nil(t, err)
		return s
	}

	claims, err := VerifyActorToken(sign(time.Now().Add(-30*time.Second)), secret, 2*time.Minute)
	require.Nil(t, err)
	assert.Equal(t, int64(3), claims.ID)

	_, err = VerifyActorToken(sign(time.Now().Add(-time.Hour)), secret, 2*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyActorTokenFailsWhenEmpty(t *testing.T) {
	_, err := VerifyActorToken("", secret, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolverAddsRoleCapabilities(t *testing.T) {
	ctx := context.Background()
	opts := option.New(store.NewMemory(), nil, time.Minute)
	require.Nil(t, opts.SetJSON(ctx, option.UserRoles, map[string]Role{
		"dj": {Name: "DJ", Capabilities: map[string]bool{model.CapManageDJs: true, model.CapRead: true, model.CapManageLocals: false}},
	}))
	token, err := IssueActorToken(secret, &model.Actor{ID: 9, Roles: []string{"dj"}}, time.Hour)
	require.Nil(t, err)

	actor, err := NewResolver(opts, secret, time.Minute).Actor(ctx, token)
	require.Nil(t, err)

	assert.True(t, actor.Can(model.CapManageDJs))
	assert.False(t, actor.Can(model.CapManageLocals))
	assert.True(t, CanManage(actor, model.KindDJ))
	assert.False(t, CanManage(actor, model.KindEvent))
	assert.True(t, CanEdit(actor, 9))
	assert.False(t, CanEdit(actor, 10))
}

func TestNonces(t *testing.T) {
	n := NewNonces([]byte("nonce-secret"))
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	nonce := n.Create("event_manager_my_event_actions", 4)
	require.NotEmpty(t, nonce)

	assert.True(t, n.Verify(nonce, "event_manager_my_event_actions", 4))
	assert.False(t, n.Verify(nonce, "event_manager_my_dj_actions", 4))
	assert.False(t, n.Verify(nonce, "event_manager_my_event_actions", 5))
	assert.False(t, n.Verify("", "event_manager_my_event_actions", 4))

	now = now.Add(13 * time.Hour)
	assert.True(t, n.Verify(nonce, "event_manager_my_event_actions", 4))

	now = now.Add(36 * time.Hour)
	assert.False(t, n.Verify(nonce, "event_manager_my_event_actions", 4))
}
