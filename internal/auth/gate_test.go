package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRoles answers role queries from a map, or fails wholesale.
type fakeRoles struct {
	roles map[int64]string
	err   error
}

func (f *fakeRoles) MemberRole(_ context.Context, _ int64, userID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.roles[userID], nil
}

func TestCanMutatePrivateChat(t *testing.T) {
	g := NewGate(&fakeRoles{err: errors.New("should not be queried")}, false)
	require.True(t, g.CanMutate(context.Background(), 10, true, Actor{UserID: 1}))
}

func TestCanMutateAnonymousChatIdentity(t *testing.T) {
	g := NewGate(&fakeRoles{err: errors.New("should not be queried")}, false)

	require.True(t, g.CanMutate(context.Background(), 10, false, Actor{SenderChatID: 10}))
	// A different sender chat (e.g. a linked channel) gets no shortcut.
	require.False(t, g.CanMutate(context.Background(), 10, false, Actor{SenderChatID: 11}))
}

func TestCanMutateByRole(t *testing.T) {
	roles := &fakeRoles{roles: map[int64]string{
		1: RoleCreator,
		2: RoleAdministrator,
		3: "member",
		4: "restricted",
	}}
	g := NewGate(roles, false)
	ctx := context.Background()

	require.True(t, g.CanMutate(ctx, 10, false, Actor{UserID: 1}))
	require.True(t, g.CanMutate(ctx, 10, false, Actor{UserID: 2}))
	require.False(t, g.CanMutate(ctx, 10, false, Actor{UserID: 3}))
	require.False(t, g.CanMutate(ctx, 10, false, Actor{UserID: 4}))
	require.False(t, g.CanMutate(ctx, 10, false, Actor{UserID: 5}))
}

func TestCanMutateQueryFailureDenies(t *testing.T) {
	g := NewGate(&fakeRoles{err: errors.New("api unavailable")}, false)
	require.False(t, g.CanMutate(context.Background(), 10, false, Actor{UserID: 1}))
}

func TestCanViewStatus(t *testing.T) {
	roles := &fakeRoles{roles: map[int64]string{
		1: RoleAdministrator,
		2: "member",
	}}
	ctx := context.Background()

	open := NewGate(roles, false)
	require.True(t, open.CanViewStatus(ctx, 10, false, Actor{UserID: 2}))

	gated := NewGate(roles, true)
	require.True(t, gated.CanViewStatus(ctx, 10, false, Actor{UserID: 1}))
	require.False(t, gated.CanViewStatus(ctx, 10, false, Actor{UserID: 2}))
	require.True(t, gated.CanViewStatus(ctx, 10, true, Actor{UserID: 2}))
}
