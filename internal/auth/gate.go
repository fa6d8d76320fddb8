// Package auth decides whether an actor may touch a chat's auto-deletion
// configuration.
package auth

import (
	"context"

	"tg-autodelete/internal/logger"
)

// Membership roles allowed to mutate configuration. Values match the
// platform's member status strings.
const (
	RoleCreator       = "creator"
	RoleAdministrator = "administrator"
)

// RoleQuerier resolves an actor's membership role in a chat.
type RoleQuerier interface {
	MemberRole(ctx context.Context, chatID, userID int64) (string, error)
}

// Actor identifies the sender of a command. SenderChatID is non-zero when
// the message was posted under a chat identity rather than a personal one
// (anonymous group admins post as the group itself).
type Actor struct {
	UserID       int64
	SenderChatID int64
}

// Gate applies the admin policy for mutating commands and, depending on
// configuration, for read-only status queries.
type Gate struct {
	roles               RoleQuerier
	statusRequiresAdmin bool
}

func NewGate(roles RoleQuerier, statusRequiresAdmin bool) *Gate {
	return &Gate{roles: roles, statusRequiresAdmin: statusRequiresAdmin}
}

// CanMutate reports whether the actor may change the chat's configuration.
// Always true in a private conversation. True when the actor posts as the
// chat itself. Otherwise the actor's membership role must be administrator
// or creator; a failed role query denies.
func (g *Gate) CanMutate(ctx context.Context, chatID int64, private bool, actor Actor) bool {
	if private {
		return true
	}
	if actor.SenderChatID != 0 && actor.SenderChatID == chatID {
		return true
	}

	role, err := g.roles.MemberRole(ctx, chatID, actor.UserID)
	if err != nil {
		logger.Warningf("Error querying role of user %d in chat %d, denying: %v", actor.UserID, chatID, err)
		return false
	}
	return role == RoleAdministrator || role == RoleCreator
}

// CanViewStatus reports whether the actor may run the read-only status
// query. Open to all participants unless configured to require admin.
func (g *Gate) CanViewStatus(ctx context.Context, chatID int64, private bool, actor Actor) bool {
	if !g.statusRequiresAdmin {
		return true
	}
	return g.CanMutate(ctx, chatID, private, actor)
}
