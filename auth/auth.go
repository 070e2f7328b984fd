package auth

import (
	"context"
	"fmt"
	"time"

	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
)

// Role is one entry of the user_roles option.
type Role struct {
	Name         string          `json:"name"`
	Capabilities map[string]bool `json:"capabilities"`
}

// Roles loads the role table written at install.
func Roles(ctx context.Context, opts *option.Options) map[string]Role {
	roles := map[string]Role{}
	if _, err := opts.JSON(ctx, option.UserRoles, &roles); err != nil {
		logger.Errorf(ctx, "roles: %v", err)
	}
	return roles
}

// Resolver turns bearer tokens into actors with their capabilities.
type Resolver struct {
	opts     *option.Options
	secret   []byte
	interval time.Duration
}

func NewResolver(opts *option.Options, secret []byte, interval time.Duration) *Resolver {
	return &Resolver{opts: opts, secret: secret, interval: interval}
}

func (r *Resolver) Actor(ctx context.Context, token string) (*model.Actor, error) {
	claims, err := VerifyActorToken(token, r.secret, r.interval)
	if err != nil {
		return nil, fmt.Errorf("actor: %w", err)
	}
	return Build(ctx, r.opts, claims.ID, claims.Name, claims.Roles), nil
}

// Build assembles an actor whose capabilities are the union of its roles'.
func Build(ctx context.Context, opts *option.Options, id int64, name string, roles []string) *model.Actor {
	table := Roles(ctx, opts)
	caps := map[string]bool{}
	for _, role := range roles {
		for c, granted := range table[role].Capabilities {
			if granted {
				caps[c] = true
			}
		}
	}
	return &model.Actor{ID: id, Name: name, Roles: roles, Caps: caps}
}

// CanManage reports whether the actor may submit or manage entities of kind.
func CanManage(actor *model.Actor, kind model.Kind) bool {
	return actor.Can(kind.Capability()) || actor.Can(model.CapManageOptions)
}

// CanEdit reports whether the actor may edit the entity owned by author.
func CanEdit(actor *model.Actor, author int64) bool {
	if !actor.LoggedIn() {
		return false
	}
	return actor.ID == author || actor.IsAdmin()
}
