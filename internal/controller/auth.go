package controller

import (
	"errors"
)

// ErrPermissionDenied reports that the token does not resolve to the
// resource owner. A missing or expired session is reported the same way: at
// this layer an unknown actor and an unauthorized one are indistinguishable.
var ErrPermissionDenied = errors.New("permission denied")

// SessionResolver maps a session token to the acting identity within one
// town. Satisfied by town.Registry.
type SessionResolver interface {
	ResolveToken(townID, token string) (identity string, ok bool)
}

// authorize gates a mutation on ownership. Ownership is absolute; there is
// no moderator override here.
func (pt *PostTown) authorize(townID, token, ownerID string) error {
	identity, ok := pt.sessions.ResolveToken(townID, token)
	if !ok {
		return ErrPermissionDenied
	}
	if identity != ownerID {
		return ErrPermissionDenied
	}
	return nil
}
