// Package town implements the town registry and its player sessions. The
// registry is the session collaborator the controller resolves tokens
// through; tokens never resolve outside the town that minted them.
package town

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"posttown/internal/utils"
)

var (
	ErrTownNotFound    = errors.New("town not found")
	ErrInvalidPassword = errors.New("invalid town update password")
)

const tokenTTL = 30 * time.Minute

// Info is the public view of a town.
type Info struct {
	ID               string `json:"coveyTownID"`
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
	Occupancy        int    `json:"occupancy"`
}

// Session ties a token to the player it was minted for.
type Session struct {
	Token      string `json:"sessionToken"`
	PlayerID   string `json:"playerID"`
	PlayerName string `json:"userName"`
}

type record struct {
	info         Info
	passwordHash []byte
	sessions     map[string]Session
}

// Registry holds every town in the process. Token lookups go through a TTL
// cache in front of the session maps.
type Registry struct {
	mu    sync.RWMutex
	towns map[string]*record
	cache *utils.Cache
}

func NewRegistry(cacheSize int) (*Registry, error) {
	cache, err := utils.NewCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Registry{
		towns: make(map[string]*record),
		cache: cache,
	}, nil
}

// CreateTown registers a town and returns its info together with the
// one-time update password. Only the bcrypt hash is kept.
func (r *Registry) CreateTown(friendlyName string, isPubliclyListed bool) (Info, string, error) {
	password := utils.RandStringBytesMaskImpr(16)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Info{}, "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := utils.RandStringBytesMaskImpr(12)
	for _, taken := r.towns[id]; taken; _, taken = r.towns[id] {
		id = utils.RandStringBytesMaskImpr(12)
	}

	rec := &record{
		info: Info{
			ID:               id,
			FriendlyName:     friendlyName,
			IsPubliclyListed: isPubliclyListed,
		},
		passwordHash: hash,
		sessions:     make(map[string]Session),
	}
	r.towns[id] = rec
	return rec.info, password, nil
}

// UpdateTown changes the town listing after checking the update password.
func (r *Registry) UpdateTown(id, password, friendlyName string, isPubliclyListed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.towns[id]
	if !ok {
		return ErrTownNotFound
	}
	if bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		return ErrInvalidPassword
	}

	if friendlyName != "" {
		rec.info.FriendlyName = friendlyName
	}
	rec.info.IsPubliclyListed = isPubliclyListed
	return nil
}

// DeleteTown removes the town and drops all of its sessions.
func (r *Registry) DeleteTown(id, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.towns[id]
	if !ok {
		return ErrTownNotFound
	}
	if bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		return ErrInvalidPassword
	}

	for token := range rec.sessions {
		r.cache.Delete(cacheKey(id, token))
	}
	delete(r.towns, id)
	return nil
}

// Exists reports whether the town id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.towns[id]
	return ok
}

// ListTowns returns the publicly listed towns.
func (r *Registry) ListTowns() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.towns))
	for _, rec := range r.towns {
		if rec.info.IsPubliclyListed {
			info := rec.info
			info.Occupancy = len(rec.sessions)
			infos = append(infos, info)
		}
	}
	return infos
}

// JoinTown mints a session for playerName.
func (r *Registry) JoinTown(id, playerName string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.towns[id]
	if !ok {
		return Session{}, ErrTownNotFound
	}

	session := Session{
		Token:      utils.RandStringBytesMaskImpr(24),
		PlayerID:   utils.RandStringBytesMaskImpr(12),
		PlayerName: playerName,
	}
	rec.sessions[session.Token] = session
	r.cache.Set(cacheKey(id, session.Token), session.PlayerName, tokenTTL)
	return session, nil
}

// DisconnectSession drops a session; unknown tokens are ignored.
func (r *Registry) DisconnectSession(id, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.towns[id]; ok {
		delete(rec.sessions, token)
	}
	r.cache.Delete(cacheKey(id, token))
}

// ResolveToken maps a session token to the acting identity. It satisfies
// the controller's SessionResolver.
func (r *Registry) ResolveToken(townID, token string) (string, bool) {
	if name, ok := r.cache.Get(cacheKey(townID, token)).(string); ok {
		return name, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.towns[townID]
	if !ok {
		return "", false
	}
	session, ok := rec.sessions[token]
	if !ok {
		return "", false
	}
	r.cache.Set(cacheKey(townID, token), session.PlayerName, tokenTTL)
	return session.PlayerName, true
}

func cacheKey(townID, token string) string {
	return townID + ":" + token
}
