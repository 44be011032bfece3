// Package session resolves access tokens into users and tracks session state
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"bluebird/internal/adapters/events"
	"bluebird/internal/adapters/supaauth"
	"bluebird/internal/platform/bus"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	pnet "bluebird/internal/platform/net"
)

// Provider is the identity provider port
type Provider interface {
	Configured() bool
	User(ctx context.Context, token string) (supaauth.User, bool, error)
	SignIn(ctx context.Context, email, password string) (supaauth.Session, error)
	Refresh(ctx context.Context, refreshToken string) (supaauth.Session, error)
	SignOut(ctx context.Context, token string) error
}

// ChangeKind names a session change
type ChangeKind string

// Change kinds
const (
	ChangeSignedIn  ChangeKind = "signed_in"
	ChangeSignedOut ChangeKind = "signed_out"
	ChangeExpired   ChangeKind = "expired"
)

// Change is published whenever a user's session changes
type Change struct {
	Kind ChangeKind `json:"kind"`
	User pnet.User  `json:"user"`
	At   time.Time  `json:"at"`
}

// maxKnownTokens bounds the token to user cache used to spot expiry
const maxKnownTokens = 4096

// Resolver is the session source the gate and handlers depend on
type Resolver struct {
	p      Provider
	bus    *bus.Bus[Change]
	events events.Emitter
	now    func() time.Time

	mu       sync.Mutex
	machines map[string]*Machine
	known    map[string]pnet.User
}

// NewResolver wraps a provider; e may be nil
func NewResolver(p Provider, e events.Emitter) *Resolver {
	if p == nil {
		panic("session.Resolver requires a Provider")
	}
	if e == nil {
		e = events.Nop{}
	}
	return &Resolver{
		p:        p,
		bus:      bus.New[Change](),
		events:   e,
		now:      time.Now,
		machines: map[string]*Machine{},
		known:    map[string]pnet.User{},
	}
}

// Configured reports whether the provider has url and key
func (r *Resolver) Configured() bool { return r.p.Configured() }

// Subscribe returns a channel of session changes and its cancel func
func (r *Resolver) Subscribe(buffer int) (<-chan Change, func()) { return r.bus.Subscribe(buffer) }

// Close stops every subscription
func (r *Resolver) Close() { r.bus.Close() }

// State returns the tracked state for a user, loading when unknown
func (r *Resolver) State(userID string) State { return r.machine(userID).State() }

func (r *Resolver) machine(userID string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[userID]
	if !ok {
		m = NewMachine()
		r.machines[userID] = m
	}
	return m
}

// CurrentUser resolves token. A rejected token that used to belong to a
// user expires that user's session
func (r *Resolver) CurrentUser(ctx context.Context, token string) (pnet.User, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return pnet.User{}, false, nil
	}
	u, ok, err := r.p.User(ctx, token)
	if err != nil {
		return pnet.User{}, false, err
	}
	if !ok {
		r.mu.Lock()
		prev, seen := r.known[token]
		delete(r.known, token)
		r.mu.Unlock()
		if seen {
			r.Expire(ctx, prev)
		}
		return pnet.User{}, false, nil
	}

	user := pnet.User{ID: u.ID, Email: u.Email}
	r.remember(token, user)
	_, _ = r.machine(user.ID).Fire(EventResolved)
	return user, true, nil
}

func (r *Resolver) remember(token string, u pnet.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.known) >= maxKnownTokens {
		clear(r.known)
	}
	r.known[token] = u
}

// SignIn exchanges credentials for a session
func (r *Resolver) SignIn(ctx context.Context, email, password string) (supaauth.Session, error) {
	s, err := r.p.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return supaauth.Session{}, err
	}
	user := pnet.User{ID: s.User.ID, Email: s.User.Email}
	if user.ID == "" {
		return supaauth.Session{}, perr.Unauthorizedf("provider returned a session without a user")
	}
	r.remember(s.AccessToken, user)
	if _, err := r.machine(user.ID).Fire(EventSignedIn); err != nil {
		logger.C(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("session transition")
	}
	r.publish(ctx, ChangeSignedIn, user)
	return s, nil
}

// Refresh swaps a refresh token for a new session
func (r *Resolver) Refresh(ctx context.Context, refreshToken string) (supaauth.Session, error) {
	s, err := r.p.Refresh(ctx, strings.TrimSpace(refreshToken))
	if err != nil {
		return supaauth.Session{}, err
	}
	user := pnet.User{ID: s.User.ID, Email: s.User.Email}
	if user.ID != "" {
		r.remember(s.AccessToken, user)
		_, _ = r.machine(user.ID).Fire(EventResolved)
	}
	return s, nil
}

// SignOut revokes token. Signing out an unknown or dead token is not an error
func (r *Resolver) SignOut(ctx context.Context, token string) error {
	user, ok, err := r.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := r.p.SignOut(ctx, token); err != nil && !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		return err
	}
	r.mu.Lock()
	delete(r.known, token)
	r.mu.Unlock()
	if _, err := r.machine(user.ID).Fire(EventSignedOut); err != nil {
		return err
	}
	r.publish(ctx, ChangeSignedOut, user)
	return nil
}

// Expire ends a user's session without provider involvement
func (r *Resolver) Expire(ctx context.Context, user pnet.User) {
	if user.ID == "" {
		return
	}
	if _, err := r.machine(user.ID).Fire(EventExpired); err != nil {
		return
	}
	r.publish(ctx, ChangeExpired, user)
}

func (r *Resolver) publish(ctx context.Context, kind ChangeKind, u pnet.User) {
	r.bus.Publish(Change{Kind: kind, User: u, At: r.now().UTC()})
	typ := events.SessionSignedOut
	switch kind {
	case ChangeSignedIn:
		typ = events.SessionSignedIn
	case ChangeExpired:
		typ = events.SessionExpired
	}
	r.events.Emit(ctx, typ, map[string]string{"user_id": u.ID})
}

// Ended maps the change stream to the ids of users whose session ended,
// until ctx ends. The returned channel closes with the subscription
func (r *Resolver) Ended(ctx context.Context) <-chan string {
	ch, cancel := r.Subscribe(16)
	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-ch:
				if !ok {
					return
				}
				if c.Kind == ChangeSignedIn {
					continue
				}
				select {
				case out <- c.User.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
