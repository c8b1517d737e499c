// Package session holds the client-side single source of truth for "who is
// the current user": an explicitly constructed provider passed to the pages
// that need it, with change notifications for its readers.
package session

import (
	"context"
	"sync"
	"unicode/utf8"

	"toolhaven/pkg/errs"
)

// State is the provider's lifecycle position. Unknown is the only state in
// which dependent pages must suspend rather than redirect: bouncing before
// the initial session check completes would send an already-authenticated
// user to the login page.
type State int

const (
	Unknown State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Account is the minimal profile the provider exposes to readers.
type Account struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Provider    string   `json:"provider"`
	Roles       []string `json:"roles"`
}

// SignUpParams mirrors the sign-up form.
type SignUpParams struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Country     string
}

// Backend is the auth service the provider drives. Implemented by
// pkg/client against the live API and by fakes in tests.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (Account, error)
	SignUp(ctx context.Context, p SignUpParams) (Account, error)
	Restore(ctx context.Context) (Account, error)
	SignOut(ctx context.Context) error
}

const minPasswordLength = 6

// Provider owns the session object; everything else reads it. All state
// transitions happen under one mutex, and subscribers are notified after
// each one.
type Provider struct {
	mu      sync.Mutex
	backend Backend
	state   State
	account *Account
	err     error

	nextSub int
	subs    map[int]func(State)
}

func NewProvider(b Backend) *Provider {
	return &Provider{backend: b, state: Unknown, subs: map[int]func(State){}}
}

// Initialize performs the initial session check, moving Unknown to either
// Authenticated or Anonymous. Restore failure is not an error state: it
// just means nobody is signed in.
func (p *Provider) Initialize(ctx context.Context) {
	acct, err := p.backend.Restore(ctx)
	if err != nil {
		p.transition(Anonymous, nil, nil)
		return
	}
	p.transition(Authenticated, &acct, nil)
}

// SignIn authenticates with email/password. Wrong password and unknown
// account surface identically as invalid credentials.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	acct, err := p.backend.SignIn(ctx, email, password)
	if err != nil {
		p.setError(classify(err))
		return p.Err()
	}
	p.transition(Authenticated, &acct, nil)
	return nil
}

// SignUp validates locally first: a short password is rejected before any
// network call is made.
func (p *Provider) SignUp(ctx context.Context, params SignUpParams) error {
	if utf8.RuneCountInString(params.Password) < minPasswordLength {
		err := errs.New(errs.KindWeakPassword, "password must be at least 6 characters")
		p.setError(err)
		return err
	}
	acct, err := p.backend.SignUp(ctx, params)
	if err != nil {
		p.setError(classify(err))
		return p.Err()
	}
	p.transition(Authenticated, &acct, nil)
	return nil
}

// SignOut always clears the local session. A backend failure is kept as a
// non-fatal error flag rather than blocking the transition.
func (p *Provider) SignOut(ctx context.Context) {
	err := p.backend.SignOut(ctx)
	if err != nil {
		err = errs.Wrap(errs.KindUnknown, "sign-out did not reach the backend", err)
	}
	p.transition(Anonymous, nil, err)
}

// ClearError empties the single error slot so the next attempt starts
// clean.
func (p *Provider) ClearError() {
	p.mu.Lock()
	p.err = nil
	p.mu.Unlock()
}

func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Provider) Account() (Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.account == nil {
		return Account{}, false
	}
	return *p.account, true
}

func (p *Provider) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Subscribe registers a state-change callback and returns an unsubscribe
// function.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Provider) transition(state State, acct *Account, err error) {
	p.mu.Lock()
	p.state = state
	p.account = acct
	p.err = err
	fns := make([]func(State), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func (p *Provider) setError(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// classify collapses backend failures into the fixed auth error set.
func classify(err error) error {
	switch errs.KindOf(err) {
	case errs.KindInvalidCredentials, errs.KindEmailInUse, errs.KindWeakPassword:
		return err
	default:
		return errs.Wrap(errs.KindUnknown, "authentication failed", err)
	}
}
