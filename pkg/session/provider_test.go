package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhaven/pkg/errs"
)

type fakeBackend struct {
	signInCalls int
	signUpCalls int
	restoreErr  error
	signInErr   error
	signUpErr   error
	signOutErr  error
	account     Account
}

func (f *fakeBackend) SignIn(_ context.Context, email, _ string) (Account, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return Account{}, f.signInErr
	}
	f.account.Email = email
	return f.account, nil
}

func (f *fakeBackend) SignUp(_ context.Context, p SignUpParams) (Account, error) {
	f.signUpCalls++
	if f.signUpErr != nil {
		return Account{}, f.signUpErr
	}
	return Account{Email: p.Email, DisplayName: p.DisplayName}, nil
}

func (f *fakeBackend) Restore(context.Context) (Account, error) {
	if f.restoreErr != nil {
		return Account{}, f.restoreErr
	}
	return f.account, nil
}

func (f *fakeBackend) SignOut(context.Context) error { return f.signOutErr }

func TestProviderStartsUnknown(t *testing.T) {
	p := NewProvider(&fakeBackend{})
	assert.Equal(t, Unknown, p.State())
}

func TestInitializeRestoresSession(t *testing.T) {
	b := &fakeBackend{account: Account{ID: "u1", Email: "a@b.c"}}
	p := NewProvider(b)
	p.Initialize(context.Background())
	assert.Equal(t, Authenticated, p.State())
	acct, ok := p.Account()
	require.True(t, ok)
	assert.Equal(t, "u1", acct.ID)
}

func TestInitializeWithoutSessionIsAnonymousNotError(t *testing.T) {
	b := &fakeBackend{restoreErr: errs.New(errs.KindUnauthorized, "no stored session")}
	p := NewProvider(b)
	p.Initialize(context.Background())
	assert.Equal(t, Anonymous, p.State())
	assert.NoError(t, p.Err())
}

func TestSignInTransitions(t *testing.T) {
	p := NewProvider(&fakeBackend{restoreErr: errors.New("no session")})
	p.Initialize(context.Background())
	require.Equal(t, Anonymous, p.State())
	require.NoError(t, p.SignIn(context.Background(), "a@b.c", "secret1"))
	assert.Equal(t, Authenticated, p.State())
}

func TestSignInFailureKeepsAnonymousAndSetsError(t *testing.T) {
	b := &fakeBackend{signInErr: errs.New(errs.KindInvalidCredentials, "invalid credentials")}
	p := NewProvider(b)
	p.Initialize(context.Background())
	err := p.SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidCredentials, errs.KindOf(p.Err()))
	assert.Equal(t, Anonymous, p.State())
}

func TestWeakPasswordRejectedBeforeNetwork(t *testing.T) {
	b := &fakeBackend{}
	p := NewProvider(b)
	err := p.SignUp(context.Background(), SignUpParams{Email: "a@b.c", Password: "12345", DisplayName: "A"})
	require.Error(t, err)
	assert.Equal(t, errs.KindWeakPassword, errs.KindOf(err))
	assert.Zero(t, b.signUpCalls, "backend must not be called for a weak password")
}

func TestSignUpEmailInUseSurfaced(t *testing.T) {
	b := &fakeBackend{signUpErr: errs.New(errs.KindEmailInUse, "email already in use")}
	p := NewProvider(b)
	err := p.SignUp(context.Background(), SignUpParams{Email: "a@b.c", Password: "secret1", DisplayName: "A"})
	require.Error(t, err)
	assert.Equal(t, errs.KindEmailInUse, errs.KindOf(err))
}

func TestUnexpectedBackendFailureCollapsesToUnknown(t *testing.T) {
	b := &fakeBackend{signInErr: errors.New("connection reset")}
	p := NewProvider(b)
	err := p.SignIn(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
	assert.Equal(t, errs.KindUnknown, errs.KindOf(err))
}

func TestErrorSlotIsClearable(t *testing.T) {
	b := &fakeBackend{signInErr: errs.New(errs.KindInvalidCredentials, "invalid credentials")}
	p := NewProvider(b)
	_ = p.SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, p.Err())
	p.ClearError()
	assert.NoError(t, p.Err())
}

func TestSignOutAlwaysGoesAnonymous(t *testing.T) {
	b := &fakeBackend{signOutErr: errors.New("backend down"), restoreErr: errors.New("no session")}
	p := NewProvider(b)
	p.Initialize(context.Background())
	require.NoError(t, p.SignIn(context.Background(), "a@b.c", "secret1"))

	p.SignOut(context.Background())
	assert.Equal(t, Anonymous, p.State())
	// non-fatal flag, the local session is gone either way
	assert.Error(t, p.Err())
	_, ok := p.Account()
	assert.False(t, ok)
}

func TestSubscribersNotifiedOnTransitions(t *testing.T) {
	p := NewProvider(&fakeBackend{restoreErr: errors.New("no session")})
	var seen []State
	unsubscribe := p.Subscribe(func(s State) { seen = append(seen, s) })

	p.Initialize(context.Background())
	require.NoError(t, p.SignIn(context.Background(), "a@b.c", "secret1"))
	p.SignOut(context.Background())
	assert.Equal(t, []State{Anonymous, Authenticated, Anonymous}, seen)

	unsubscribe()
	p.Initialize(context.Background())
	assert.Len(t, seen, 3, "unsubscribed callback must not fire")
}
