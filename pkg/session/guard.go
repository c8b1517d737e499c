package session

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	// Allow renders the page.
	Allow Decision = iota
	// Wait suspends rendering behind a loading indicator until the initial
	// session check settles.
	Wait
	// RedirectToLogin bounces an anonymous visitor off a protected page.
	RedirectToLogin
	// RedirectHome bounces an authenticated user off the login/signup pages.
	RedirectHome
)

// Guard gates a fixed set of protected paths behind an active session and
// keeps signed-in users away from the auth pages.
type Guard struct {
	protected map[string]struct{}
	authPages map[string]struct{}
}

func NewGuard(protectedPaths, authPaths []string) *Guard {
	g := &Guard{
		protected: make(map[string]struct{}, len(protectedPaths)),
		authPages: make(map[string]struct{}, len(authPaths)),
	}
	for _, p := range protectedPaths {
		g.protected[p] = struct{}{}
	}
	for _, p := range authPaths {
		g.authPages[p] = struct{}{}
	}
	return g
}

// Decide maps (session state, path) to a navigation decision. While the
// state is Unknown, gated paths wait instead of redirecting.
func (g *Guard) Decide(state State, path string) Decision {
	_, isProtected := g.protected[path]
	_, isAuthPage := g.authPages[path]
	switch state {
	case Unknown:
		if isProtected || isAuthPage {
			return Wait
		}
		return Allow
	case Anonymous:
		if isProtected {
			return RedirectToLogin
		}
		return Allow
	case Authenticated:
		if isAuthPage {
			return RedirectHome
		}
		return Allow
	}
	return Allow
}
