package domain

// SessionState is the route guard state of a caller.
type SessionState string

const (
	StateAnonymous  SessionState = "anonymous"
	StateOnboarding SessionState = "onboarding"
	StateActive     SessionState = "active"
)

// Surface is a family of screens the presentation layer can show.
type Surface string

const (
	SurfaceSignIn      Surface = "sign_in"
	SurfaceSetup       Surface = "setup"
	SurfaceOperational Surface = "operational"
)

// homeSurface is where each state lands when it asks for a surface it may not see.
var homeSurface = map[SessionState]Surface{
	StateAnonymous:  SurfaceSignIn,
	StateOnboarding: SurfaceSetup,
	StateActive:     SurfaceOperational,
}

// ParseSurface reports whether s names a known surface.
func ParseSurface(s string) (Surface, bool) {
	switch Surface(s) {
	case SurfaceSignIn, SurfaceSetup, SurfaceOperational:
		return Surface(s), true
	}
	return "", false
}

// ResolveSessionState derives the state from the two facts the guard knows about a caller.
func ResolveSessionState(authenticated, hasRestaurant bool) SessionState {
	switch {
	case !authenticated:
		return StateAnonymous
	case !hasRestaurant:
		return StateOnboarding
	default:
		return StateActive
	}
}

// Home is the surface the state lands on by default.
func (s SessionState) Home() Surface {
	if home, ok := homeSurface[s]; ok {
		return home
	}
	return SurfaceSignIn
}

// Route decides whether the state may see surface. When it may not, redirect is the state's home surface.
func (s SessionState) Route(surface Surface) (allowed bool, redirect Surface) {
	home, ok := homeSurface[s]
	if !ok {
		return false, SurfaceSignIn
	}
	if surface == home {
		return true, ""
	}
	return false, home
}
