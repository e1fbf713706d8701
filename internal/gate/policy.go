package gate

import "guidekit/internal/session"

// Policy is the per-screen termination configuration.
type Policy struct {
	// RequiresAuthOnLogout finishes the screen on logout even when the
	// current site is public.
	RequiresAuthOnLogout bool
	// NeverDestroyOnLogout suppresses the check entirely. The site chooser
	// needs it: after logging out of a private site it is the screen that
	// lets the user pick a public one.
	NeverDestroyOnLogout bool
}

// ShouldDestroy reports whether a screen with policy p may not stay visible
// given the session snapshot.
func ShouldDestroy(p Policy, s session.Snapshot) bool {
	if s.User != nil || s.Authenticating {
		return false
	}
	return !p.NeverDestroyOnLogout && (p.RequiresAuthOnLogout || !s.Site.Public)
}
