// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import "fmt"

// Redirect destinations.
const (
	SignIn = "sign-in"
	Home   = "home"
)

// Action is what a guarded command should do for the current state.
type Action int

const (
	ShowPlaceholder Action = iota
	Render
	Redirect
)

func (a Action) String() string {
	switch a {
	case ShowPlaceholder:
		return "placeholder"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of applying a Policy to a State.
type Decision struct {
	Action Action
	// To is the redirect destination; empty unless Action is Redirect.
	To string
}

func (d Decision) String() string {
	if d.Action == Redirect {
		return fmt.Sprintf("redirect(%s)", d.To)
	}
	return d.Action.String()
}

// Policy maps session state to a Decision.
type Policy int

const (
	// RequireAuthenticated protects commands that need a signed-in user.
	RequireAuthenticated Policy = iota
	// RequireGuest protects sign-in and registration commands.
	RequireGuest
)

func (p Policy) String() string {
	if p == RequireGuest {
		return "require-guest"
	}
	return "require-authenticated"
}

// Decide returns the decision for s. Pending always yields the placeholder.
func (p Policy) Decide(s State) Decision {
	if s == Pending {
		return Decision{Action: ShowPlaceholder}
	}
	authenticated := s == Authenticated
	switch p {
	case RequireGuest:
		if authenticated {
			return Decision{Action: Redirect, To: Home}
		}
		return Decision{Action: Render}
	default:
		if authenticated {
			return Decision{Action: Render}
		}
		return Decision{Action: Redirect, To: SignIn}
	}
}
