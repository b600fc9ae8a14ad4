// Package reaction holds the state machine for one user's emoji reaction on
// one message.
package reaction

import "dmchat/internal/domain"

// Apply returns the reaction set after userID reacts with emoji:
// no entry adds one, the same emoji removes it, another emoji replaces it
// in place. existing is never modified.
func Apply(existing []domain.Reaction, userID, emoji string) []domain.Reaction {
	out := make([]domain.Reaction, 0, len(existing)+1)
	found := false
	for _, r := range existing {
		if r.UserID != userID {
			out = append(out, r)
			continue
		}
		found = true
		if r.Emoji == emoji {
			continue
		}
		out = append(out, domain.Reaction{UserID: userID, Emoji: emoji})
	}
	if !found {
		out = append(out, domain.Reaction{UserID: userID, Emoji: emoji})
	}
	return out
}
