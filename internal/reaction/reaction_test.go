package reaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dmchat/internal/domain"
	"dmchat/internal/reaction"
)

func TestApply(t *testing.T) {
	t.Run("AddsWhenAbsent", func(t *testing.T) {
		got := reaction.Apply(nil, "u1", "👍")
		assert.Equal(t, []domain.Reaction{{UserID: "u1", Emoji: "👍"}}, got)
	})

	t.Run("SameEmojiTogglesOff", func(t *testing.T) {
		in := []domain.Reaction{{UserID: "u1", Emoji: "👍"}, {UserID: "u2", Emoji: "🔥"}}
		got := reaction.Apply(in, "u1", "👍")
		assert.Equal(t, []domain.Reaction{{UserID: "u2", Emoji: "🔥"}}, got)
	})

	t.Run("OtherEmojiReplacesInPlace", func(t *testing.T) {
		in := []domain.Reaction{{UserID: "u1", Emoji: "👍"}, {UserID: "u2", Emoji: "🔥"}}
		got := reaction.Apply(in, "u1", "❤️")
		assert.Equal(t, []domain.Reaction{{UserID: "u1", Emoji: "❤️"}, {UserID: "u2", Emoji: "🔥"}}, got)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		in := []domain.Reaction{{UserID: "u1", Emoji: "👍"}}
		_ = reaction.Apply(in, "u1", "😂")
		assert.Equal(t, "👍", in[0].Emoji)
	})
}

func TestApplyTwiceRemovesUser(t *testing.T) {
	bases := [][]domain.Reaction{
		nil,
		{{UserID: "u2", Emoji: "🔥"}},
		{{UserID: "u1", Emoji: "😂"}, {UserID: "u2", Emoji: "🔥"}},
	}
	for _, base := range bases {
		got := reaction.Apply(reaction.Apply(base, "u1", "👍"), "u1", "👍")
		assert.ElementsMatch(t, without(base, "u1"), got)
	}
}

func TestApplyKeepsOneEntryPerUser(t *testing.T) {
	var rs []domain.Reaction
	for _, e := range []string{"👍", "🔥", "🔥", "😂", "❤️"} {
		rs = reaction.Apply(rs, "u1", e)
		rs = reaction.Apply(rs, "u2", e)
		seen := map[string]int{}
		for _, r := range rs {
			seen[r.UserID]++
		}
		for user, n := range seen {
			assert.Equal(t, 1, n, user)
		}
	}
}

func without(rs []domain.Reaction, userID string) []domain.Reaction {
	out := make([]domain.Reaction, 0, len(rs))
	for _, r := range rs {
		if r.UserID != userID {
			out = append(out, r)
		}
	}
	return out
}
