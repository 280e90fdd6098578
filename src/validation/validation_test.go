package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello & bye", Sanitize("  <b>hello</b> & bye <script>alert(1)</script> ", 0))
	assert.Equal(t, "héll", Sanitize("héllo", 4))
	assert.Equal(t, "", Sanitize("   ", 10))
	assert.Equal(t, "ok", Sanitize("ok\xff", 10))
}

func TestLeagueAbbr(t *testing.T) {
	got, ok := LeagueAbbr(" nfl ")
	assert.True(t, ok)
	assert.Equal(t, "NFL", got)

	for _, bad := range []string{"A", "TOOLONGABBR1", "NF-L", ""} {
		_, ok := LeagueAbbr(bad)
		assert.False(t, ok, bad)
	}
}

func TestSeason(t *testing.T) {
	_, ok := Season("Season 4")
	assert.True(t, ok)
	_, ok = Season("")
	assert.False(t, ok)
	_, ok = Season("this season label is far too long")
	assert.False(t, ok)
}

func TestHexColorURLAndTime(t *testing.T) {
	assert.True(t, HexColor("#5865F2"))
	assert.False(t, HexColor("5865F2"))
	assert.True(t, URL("https://discord.gg/abc"))
	assert.False(t, URL("discord.gg/abc"))
	assert.False(t, URL("javascript:alert(1)"))
	assert.True(t, TimeOfDay("7:30 PM"))
	assert.True(t, TimeOfDay("19:30"))
	assert.False(t, TimeOfDay("25:00"))
}
