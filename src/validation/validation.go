// Package validation normalizes and checks user-supplied command input.
package validation

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict       = bluemonday.StrictPolicy()
	leagueAbbrRe = regexp.MustCompile(`^[A-Za-z0-9]{2,10}$`)
	hexColorRe   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	timeRe       = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]\s?([AaPp][Mm])?$`)
)

// Sanitize strips markup, trims and caps input at max runes (max <= 0 means
// no cap). Invalid UTF-8 is dropped.
func Sanitize(input string, max int) string {
	if !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
	}
	out := strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
	if max > 0 && utf8.RuneCountInString(out) > max {
		out = strings.TrimSpace(string([]rune(out)[:max]))
	}
	return out
}

// LeagueAbbr validates a 2-10 character alphanumeric abbreviation and
// returns it uppercased.
func LeagueAbbr(abbr string) (string, bool) {
	abbr = strings.TrimSpace(abbr)
	if !leagueAbbrRe.MatchString(abbr) {
		return "", false
	}
	return strings.ToUpper(abbr), true
}

// Season accepts any label of 1-20 characters ("S1", "Season 4", "2025").
func Season(season string) (string, bool) {
	season = strings.TrimSpace(season)
	n := utf8.RuneCountInString(season)
	return season, n >= 1 && n <= 20
}

func HexColor(color string) bool {
	return hexColorRe.MatchString(strings.TrimSpace(color))
}

// URL accepts absolute http(s) URLs.
func URL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// TimeOfDay accepts "7:30 PM", "19:30" and "7:30pm".
func TimeOfDay(s string) bool {
	return timeRe.MatchString(strings.TrimSpace(s))
}
