package setlist

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Default field limits, in runes.
const (
	DefaultMaxTitle       = 120
	DefaultMaxKey         = 12
	DefaultMaxSetName     = 60
	DefaultMaxSetListName = 120
	DefaultMaxVenue       = 120
	DefaultMaxDate        = 40
	DefaultMaxActName     = 120
)

// Limits bounds the length of every free-text field.
// A zero limit falls back to the package default.
type Limits struct {
	Title       int
	Key         int
	SetName     int
	SetListName int
	Venue       int
	Date        int
	ActName     int
}

// DefaultLimits returns the built-in field limits.
func DefaultLimits() Limits {
	return Limits{
		Title:       DefaultMaxTitle,
		Key:         DefaultMaxKey,
		SetName:     DefaultMaxSetName,
		SetListName: DefaultMaxSetListName,
		Venue:       DefaultMaxVenue,
		Date:        DefaultMaxDate,
		ActName:     DefaultMaxActName,
	}
}

// orDefault fills zero or negative limits from DefaultLimits.
func (l Limits) orDefault() Limits {
	d := DefaultLimits()
	pick := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}
	return Limits{
		Title:       pick(l.Title, d.Title),
		Key:         pick(l.Key, d.Key),
		SetName:     pick(l.SetName, d.SetName),
		SetListName: pick(l.SetListName, d.SetListName),
		Venue:       pick(l.Venue, d.Venue),
		Date:        pick(l.Date, d.Date),
		ActName:     pick(l.ActName, d.ActName),
	}
}

// Clamp normalizes s to NFC, drops control characters, trims surrounding
// whitespace and truncates the result to max runes.
// Whitespace-only input returns "".
func Clamp(s string, max int) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if r == '\t' || r == '\n' || r == '\r' {
				return ' '
			}
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if max > 0 {
		if r := []rune(s); len(r) > max {
			s = strings.TrimSpace(string(r[:max]))
		}
	}
	return s
}

// SanitizeTitle cleans a song title.
func (l Limits) SanitizeTitle(s string) string {
	return Clamp(s, l.orDefault().Title)
}

// SanitizeKey cleans a musical key.
func (l Limits) SanitizeKey(s string) string {
	return Clamp(s, l.orDefault().Key)
}

// SanitizeSetName cleans a set name. An empty result means the set uses
// its synthesized display name.
func (l Limits) SanitizeSetName(s string) string {
	return Clamp(s, l.orDefault().SetName)
}

// SanitizeMetadata cleans every metadata field.
func (l Limits) SanitizeMetadata(m Metadata) Metadata {
	lim := l.orDefault()
	return Metadata{
		SetListName: Clamp(m.SetListName, lim.SetListName),
		Venue:       Clamp(m.Venue, lim.Venue),
		Date:        Clamp(m.Date, lim.Date),
		ActName:     Clamp(m.ActName, lim.ActName),
	}
}

// DefaultSongTitle returns the title given to a song added without one.
// n is the 1-based position of the song among the set's real songs.
func DefaultSongTitle(n int) string {
	return "Song " + strconv.Itoa(n)
}
