package setlist

import "github.com/rivo/uniseg"

// EntryText returns the label a song is displayed with: its title, followed
// by the key in parentheses when one is set.
func EntryText(s Song) string {
	if s.Key == "" {
		return s.Title
	}
	return s.Title + " (" + s.Key + ")"
}

// BuildMetrics derives display metrics from a song list. Markers are
// ignored. Width is measured in monospace cells; on ties the earliest
// entry wins.
func BuildMetrics(songs []Song) SetMetrics {
	var m SetMetrics
	for _, s := range songs {
		if IsMarker(s) {
			continue
		}
		m.TotalRows++

		text := EntryText(s)
		w := uniseg.StringWidth(text)
		if m.TotalRows == 1 || w > m.LongestEntryWidth {
			m.LongestEntryID = s.ID
			m.LongestEntryText = text
			m.LongestEntryWidth = w
		}
	}
	return m
}

// RefreshMetrics recomputes metrics for every set in the document.
func RefreshMetrics(doc *Document) {
	for i := range doc.Sets {
		doc.Sets[i].Metrics = BuildMetrics(doc.Sets[i].Songs)
	}
}
