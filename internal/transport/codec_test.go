package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

func sampleStore(t *testing.T) *engine.Store {
	t.Helper()
	store := engine.New(engine.WithIDGenerator(setlist.NewSequenceGenerator("id")))
	g1 := store.Sets()[0].ID
	store.RenameSet(g1, "Main")
	store.AddSongToSet(g1, engine.SongInput{Title: "Intro", Key: "Em"})
	store.AddSongToSet(g1, engine.SongInput{Title: "Closer"})
	name, venue := "Spring Tour", "The Hall"
	store.UpdateMetadata(engine.MetadataPatch{SetListName: &name, Venue: &venue})
	return store
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("gig.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/GIG.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("gig.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("gig"))
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src := sampleStore(t)
			data, err := Encode(src.Document(), format)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "LongestEntry", "metrics are not encoded")

			raw, err := Decode(data, format)
			require.NoError(t, err)

			dst := engine.New(engine.WithIDGenerator(setlist.NewSequenceGenerator("other")))
			require.NoError(t, dst.LoadErr(raw))
			assert.True(t, src.Snapshot().Equal(dst.Snapshot()))
			assert.Equal(t, src.Document().Sets[0].Metrics, dst.Document().Sets[0].Metrics)
		})
	}
}

func TestEncodeStampsVersion(t *testing.T) {
	doc := setlist.Document{Sets: []setlist.SetItem{{ID: "a"}}}
	data, err := Encode(doc, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schemaVersion": 2`)
	assert.Contains(t, string(data), `"songs": []`)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("{"), FormatJSON)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte("sets: [unterminated"), FormatYAML)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Encode(setlist.Document{}, Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeYAMLNormalizesKeys(t *testing.T) {
	data := []byte(`
schemaVersion: 2
sets:
  - id: a
    songs:
      - id: s1
        title: One
        1: numeric key
`)
	raw, err := Decode(data, FormatYAML)
	require.NoError(t, err)

	m, ok := raw.(map[string]any)
	require.True(t, ok)
	sets := m["sets"].([]any)
	song := sets[0].(map[string]any)["songs"].([]any)[0]
	songMap, ok := song.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "numeric key", songMap["1"])
}

func TestDecodedLegacyYAMLLoads(t *testing.T) {
	data := []byte(`
setListName: Old Show
sets:
  - songs:
      - title: A
      - title: B
      - title: "<encore>"
`)
	raw, err := Decode(data, FormatYAML)
	require.NoError(t, err)

	store := engine.New(engine.WithIDGenerator(setlist.NewSequenceGenerator("id")))
	require.NoError(t, store.LoadErr(raw))
	assert.Equal(t, "Old Show", store.Metadata().SetListName)
	set := store.Sets()[0]
	require.Len(t, set.Songs, 3)
	assert.True(t, set.Songs[2].IsEncoreMarker)
}
