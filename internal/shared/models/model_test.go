package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	sm "github.com/IvanChernomyrdin/go-devlog/internal/shared/models"
)

type patch struct {
	Title sm.Optional[string]  `json:"title"`
	Link  sm.Optional[string]  `json:"link"`
	Tags  sm.Optional[sm.Tags] `json:"tags"`
}

func TestOptional_PresentVsAbsent(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"","tags":null}`), &p))

	require.True(t, p.Title.Set)
	require.Equal(t, "", p.Title.Value)
	require.False(t, p.Link.Set)
	require.True(t, p.Tags.Set)
	require.Empty(t, p.Tags.Value)

	title, link := "old", "https://example.com"
	p.Title.ApplyTo(&title)
	p.Link.ApplyTo(&link)
	require.Equal(t, "", title)
	require.Equal(t, "https://example.com", link)
}

func TestTags_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want sm.Tags
	}{
		{`"Go, React ,"`, sm.Tags{"Go", "React"}},
		{`[" Go ","", "SQL"]`, sm.Tags{"Go", "SQL"}},
		{`null`, sm.Tags{}},
		{`""`, sm.Tags{}},
	}
	for _, tt := range tests {
		var got sm.Tags
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	var bad sm.Tags
	require.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestParseTags(t *testing.T) {
	require.Equal(t, sm.Tags{"Go", "Redis"}, sm.ParseTags([]string{"Go, Redis"}))
	require.Equal(t, sm.Tags{"Go", "Redis"}, sm.ParseTags([]string{`["Go","Redis"]`}))
	require.Equal(t, sm.Tags{"Go", "Redis"}, sm.ParseTags([]string{"Go", " ", "Redis"}))
}
