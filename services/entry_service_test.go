package services

import (
	"testing"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEntry(t *testing.T) {
	observerEntry := models.EntryDescription{Import: []string{"observer.js"}}

	tests := []struct {
		name     string
		existing any
		want     models.EntryConfig
	}{
		{
			name:     "absent",
			existing: nil,
			want:     models.EntryConfig{"tracker": observerEntry},
		},
		{
			name:     "single string",
			existing: "./src/index.js",
			want: models.EntryConfig{
				"main":    {Import: []string{"./src/index.js"}},
				"tracker": observerEntry,
			},
		},
		{
			name:     "single list",
			existing: []any{"./a.js", "./b.js"},
			want: models.EntryConfig{
				"main":    {Import: []string{"./a.js", "./b.js"}},
				"tracker": observerEntry,
			},
		},
		{
			name: "multi entry",
			existing: map[string]any{
				"app":    "./app.js",
				"admin":  map[string]any{"import": []any{"./admin.js", "./admin.css"}},
				"vendor": []string{"./vendor.js"},
			},
			want: models.EntryConfig{
				"app":     {Import: []string{"./app.js"}},
				"admin":   {Import: []string{"./admin.js", "./admin.css"}},
				"vendor":  {Import: []string{"./vendor.js"}},
				"tracker": observerEntry,
			},
		},
		{
			name:     "normalized config",
			existing: models.EntryConfig{"app": {Import: []string{"./app.js"}}},
			want: models.EntryConfig{
				"app":     {Import: []string{"./app.js"}},
				"tracker": observerEntry,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeEntry(tt.existing, "tracker", "observer.js")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeEntryDoesNotMutateInput(t *testing.T) {
	existing := models.EntryConfig{"app": {Import: []string{"./app.js"}}}
	_, err := MergeEntry(existing, "tracker", "observer.js")
	require.NoError(t, err)
	assert.Len(t, existing, 1)

	raw := map[string]any{"app": "./app.js"}
	_, err = MergeEntry(raw, "tracker", "observer.js")
	require.NoError(t, err)
	assert.Len(t, raw, 1)
}

func TestMergeEntryRejectsUnknownShapes(t *testing.T) {
	_, err := MergeEntry(42, "tracker", "observer.js")
	assert.ErrorIs(t, err, utils.ErrEntryConfig)

	_, err = MergeEntry([]any{"./a.js", 3}, "tracker", "observer.js")
	assert.ErrorIs(t, err, utils.ErrEntryConfig)

	_, err = MergeEntry(map[string]any{"app": map[string]any{"filename": "x"}}, "tracker", "observer.js")
	assert.ErrorIs(t, err, utils.ErrEntryConfig)
}
