package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histfacts/dataset"
	"histfacts/facts"
)

func TestHistorical(t *testing.T) {
	all, err := dataset.Historical()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	ids := make(map[int]bool)
	for _, f := range all {
		assert.False(t, ids[f.ID], "duplicate id %d", f.ID)
		ids[f.ID] = true
		assert.NotEmpty(t, f.Text, "fact %d", f.ID)
		assert.Contains(t, facts.DefaultPeriods, f.Period, "fact %d", f.ID)
	}

	s, err := facts.New(all)
	require.NoError(t, err)
	assert.Equal(t, len(all), s.Count())

	_, err = s.RandomFamilyFriendlyFact()
	assert.NoError(t, err)
}

func TestParse(t *testing.T) {
	t.Run("LegacyFactKey", func(t *testing.T) {
		got, err := dataset.Parse(strings.NewReader(`
facts:
  - id: 3
    fact: Did you know?
    tags: [ancient]
    period: ancient
    year: -100
`))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Did you know?", got[0].Text)
		assert.False(t, got[0].IsExplicit)
		assert.Equal(t, -100, got[0].Year)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := dataset.Parse(strings.NewReader(""))
		assert.ErrorIs(t, err, facts.ErrEmptyDataset)

		_, err = dataset.Parse(strings.NewReader("facts: []\n"))
		assert.ErrorIs(t, err, facts.ErrEmptyDataset)
	})

	invalid := map[string]string{
		"NonPositiveID": "facts:\n  - id: 0\n    text: x\n",
		"DuplicateID":   "facts:\n  - id: 1\n    text: x\n  - id: 1\n    text: y\n",
		"BlankText":     "facts:\n  - id: 1\n    text: '  '\n",
		"UnknownField":  "facts:\n  - id: 1\n    text: x\n    century: 5\n",
		"Malformed":     "facts: [",
	}
	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.Parse(strings.NewReader(doc))
			assert.ErrorIs(t, err, dataset.ErrInvalidDataset)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("Bundled", func(t *testing.T) {
		t.Setenv("HISTFACTS_DATASET", "")
		got, err := dataset.FromEnv()
		require.NoError(t, err)
		want, err := dataset.Historical()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("facts:\n  - id: 9\n    text: custom\n    year: 1900\n"), 0o600))
		t.Setenv("HISTFACTS_DATASET", path)

		got, err := dataset.FromEnv()
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 9, got[0].ID)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Setenv("HISTFACTS_DATASET", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := dataset.FromEnv()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
