package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordList(t *testing.T) {
	t.Run("pick from an empty list fails", func(t *testing.T) {
		list := NewWordList(nil)

		assert.Equal(t, 0, list.Len())
		_, err := list.Pick()
		assert.ErrorIs(t, err, ErrNoWords)
	})

	t.Run("pick returns a member of the list", func(t *testing.T) {
		list := NewWordList([]string{"gopher", "channel", "mutex"})

		for i := 0; i < 50; i++ {
			word, err := list.Pick()
			require.NoError(t, err)
			assert.Contains(t, []string{"gopher", "channel", "mutex"}, word)
		}
	})

	t.Run("blank lines are dropped", func(t *testing.T) {
		list := NewWordList([]string{"gopher", "", "  ", "channel"})
		assert.Equal(t, 2, list.Len())
	})
}

func TestLoadWords(t *testing.T) {
	t.Run("missing file degrades to an empty list", func(t *testing.T) {
		list := LoadWords(filepath.Join(t.TempDir(), "nope.txt"))

		assert.Equal(t, 0, list.Len())
		_, err := list.Pick()
		assert.ErrorIs(t, err, ErrNoWords)
	})

	t.Run("loads one word per line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "words.txt")
		require.NoError(t, os.WriteFile(path, []byte("gopher\nchannel\n\nmutex\n"), 0o644))

		list := LoadWords(path)
		assert.Equal(t, 3, list.Len())

		word, err := list.Pick()
		require.NoError(t, err)
		assert.NotEmpty(t, word)
	})
}
