package game

import (
	"bufio"
	"errors"
	"log"
	"math/rand"
	"os"
	"strings"
)

// ErrNoWords is returned when a word is requested from an empty list. A game
// round refuses to start rather than spin on an empty list.
var ErrNoWords = errors.New("word list is empty")

// WordList is an immutable pool of challenge words. Selection is uniform
// random with replacement.
type WordList struct {
	words []string
}

func NewWordList(words []string) *WordList {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w != "" {
			kept = append(kept, w)
		}
	}
	return &WordList{words: kept}
}

// LoadWords reads a newline-delimited word file. A missing or unreadable file
// is logged and degrades to an empty list; the server still starts.
func LoadWords(path string) *WordList {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("could not load word list from %s: %v", path, err)
		return NewWordList(nil)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Printf("error reading word list from %s: %v", path, err)
	}

	list := NewWordList(words)
	log.Printf("loaded %d words from %s", list.Len(), path)
	return list
}

func (l *WordList) Len() int {
	return len(l.words)
}

// Pick returns a uniformly random word.
func (l *WordList) Pick() (string, error) {
	if len(l.words) == 0 {
		return "", ErrNoWords
	}
	return l.words[rand.Intn(len(l.words))], nil
}
