package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// leet maps look-alike characters back to the letter they stand for.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// Moderator masks censored words in post and comment text.
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// folded is a text reduced to lowercase letters, with the index of every kept
// rune in the original text.
type folded struct {
	runes  []rune
	origin []int
}

// NewModerator builds one automaton over the folded censored words.
// Words made only of noise are ignored.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		f := fold([]rune(word))
		if len(f.runes) == 0 {
			log.Debug("Ignoring censored word without letters", "word", word)
			continue
		}
		patterns = append(patterns, f.runes)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, censoredChar: censoredChar, log: log}, nil
}

// Censor masks every censored word of original, including the noise between
// its letters, and returns the distinct words found in order of appearance.
func (m *Moderator) Censor(original string) (string, []string) {
	text := []rune(original)
	f := fold(text)
	if len(f.runes) == 0 {
		return original, nil
	}

	matches := m.matcher.MultiPatternSearch(f.runes, false)
	if len(matches) == 0 {
		return original, nil
	}

	words := make([]string, 0, len(matches))
	for _, match := range matches {
		end := match.Pos + len(match.Word)
		if match.Pos < 0 || end > len(f.origin) {
			continue
		}
		for i := f.origin[match.Pos]; i <= f.origin[end-1]; i++ {
			text[i] = m.censoredChar
		}
		words = append(words, string(match.Word))
	}

	words = lo.Uniq(words)
	m.log.Debug("Censored words found", "count", len(words))
	return string(text), words
}

func fold(input []rune) folded {
	f := folded{runes: make([]rune, 0, len(input)), origin: make([]int, 0, len(input))}
	for i, r := range input {
		if letter, ok := leet[r]; ok {
			r = letter
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.origin = append(f.origin, i)
	}
	return f
}
