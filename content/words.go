package content

import (
	"math"
	"regexp"

	"github.com/RadhiFadlillah/whatlanggo"
)

var (
	rxCJK    = regexp.MustCompile(`[\x{3040}-\x{A4CF}]`)
	rxHangul = regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`)

	// Broad alphabetic letters plus Hangul syllables.
	rxLetterWords = regexp.MustCompile(`(\S*[\w\x{00C0}-\x{1FFF}\x{AC00}-\x{D7AF}]\S*)`)
	// Hiragana, Katakana and CJK unified ideographs, one match per character.
	rxCJKChars = regexp.MustCompile(`([\x{3040}-\x{A4CF}])`)
	// Broad alphabetic letters only.
	rxFastWords = regexp.MustCompile(`(\S*[\w\x{00C0}-\x{1FFF}]\S*)`)
)

// cjkWordsPerChar approximates words per Chinese or Japanese character.
const cjkWordsPerChar = 0.55

// WordCounter counts words in text. Exact segmentation of some scripts
// needs large dictionaries, so counts for those are approximations.
type WordCounter interface {
	Count(text string) int
}

// FullWordCounter handles every supported script, including CJK text where
// words are not whitespace delimited.
type FullWordCounter struct{}

func (FullWordCounter) Count(text string) int {
	count := len(rxLetterWords.FindAllString(text, -1))
	cjk := len(rxCJKChars.FindAllString(text, -1))
	return count + int(math.Ceil(float64(cjk)*cjkWordsPerChar))
}

// LetterWordCounter handles whitespace-delimited scripts and Hangul.
type LetterWordCounter struct{}

func (LetterWordCounter) Count(text string) int {
	return len(rxLetterWords.FindAllString(text, -1))
}

// FastWordCounter handles whitespace-delimited alphabetic scripts only.
type FastWordCounter struct{}

func (FastWordCounter) Count(text string) int {
	return len(rxFastWords.FindAllString(text, -1))
}

// SelectWordCounter picks the counter suited to sample. Samples that contain
// any CJK or Hangul characters never get a counter that would ignore them.
func SelectWordCounter(sample string) WordCounter {
	switch {
	case rxCJK.MatchString(sample):
		return FullWordCounter{}
	case rxHangul.MatchString(sample):
		return LetterWordCounter{}
	default:
		return FastWordCounter{}
	}
}

// DetectLanguage returns the ISO 639-1 code of the language text is written
// in, or an empty string when detection is not reliable.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

// CountWords counts the words of text with counter, selecting a counter from
// text itself when counter is nil.
func CountWords(text string, counter WordCounter) int {
	if counter == nil {
		counter = SelectWordCounter(text)
	}
	return counter.Count(text)
}
