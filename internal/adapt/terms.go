package adapt

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a an and are as at be been being but by can could do does for from had has have
		he her his i if in into is it its job may more most must not of on or our over role she should so such than that
		the their them then there these they this those to under up us very was we were what when where which who will
		with within would you your years year experience team work working looking ideal candidate responsibilities
		requirements required preferred plus strong knowledge skills ability etc`) {
		stopWords[w] = struct{}{}
	}
}

// tokenize lower-cases text and splits it on anything that is not a letter,
// digit, '+' or '#', so that C++ and C# survive as terms.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isTermBreak)
}

func isTermBreak(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}

// vocabulary holds term frequencies of a job description without stop words.
type vocabulary struct {
	tokens []string
	freq   map[string]int
}

func newVocabulary(jobDescription string) vocabulary {
	tokens := tokenize(jobDescription)
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		if _, stop := stopWords[t]; stop {
			continue
		}
		freq[t]++
	}
	return vocabulary{tokens: tokens, freq: freq}
}

// phraseCount counts how often the phrase occurs as a run of whole tokens.
func (v vocabulary) phraseCount(phrase string) int {
	words := tokenize(phrase)
	if len(words) == 0 || len(words) > len(v.tokens) {
		return 0
	}

	count := 0
	for i := 0; i+len(words) <= len(v.tokens); i++ {
		match := true
		for j, w := range words {
			if v.tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}

// overlap scores text by the job-description frequency of each distinct term it contains.
func (v vocabulary) overlap(text string) int {
	seen := map[string]struct{}{}
	score := 0
	for _, t := range tokenize(text) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		score += v.freq[t]
	}
	return score
}
