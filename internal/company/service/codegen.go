package service

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"
)

// GenerateTempCode derives a temporary company code from a company name:
// "C" + the initials of the first two words (or the first two letters of a
// single word, or two random uppercase letters when the name is too short)
// + one random digit. The random suffix carries no uniqueness guarantee;
// registration re-rolls on a collision.
func GenerateTempCode(name string) string {
	letters := codeLetters(name)
	return "C" + letters + strconv.Itoa(rand.IntN(10))
}

func codeLetters(name string) string {
	words := strings.Fields(strings.TrimSpace(name))

	switch {
	case len(words) >= 2:
		a := firstLetter(words[0])
		b := firstLetter(words[1])
		if a != 0 && b != 0 {
			return string([]rune{a, b})
		}
	case len(words) == 1:
		runes := []rune(words[0])
		if len(runes) >= 2 && unicode.IsLetter(runes[0]) && unicode.IsLetter(runes[1]) {
			return strings.ToUpper(string(runes[:2]))
		}
	}

	return randomLetter() + randomLetter()
}

func firstLetter(word string) rune {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r)
		}
		break
	}
	return 0
}

func randomLetter() string {
	return string(rune('A' + rand.IntN(26)))
}
