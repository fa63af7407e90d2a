package engine

import (
	"math/rand/v2"
	"regexp"
	"strconv"
)

// randPattern matches %RAND(min,max)% substitution tokens.
var randPattern = regexp.MustCompile(`%RAND\((\d+),(\d+)\)%`)

// ExpandRandom replaces every %RAND(min,max)% token in s with a random
// integer in [min, max]. Inverted bounds are swapped rather than
// rejected. Strings without tokens are returned unchanged.
func ExpandRandom(s string) string {
	return randPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := randPattern.FindStringSubmatch(m)

		lo, err := strconv.Atoi(sub[1])
		if err != nil {
			return m
		}
		hi, err := strconv.Atoi(sub[2])
		if err != nil {
			return m
		}
		if hi < lo {
			lo, hi = hi, lo
		}

		return strconv.Itoa(lo + rand.IntN(hi-lo+1))
	})
}
