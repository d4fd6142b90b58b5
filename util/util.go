package util

import "strings"

// Unpacks a slice into arguments
// If the slice has less elements than variables passed in, the rest of the variables are set to their zero value
// If the slice has more elements than the variables passed in, the additional elements are ignored
// Copied and adjusted from https://stackoverflow.com/a/19832661
func Unpack[T any](toUnpack []T, unpackInto ...*T) {
	var zero T
	for i := range unpackInto {
		if i < len(toUnpack) {
			*unpackInto[i] = toUnpack[i]
		} else {
			*unpackInto[i] = zero
		}
	}
}

// SplitCommand splits a repl line into whitespace separated words, filling into in order.
// Whatever is left after the last variable is returned untouched, so "run foot -e htop"
// unpacked into one variable gives "run" and "foot -e htop"
func SplitCommand(line string, into ...*string) (rest string) {
	rest = strings.TrimSpace(line)
	words := make([]string, 0, len(into))
	for range into {
		if rest == "" {
			break
		}
		word, tail, _ := strings.Cut(rest, " ")
		words = append(words, word)
		rest = strings.TrimSpace(tail)
	}
	Unpack(words, into...)
	return rest
}
