package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/gosimple/slug"
)

const pathAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomPathLength is the slug length used for private resources.
const RandomPathLength = 12

// wordsPerMinute is the reading-speed constant behind readingTime.
const wordsPerMinute = 300

// MakeSlug derives a URL-safe slug from a human-readable label.
func MakeSlug(label string) string {
	return slug.Make(strings.ToLower(label))
}

// ReadingTime estimates minutes-to-read, never less than one.
func ReadingTime(text string) int {
	words := strings.Fields(text)
	minutes := (len(words) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// RandomPath returns a fixed-length string drawn uniformly from the
// alphanumeric alphabet, used as an unguessable slug for private resources.
func RandomPath(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(pathAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = pathAlphabet[n.Int64()]
	}
	return string(b)
}
