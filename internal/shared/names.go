package shared

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SimilarityThreshold is the minimum Jaro-Winkler score for two artist names to be treated as the same artist.
const SimilarityThreshold = 0.92

// NormalizeName folds an artist name for comparison: accents stripped, lowercased, whitespace collapsed.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NameSimilarity scores two artist names between 0 and 1 after normalization.
func NameSimilarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return smetrics.JaroWinkler(na, nb, 0.7, 4)
}

// SameArtist reports whether two names most likely refer to the same artist.
func SameArtist(a, b string) bool {
	return NameSimilarity(a, b) >= SimilarityThreshold
}
