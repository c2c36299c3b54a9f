package ragdex

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMinQuality is the minimum quality score a chunk must reach to be
// kept during chunking.
const DefaultMinQuality = 0.3

var sentenceEndRe = regexp.MustCompile(`[.!?]+`)

// QualityScore rates text between 0.0 (unusable) and 1.0 (high quality).
// It is a deterministic, pure function of the text: blank text scores 0.0,
// fewer than five words scores 0.1, text without sentence structure scores
// 0.2, and everything else starts at 0.3 with bonuses for word count,
// average sentence length, and the ratio of alphabetic characters.
func QualityScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	wordCount := len(strings.Fields(text))
	if wordCount < 5 {
		return 0.1
	}

	sentenceCount := 0
	for _, s := range sentenceEndRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}
	if sentenceCount == 0 {
		return 0.2
	}

	avgSentenceLen := float64(wordCount) / float64(sentenceCount)

	var alphaChars, totalChars int
	for _, r := range text {
		totalChars++
		if unicode.IsLetter(r) {
			alphaChars++
		}
	}
	alphaRatio := float64(alphaChars) / float64(totalChars)

	score := 0.3

	switch {
	case wordCount >= 20 && wordCount <= 500:
		score += 0.3
	case wordCount > 500:
		score += 0.2
	}

	if avgSentenceLen >= 5 && avgSentenceLen <= 25 {
		score += 0.2
	} else {
		score += 0.1
	}

	if alphaRatio > 0.6 {
		score += 0.2
	} else {
		score += alphaRatio * 0.2
	}

	return min(1.0, max(0.0, score))
}

// PassesQuality reports whether text meets the given minimum quality score.
func PassesQuality(text string, minQuality float64) bool {
	return QualityScore(text) >= minQuality
}
