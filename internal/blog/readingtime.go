package blog

import (
	"fmt"
	"strings"
)

const (
	wordsPerMinute    = 210
	minReadingMinutes = 3
)

// EstimateReadingTime derives a reading-time label from the word count of
// the raw body at 210 words per minute, with a floor of three minutes.
func EstimateReadingTime(body string) string {
	words := len(strings.Fields(body))

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < minReadingMinutes {
		minutes = minReadingMinutes
	}
	return fmt.Sprintf("%d min read", minutes)
}
