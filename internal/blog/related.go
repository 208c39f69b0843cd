package blog

import (
	"sort"
	"strings"

	"statforge/internal/models"
)

// Scoring weights for related-content ranking
const (
	scoreSameCategory    = 30
	scoreSharedTag       = 15
	scoreSharedTitleWord = 5
	scoreWithin30Days    = 10
	scoreWithin90Days    = 5

	significantWordLen  = 3 // title words must be longer than this
	defaultRelatedLimit = 3
)

// RelatedPosts scores every candidate against the target and returns the
// top limit by descending score. The sort is stable, so ties keep input
// order, and the target itself is never returned. A target with no tags,
// empty title or missing date simply contributes nothing from those terms.
func RelatedPosts(target models.Post, candidates []models.Post, limit int) []models.Post {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	targetTags := make(map[string]struct{}, len(target.Tags))
	for _, tag := range target.Tags {
		targetTags[tag] = struct{}{}
	}
	targetWords := significantWords(target.Title)

	type scoredPost struct {
		post  models.Post
		score int
	}

	scored := make([]scoredPost, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Slug == target.Slug {
			continue
		}

		score := 0
		if candidate.Category == target.Category {
			score += scoreSameCategory
		}

		// Candidate tags may repeat; a duplicated tag counts twice.
		for _, tag := range candidate.Tags {
			if _, shared := targetTags[tag]; shared {
				score += scoreSharedTag
			}
		}

		candidateWords := significantWords(candidate.Title)
		for word := range targetWords {
			if _, shared := candidateWords[word]; shared {
				score += scoreSharedTitleWord
			}
		}

		targetDate := target.PublishedAt()
		candidateDate := candidate.PublishedAt()
		if !targetDate.IsZero() && !candidateDate.IsZero() {
			diff := targetDate.Sub(candidateDate)
			if diff < 0 {
				diff = -diff
			}
			days := diff.Hours() / 24
			switch {
			case days < 30:
				score += scoreWithin30Days
			case days < 90:
				score += scoreWithin90Days
			}
		}

		scored = append(scored, scoredPost{post: candidate, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	result := make([]models.Post, 0, len(scored))
	for _, s := range scored {
		result = append(result, s.post)
	}
	return result
}

// significantWords lowercases a title and keeps the unique words longer
// than three characters.
func significantWords(title string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if len(word) > significantWordLen {
			words[word] = struct{}{}
		}
	}
	return words
}
