package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"pixadmin/internal/errors"
)

const topWordLimit = 100

var wordPattern = regexp.MustCompile(`[a-z0-9_]+`)

// Stop words excluded from the prompt frequency ranking.
var promptStopWords = map[string]struct{}{
	"the": {}, "is": {}, "in": {}, "and": {}, "of": {}, "to": {}, "a": {},
	"with": {}, "on": {}, "for": {}, "as": {}, "at": {}, "by": {}, "it": {},
	"an": {}, "be": {}, "this": {}, "that": {}, "from": {}, "or": {},
	"which": {}, "but": {}, "not": {}, "are": {}, "was": {}, "were": {},
	"has": {}, "have": {}, "had": {}, "all": {}, "their": {}, "your": {},
	"more": {},
}

// PromptWords ranks the most frequent prompt words across every image. Ties
// break alphabetically so the ranking is stable between runs.
func (s *statsService) PromptWords(ctx context.Context) ([]WordCount, error) {
	prompts, err := s.imageRepo.Prompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prompts: %w", err)
	}
	if len(prompts) == 0 {
		return nil, errors.ErrNoImages
	}

	text := strings.ToLower(strings.Join(prompts, " "))

	frequency := make(map[string]int)
	for _, word := range wordPattern.FindAllString(text, -1) {
		if _, stop := promptStopWords[word]; stop {
			continue
		}
		frequency[word]++
	}

	words := make([]WordCount, 0, len(frequency))
	for word, count := range frequency {
		words = append(words, WordCount{Word: word, Count: count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if len(words) > topWordLimit {
		words = words[:topWordLimit]
	}
	return words, nil
}
