package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
)

func promptImages(prompts ...string) *memImageRepo {
	repo := &memImageRepo{}
	for _, p := range prompts {
		repo.images = append(repo.images, model.Image{ID: uuid.New(), Prompt: p})
	}
	return repo
}

func TestPromptWordsRanking(t *testing.T) {
	images := promptImages(
		"The Cat in the hat",
		"cat with a dog",
		"dog",
	)
	svc := newTestStatsService(&memUserRepo{}, images, &stubPaymentRepo{})

	words, err := svc.PromptWords(context.Background())
	require.NoError(t, err)

	// Stop words dropped, counting case-insensitive, ties alphabetical.
	assert.Equal(t, []WordCount{
		{Word: "cat", Count: 2},
		{Word: "dog", Count: 2},
		{Word: "hat", Count: 1},
	}, words)
}

func TestPromptWordsSplitsOnPunctuation(t *testing.T) {
	images := promptImages("neon-lit city, neon skyline; 4k")
	svc := newTestStatsService(&memUserRepo{}, images, &stubPaymentRepo{})

	words, err := svc.PromptWords(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []WordCount{
		{Word: "neon", Count: 2},
		{Word: "4k", Count: 1},
		{Word: "city", Count: 1},
		{Word: "lit", Count: 1},
		{Word: "skyline", Count: 1},
	}, words)
}

func TestPromptWordsNoImages(t *testing.T) {
	svc := newTestStatsService(&memUserRepo{}, &memImageRepo{}, &stubPaymentRepo{})

	words, err := svc.PromptWords(context.Background())
	assert.Nil(t, words)
	assert.Equal(t, errors.ErrNoImages, err)
}
