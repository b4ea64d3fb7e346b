package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "peers:cohort:hk1_2425", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "peers:cohort:hk1_2425", map[string]int{"n": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "peers:*"))
	assert.NoError(t, repo.Close())
}
