package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoUpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDeploymentRepository()

	missing, err := repo.Get(ctx, "hardhat", "MockV3Aggregator")
	require.NoError(t, err)
	assert.Nil(t, missing)

	first := newDeployment("hardhat", "MockV3Aggregator")
	require.NoError(t, repo.Upsert(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)

	second := newDeployment("hardhat", "MockV3Aggregator")
	second.Address = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "hardhat", "MockV3Aggregator")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", got.Address)

	// callers get copies
	got.Address = "0x0"
	again, _ := repo.Get(ctx, "hardhat", "MockV3Aggregator")
	assert.Equal(t, "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", again.Address)
}

func TestMemoryRepoListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDeploymentRepository()

	require.NoError(t, repo.Upsert(ctx, newDeployment("hardhat", "MockV3Aggregator")))
	require.NoError(t, repo.Upsert(ctx, newDeployment("hardhat", "FundMe")))
	require.NoError(t, repo.Upsert(ctx, newDeployment("localhost", "FundMe")))

	list, err := repo.List(ctx, "hardhat")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "FundMe", list[0].Name)
	assert.Equal(t, "MockV3Aggregator", list[1].Name)

	require.NoError(t, repo.Delete(ctx, "hardhat", "FundMe"))
	require.NoError(t, repo.Delete(ctx, "sepolia", "FundMe"))

	list, err = repo.List(ctx, "hardhat")
	require.NoError(t, err)
	require.Len(t, list, 1)

	other, err := repo.List(ctx, "localhost")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMemoryRepoIsNotShared(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, NewMemoryDeploymentRepository().Upsert(ctx, newDeployment("hardhat", "MockV3Aggregator")))

	got, err := NewMemoryDeploymentRepository().Get(ctx, "hardhat", "MockV3Aggregator")
	require.NoError(t, err)
	assert.Nil(t, got)
}
