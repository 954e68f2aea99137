package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deploymentRowColumns = []string{
	"id", "run_id", "network", "chain_id", "name", "contract", "address", "tx_hash", "deployer",
	"abi", "bytecode_hash", "args", "block_number", "gas_used", "deployed_at", "created_at", "updated_at",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func addDeploymentRow(rows *pgxmock.Rows, id uuid.UUID, network, name string, blockNumber, gasUsed int64, at time.Time) *pgxmock.Rows {
	return rows.AddRow(
		id, "01JAH2ZQ7Y0000000000000000", network, int64(11155111), name, name,
		"0x5FbDB2315678afecb367f032d93F642f64180aa3",
		"0x9c0d2a5f61a4a2b9a6cf8a9b27d2b1d5b1f6e3d2c1b0a9f8e7d6c5b4a3928170",
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		[]byte(`[]`), "0xabc", "0x", blockNumber, gasUsed, at, at, at,
	)
}

func TestPostgresRepoGetMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	mock.ExpectQuery(`(?s)SELECT.+FROM deployments.+WHERE network = \$1 AND name = \$2`).
		WithArgs("sepolia", "MockV3Aggregator").
		WillReturnError(pgx.ErrNoRows)

	d, err := repo.Get(context.Background(), "sepolia", "MockV3Aggregator")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestPostgresRepoGet(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	id := uuid.New()
	at := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT.+FROM deployments.+WHERE network = \$1 AND name = \$2`).
		WithArgs("sepolia", "MockV3Aggregator").
		WillReturnRows(addDeploymentRow(mock.NewRows(deploymentRowColumns), id, "sepolia", "MockV3Aggregator", 6_500_000, 123456, at))

	d, err := repo.Get(context.Background(), "sepolia", "MockV3Aggregator")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, id, d.ID)
	assert.Equal(t, int64(11155111), d.ChainID)
	assert.Equal(t, uint64(6_500_000), d.BlockNumber)
	assert.Equal(t, uint64(123456), d.GasUsed)
	assert.JSONEq(t, `[]`, string(d.ABI))
	assert.True(t, at.Equal(d.DeployedAt))
}

func TestPostgresRepoGetError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	mock.ExpectQuery(`(?s)SELECT.+FROM deployments`).
		WithArgs("sepolia", "MockV3Aggregator").
		WillReturnError(errors.New("connection reset"))

	d, err := repo.Get(context.Background(), "sepolia", "MockV3Aggregator")
	assert.EqualError(t, err, "connection reset")
	assert.Nil(t, d)
}

func TestPostgresRepoUpsertKeepsIdentity(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	existingID := uuid.New()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)

	d := newDeployment("sepolia", "MockV3Aggregator")
	mock.ExpectQuery(`(?s)INSERT INTO deployments.+ON CONFLICT \(network, name\) DO UPDATE SET.+RETURNING id, created_at, updated_at`).
		WithArgs(
			pgxmock.AnyArg(), d.RunID, "sepolia", int64(1337), "MockV3Aggregator", "MockV3Aggregator",
			d.Address, d.TxHash, d.Deployer, []byte(`[]`), "0xabc", "0x", int64(1), int64(21000),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(existingID, created, updated))

	require.NoError(t, repo.Upsert(context.Background(), d))
	assert.Equal(t, existingID, d.ID)
	assert.True(t, created.Equal(d.CreatedAt))
	assert.True(t, updated.Equal(d.UpdatedAt))
	assert.False(t, d.DeployedAt.IsZero())
}

func TestPostgresRepoUpsertError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	mock.ExpectQuery(`INSERT INTO deployments`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("duplicate key"))

	err := repo.Upsert(context.Background(), newDeployment("sepolia", "MockV3Aggregator"))
	assert.EqualError(t, err, "duplicate key")
}

func TestPostgresRepoListOrderedByName(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	at := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	rows := mock.NewRows(deploymentRowColumns)
	addDeploymentRow(rows, uuid.New(), "sepolia", "FundMe", 2, 900000, at)
	addDeploymentRow(rows, uuid.New(), "sepolia", "MockV3Aggregator", 1, 500000, at)

	mock.ExpectQuery(`(?s)FROM deployments.+WHERE network = \$1.+ORDER BY name`).
		WithArgs("sepolia").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), "sepolia")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "FundMe", list[0].Name)
	assert.Equal(t, uint64(900000), list[0].GasUsed)
	assert.Equal(t, "MockV3Aggregator", list[1].Name)
}

func TestPostgresRepoListEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	mock.ExpectQuery(`ORDER BY name`).
		WithArgs("localhost").
		WillReturnRows(mock.NewRows(deploymentRowColumns))

	list, err := repo.List(context.Background(), "localhost")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostgresRepoDelete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresDeploymentRepository(mock)

	mock.ExpectExec(`DELETE FROM deployments WHERE network = \$1 AND name = \$2`).
		WithArgs("sepolia", "FundMe").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "sepolia", "FundMe"))
}
