package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const deploymentColumns = `
	id, run_id, network, chain_id, name, contract, address, tx_hash, deployer,
	abi, bytecode_hash, args, block_number, gas_used, deployed_at, created_at, updated_at`

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresDeploymentRepo struct {
	pool DBTX
}

// NewPostgresDeploymentRepository creates a deployment repository backed by PostgreSQL.
func NewPostgresDeploymentRepository(pool DBTX) DeploymentRepository {
	return &postgresDeploymentRepo{pool: pool}
}

// Get retrieves a deployment by network and name.
func (r *postgresDeploymentRepo) Get(ctx context.Context, network, name string) (*Deployment, error) {
	query := `SELECT` + deploymentColumns + `
		FROM deployments
		WHERE network = $1 AND name = $2`

	d, err := scanDeployment(r.pool.QueryRow(ctx, query, network, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Upsert creates or replaces a deployment record.
func (r *postgresDeploymentRepo) Upsert(ctx context.Context, d *Deployment) error {
	query := `
		INSERT INTO deployments (` + deploymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (network, name) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			chain_id = EXCLUDED.chain_id,
			contract = EXCLUDED.contract,
			address = EXCLUDED.address,
			tx_hash = EXCLUDED.tx_hash,
			deployer = EXCLUDED.deployer,
			abi = EXCLUDED.abi,
			bytecode_hash = EXCLUDED.bytecode_hash,
			args = EXCLUDED.args,
			block_number = EXCLUDED.block_number,
			gas_used = EXCLUDED.gas_used,
			deployed_at = EXCLUDED.deployed_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	stamp(d, time.Now().UTC())

	return r.pool.QueryRow(ctx, query,
		d.ID,
		d.RunID,
		d.Network,
		d.ChainID,
		d.Name,
		d.Contract,
		d.Address,
		d.TxHash,
		d.Deployer,
		[]byte(d.ABI),
		d.BytecodeHash,
		d.Args,
		int64(d.BlockNumber),
		int64(d.GasUsed),
		d.DeployedAt,
		d.CreatedAt,
		d.UpdatedAt,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// List returns all deployments on a network ordered by name.
func (r *postgresDeploymentRepo) List(ctx context.Context, network string) ([]*Deployment, error) {
	query := `SELECT` + deploymentColumns + `
		FROM deployments
		WHERE network = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, network)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a deployment record.
func (r *postgresDeploymentRepo) Delete(ctx context.Context, network, name string) error {
	query := `DELETE FROM deployments WHERE network = $1 AND name = $2`
	_, err := r.pool.Exec(ctx, query, network, name)
	return err
}

func scanDeployment(row pgx.Row) (*Deployment, error) {
	var (
		d           Deployment
		abi         []byte
		blockNumber int64
		gasUsed     int64
	)
	err := row.Scan(
		&d.ID,
		&d.RunID,
		&d.Network,
		&d.ChainID,
		&d.Name,
		&d.Contract,
		&d.Address,
		&d.TxHash,
		&d.Deployer,
		&abi,
		&d.BytecodeHash,
		&d.Args,
		&blockNumber,
		&gasUsed,
		&d.DeployedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.ABI = abi
	d.BlockNumber = uint64(blockNumber)
	d.GasUsed = uint64(gasUsed)
	return &d, nil
}
