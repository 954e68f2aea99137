// Package repository provides storage for deployment records.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Deployment is the record of one contract deployed on one network.
// Records are keyed by (Network, Name).
type Deployment struct {
	ID           uuid.UUID       `json:"id"`
	RunID        string          `json:"runId"`
	Network      string          `json:"network"`
	ChainID      int64           `json:"chainId"`
	Name         string          `json:"name"`
	Contract     string          `json:"contract"`
	Address      string          `json:"address"`
	TxHash       string          `json:"transactionHash"`
	Deployer     string          `json:"deployer"`
	ABI          json.RawMessage `json:"abi"`
	BytecodeHash string          `json:"bytecodeHash"`
	Args         string          `json:"args"`
	BlockNumber  uint64          `json:"blockNumber"`
	GasUsed      uint64          `json:"gasUsed"`
	DeployedAt   time.Time       `json:"deployedAt"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DeploymentRepository defines the interface for deployment record operations.
type DeploymentRepository interface {
	// Get retrieves a deployment by network and name. Returns nil, nil if absent.
	Get(ctx context.Context, network, name string) (*Deployment, error)
	// Upsert creates or replaces a deployment record.
	Upsert(ctx context.Context, d *Deployment) error
	// List returns all deployments on a network ordered by name.
	List(ctx context.Context, network string) ([]*Deployment, error)
	// Delete removes a deployment record.
	Delete(ctx context.Context, network, name string) error
}

// stamp fills identifiers and timestamps before a write.
func stamp(d *Deployment, now time.Time) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DeployedAt.IsZero() {
		d.DeployedAt = now
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}
