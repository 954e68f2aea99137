package repository

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryDeploymentRepo struct {
	mu      sync.RWMutex
	records map[string]map[string]*Deployment
}

// NewMemoryDeploymentRepository creates a deployment repository that lives only
// as long as the process. It backs the in-process hardhat chain, whose state is
// gone once the process exits.
func NewMemoryDeploymentRepository() DeploymentRepository {
	return &memoryDeploymentRepo{records: make(map[string]map[string]*Deployment)}
}

// Get retrieves a deployment by network and name.
func (r *memoryDeploymentRepo) Get(_ context.Context, network, name string) (*Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.records[network][name]
	if !ok {
		return nil, nil
	}
	return cloneDeployment(d), nil
}

// Upsert creates or replaces a deployment record.
func (r *memoryDeploymentRepo) Upsert(_ context.Context, d *Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[d.Network][d.Name]; ok {
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
	}
	stamp(d, time.Now().UTC())

	byName, ok := r.records[d.Network]
	if !ok {
		byName = make(map[string]*Deployment)
		r.records[d.Network] = byName
	}
	byName[d.Name] = cloneDeployment(d)
	return nil
}

// List returns all deployments on a network ordered by name.
func (r *memoryDeploymentRepo) List(_ context.Context, network string) ([]*Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Deployment, 0, len(r.records[network]))
	for _, d := range r.records[network] {
		out = append(out, cloneDeployment(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a deployment record.
func (r *memoryDeploymentRepo) Delete(_ context.Context, network, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records[network], name)
	return nil
}

func cloneDeployment(d *Deployment) *Deployment {
	c := *d
	if d.ABI != nil {
		c.ABI = append([]byte(nil), d.ABI...)
	}
	return &c
}
