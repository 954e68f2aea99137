package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const chainIDFile = ".chainId"

type fileDeploymentRepo struct {
	dir string
	mu  sync.RWMutex
}

// NewFileDeploymentRepository stores records as JSON under dir/<network>/<name>.json,
// with the network's chain ID in dir/<network>/.chainId.
func NewFileDeploymentRepository(dir string) DeploymentRepository {
	return &fileDeploymentRepo{dir: dir}
}

func (r *fileDeploymentRepo) path(network, name string) (string, error) {
	if network == "" || name == "" {
		return "", fmt.Errorf("deployment network and name are required")
	}
	for _, part := range []string{network, name} {
		if strings.ContainsAny(part, `/\`) || part == "." || part == ".." {
			return "", fmt.Errorf("invalid path component %q", part)
		}
	}
	return filepath.Join(r.dir, network, name+".json"), nil
}

// Get retrieves a deployment by network and name.
func (r *fileDeploymentRepo) Get(ctx context.Context, network, name string) (*Deployment, error) {
	path, err := r.path(network, name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return readDeployment(path)
}

// Upsert writes the record atomically and records the chain ID.
func (r *fileDeploymentRepo) Upsert(ctx context.Context, d *Deployment) error {
	path, err := r.path(d.Network, d.Name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, err := readDeployment(path); err == nil && existing != nil {
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
	}
	stamp(d, time.Now().UTC())

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode deployment: %w", err)
	}

	netDir := filepath.Dir(path)
	if err := os.MkdirAll(netDir, 0o755); err != nil {
		return fmt.Errorf("create deployments dir: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(netDir, chainIDFile), []byte(strconv.FormatInt(d.ChainID, 10))); err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// List returns all deployments on a network ordered by name.
func (r *fileDeploymentRepo) List(ctx context.Context, network string) ([]*Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(r.dir, network))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	var out []*Deployment
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		d, err := readDeployment(filepath.Join(r.dir, network, e.Name()))
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a deployment record. Deleting a missing record is not an error.
func (r *fileDeploymentRepo) Delete(ctx context.Context, network, name string) error {
	path, err := r.path(network, name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete deployment: %w", err)
	}
	return nil
}

func readDeployment(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read deployment: %w", err)
	}

	var d Deployment
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode deployment %s: %w", filepath.Base(path), err)
	}
	return &d, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
