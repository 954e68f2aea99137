package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// errStopWalk ends a directory walk early once the artifact is found.
var errStopWalk = errors.New("stop walk")

// Loader finds artifacts by contract name under a compiler output directory.
// Both the Hardhat layout (artifacts/contracts/<File>.sol/<Name>.json) and the
// Foundry layout (out/<File>.sol/<Name>.json) are supported.
type Loader struct {
	dir string

	mu    sync.Mutex
	cache map[string]*ContractArtifact
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string]*ContractArtifact),
	}
}

// Load returns the artifact for the named contract.
func (l *Loader) Load(name string) (*ContractArtifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a, ok := l.cache[name]; ok {
		return a, nil
	}

	path, err := l.find(name)
	if err != nil {
		return nil, err
	}

	a, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if a.ContractName == "" {
		a.ContractName = name
	}
	if _, err := a.Bytecode.Bytes(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", name, err)
	}

	l.cache[name] = a
	return a, nil
}

func (l *Loader) find(name string) (string, error) {
	target := name + ".json"
	var found string

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// build-info holds compiler input/output, never artifacts
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == target {
			found = path
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", fmt.Errorf("search artifacts in %s: %w", l.dir, err)
	}
	if found == "" {
		return "", fmt.Errorf("artifact for contract %q not found in %s", name, l.dir)
	}
	return found, nil
}

func readArtifact(path string) (*ContractArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var a ContractArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}
	if len(strings.TrimSpace(string(a.ABI))) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", filepath.Base(path))
	}
	return &a, nil
}
