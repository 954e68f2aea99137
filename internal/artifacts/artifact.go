// Package artifacts loads compiled contract artifacts.
package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ContractArtifact represents a compiled Solidity contract with ABI and bytecode.
type ContractArtifact struct {
	ABI              json.RawMessage `json:"abi"`
	Bytecode         Bytecode        `json:"bytecode"`
	DeployedBytecode Bytecode        `json:"deployedBytecode,omitempty"`
	ContractName     string          `json:"contractName,omitempty"`
	SourceName       string          `json:"sourceName,omitempty"`
}

// Bytecode contains the contract bytecode.
// It handles both formats:
// - Simple string: "0x608060..." (Hardhat)
// - Object with "object" field: {"object": "0x608060..."} (Foundry)
type Bytecode struct {
	hex string
}

// UnmarshalJSON handles both string and object bytecode formats.
func (b *Bytecode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.hex = s
		return nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		b.hex = obj.Object
		return nil
	}

	return fmt.Errorf("bytecode must be a string or object with 'object' field")
}

// MarshalJSON marshals the bytecode as a string.
func (b Bytecode) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.hex)
}

// String returns the bytecode hex string.
func (b Bytecode) String() string {
	return b.hex
}

// Bytes decodes the bytecode. A missing 0x prefix is tolerated.
func (b Bytecode) Bytes() ([]byte, error) {
	h := b.hex
	if !strings.HasPrefix(h, "0x") {
		h = "0x" + h
	}
	if h == "0x" {
		return nil, fmt.Errorf("bytecode is empty")
	}
	if strings.Contains(h, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library placeholders")
	}
	return hexutil.Decode(h)
}

// ParsedABI parses the artifact's ABI.
func (a *ContractArtifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse ABI of %s: %w", a.ContractName, err)
	}
	return parsed, nil
}

// CreationCode returns the creation bytecode with ABI-encoded constructor args appended.
func (a *ContractArtifact) CreationCode(args ...any) (code []byte, encodedArgs []byte, err error) {
	bytecode, err := a.Bytecode.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", a.ContractName, err)
	}

	parsed, err := a.ParsedABI()
	if err != nil {
		return nil, nil, err
	}

	encodedArgs, err = parsed.Pack("", args...)
	if err != nil {
		return nil, nil, fmt.Errorf("encode constructor args of %s: %w", a.ContractName, err)
	}

	code = make([]byte, 0, len(bytecode)+len(encodedArgs))
	code = append(code, bytecode...)
	code = append(code, encodedArgs...)
	return code, encodedArgs, nil
}

// BytecodeHash returns the keccak256 hash of the creation bytecode.
func (a *ContractArtifact) BytecodeHash() (common.Hash, error) {
	bytecode, err := a.Bytecode.Bytes()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(bytecode), nil
}
