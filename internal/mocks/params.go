// Package mocks deploys stand-in contracts on development networks.
package mocks

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
)

// Defaults for the mock ETH/USD price feed.
const (
	DefaultDecimals      uint8 = 8
	DefaultInitialAnswer int64 = 200000000000
)

// DefaultDevelopmentChains are the networks mocks are deployed on.
var DefaultDevelopmentChains = []string{config.HardhatNetwork, config.LocalhostNetwork}

// Params are the development network set and the mock aggregator
// constructor arguments. The zero value has no development networks.
// Params is immutable; accessors return copies.
type Params struct {
	devChains     []string
	decimals      uint8
	initialAnswer *big.Int
}

// NewParams creates mock parameters.
func NewParams(devChains []string, decimals uint8, initialAnswer *big.Int) (Params, error) {
	if initialAnswer == nil {
		return Params{}, fmt.Errorf("initial answer is required")
	}
	return Params{
		devChains:     slices.Clone(devChains),
		decimals:      decimals,
		initialAnswer: new(big.Int).Set(initialAnswer),
	}, nil
}

// DefaultParams returns the parameters the project ships with.
func DefaultParams() Params {
	p, _ := NewParams(DefaultDevelopmentChains, DefaultDecimals, big.NewInt(DefaultInitialAnswer))
	return p
}

// ParamsFromConfig builds parameters from the mocks configuration section.
func ParamsFromConfig(cfg config.MocksConfig) (Params, error) {
	answer, err := cfg.InitialAnswerInt()
	if err != nil {
		return Params{}, err
	}
	return NewParams(cfg.DevelopmentChains, cfg.Decimals, answer)
}

// Decimals returns the aggregator decimals.
func (p Params) Decimals() uint8 {
	return p.decimals
}

// InitialAnswer returns a copy of the aggregator's initial answer.
func (p Params) InitialAnswer() *big.Int {
	if p.initialAnswer == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p.initialAnswer)
}

// DevelopmentChains returns a copy of the development network set.
func (p Params) DevelopmentChains() []string {
	return slices.Clone(p.devChains)
}

// IsDevelopmentChain reports whether network is in the development network set.
func (p Params) IsDevelopmentChain(network string) bool {
	return slices.Contains(p.devChains, network)
}
