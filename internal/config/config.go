// Package config holds the recognized configuration options for a Zylith
// deployment: chain/ASP endpoints, contract addresses, the SDK's
// ASP-vs-client-side mode, and the predefined CLMM fee tiers.
package config

import "fmt"

// Mode selects whether the SDK computes commitments through the ASP's own
// hashing code or through a locally-run Prover Worker.
type Mode string

const (
	ModeASP        Mode = "asp"
	ModeClientSide Mode = "client-side"
)

// ContractAddresses holds the on-chain addresses the ASP and SDK both need.
type ContractAddresses struct {
	Pool        string
	Coordinator string
	Verifiers   VerifierAddresses
}

// VerifierAddresses holds the per-circuit verifier-coordinator entry
// points: each circuit's calldata is submitted to its own verifier.
type VerifierAddresses struct {
	Membership string
	Swap       string
	Mint       string
	Burn       string
}

// Config is the full set of recognized deployment options.
type Config struct {
	StarknetRPCURL string
	ASPURL         string
	Contracts      ContractAddresses
	Mode           Mode
	Password       string
	ChainID        string
}

// DefaultConfig returns a Config pointed at a local ASP with no contracts
// configured: enough for local development, empty for anything
// deployment-specific.
func DefaultConfig() *Config {
	return &Config{
		ASPURL: "http://127.0.0.1:8585",
		Mode:   ModeASP,
	}
}

// FeeTier is one of the CLMM's predefined (fee, tickSpacing) pairs.
type FeeTier struct {
	Name        string
	Fee         uint32
	TickSpacing int32
}

// Predefined fee tiers: LOW{500,10}, MEDIUM{3000,60}, HIGH{10000,200}.
var (
	LowFee    = FeeTier{Name: "LOW", Fee: 500, TickSpacing: 10}
	MediumFee = FeeTier{Name: "MEDIUM", Fee: 3000, TickSpacing: 60}
	HighFee   = FeeTier{Name: "HIGH", Fee: 10000, TickSpacing: 200}
)

// FeeTiers lists every predefined tier, in ascending fee order.
var FeeTiers = []FeeTier{LowFee, MediumFee, HighFee}

// FeeTierByFee looks up a predefined tier by its fee value, the form a pool
// key or a wire request would carry it in.
func FeeTierByFee(fee uint32) (FeeTier, error) {
	for _, t := range FeeTiers {
		if t.Fee == fee {
			return t, nil
		}
	}
	return FeeTier{}, fmt.Errorf("config: unknown fee tier %d", fee)
}

// PoolKey renders the (token0, token1, fee, tickSpacing) tuple the glossary
// defines as a pool key into the opaque string identifier the ASP/SDK wire
// protocol and internal/chain.Client pass around. token0/token1 are 0x-hex
// addresses; callers are responsible for having already ordered them
// (token0 < token1) before calling PoolKey.
func PoolKey(token0, token1 string, tier FeeTier) string {
	return fmt.Sprintf("%s-%s-%d-%d", token0, token1, tier.Fee, tier.TickSpacing)
}
