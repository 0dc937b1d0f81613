package anim

import "github.com/ayusman/tinsel/internal/layout"

// policy bundles the per-material animation parameters: resting emissive
// level, twinkle flash, and interpolation rates. Dispatch is by material
// category, never by parsing item ids.
type policy struct {
	baseEmissive float32
	twinkleBoost float32
	// twinkleRate is the angular speed of the per-item twinkle phase;
	// twinkleGate is the sine threshold above which the flash is on.
	twinkleRate float64
	twinkleGate float64
	// positionRate and emissiveRate are exponential approach rates.
	positionRate float64
	emissiveRate float64
}

var policies = map[layout.Material]policy{
	layout.MaterialPlain: {
		baseEmissive: 0.05,
		twinkleBoost: 0.35,
		twinkleRate:  1.1,
		twinkleGate:  0.97,
		positionRate: 3.2,
		emissiveRate: 4.0,
	},
	layout.MaterialMetallic: {
		baseEmissive: 0.12,
		twinkleBoost: 0.6,
		twinkleRate:  1.4,
		twinkleGate:  0.95,
		positionRate: 3.2,
		emissiveRate: 4.0,
	},
	layout.MaterialGlow: {
		baseEmissive: 0.9,
		twinkleBoost: 1.2,
		twinkleRate:  2.2,
		twinkleGate:  0.80,
		positionRate: 3.8,
		emissiveRate: 6.0,
	},
	layout.MaterialRibbon: {
		baseEmissive: 0.35,
		twinkleBoost: 0.5,
		twinkleRate:  1.8,
		twinkleGate:  0.90,
		positionRate: 3.0,
		emissiveRate: 5.0,
	},
}

// policyFor returns the policy for a material, falling back to plain.
func policyFor(m layout.Material) policy {
	if p, ok := policies[m]; ok {
		return p
	}
	return policies[layout.MaterialPlain]
}
