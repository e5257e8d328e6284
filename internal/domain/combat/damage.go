package combat

import (
	"math"

	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

const (
	// SizePenaltyPerClass is lost per hull class the attacker outsizes its target by
	SizePenaltyPerClass = 0.25
	// MinSizeMultiplier is the floor of the size multiplier
	MinSizeMultiplier = 0.25
	// PointDefenseFactor applies when a point-defense weapon fires at anything but a small hull
	PointDefenseFactor = 0.5
	// HardenedPlatingFactor scales the first hit taken at full health
	HardenedPlatingFactor = 0.75
)

// WeaponProfile describes how a weapon's damage falls off
type WeaponProfile struct {
	BaseDamage   int
	OptimalRange float64
	FalloffRate  float64
	// HardRange rejects shots beyond it; zero means unlimited
	HardRange    float64
	PointDefense bool
}

func (w WeaponProfile) InRange(distance float64) bool {
	return w.HardRange <= 0 || distance <= w.HardRange
}

// DamageInput gathers everything the damage formula looks at
type DamageInput struct {
	Weapon        WeaponProfile
	Distance      float64
	AttackerHull  sector.HullSize
	TargetHull    sector.HullSize
	SizeModifiers effects.SizePenaltyModifiers
	// Evasion is the unclamped sum of the target's evasion sources
	Evasion float64
}

// DamageBreakdown keeps each multiplier so the combat log can explain a hit
type DamageBreakdown struct {
	Base                   int     `json:"base"`
	Distance               float64 `json:"distance"`
	RangeMultiplier        float64 `json:"rangeMultiplier"`
	SizeMultiplier         float64 `json:"sizeMultiplier"`
	PointDefenseMultiplier float64 `json:"pointDefenseMultiplier"`
	Evasion                float64 `json:"evasion"`
	Damage                 int     `json:"damage"`
}

// RangeMultiplier is 1 at the optimal range and falls off linearly on either side
func RangeMultiplier(distance, optimal, falloff float64) float64 {
	return math.Max(0, 1-falloff*math.Abs(distance-optimal))
}

// SizeMultiplier penalizes large hulls shooting at smaller ones
func SizeMultiplier(attacker, target sector.HullSize, mods effects.SizePenaltyModifiers) float64 {
	diff := int(attacker) - int(target)
	if diff <= 0 || mods.Ignore {
		return 1
	}
	penalty := SizePenaltyPerClass * float64(diff) * (1 - mods.Reduction)
	return math.Max(MinSizeMultiplier, 1-penalty)
}

func ComputeDamage(in DamageInput) DamageBreakdown {
	b := DamageBreakdown{
		Base:                   in.Weapon.BaseDamage,
		Distance:               in.Distance,
		RangeMultiplier:        RangeMultiplier(in.Distance, in.Weapon.OptimalRange, in.Weapon.FalloffRate),
		SizeMultiplier:         SizeMultiplier(in.AttackerHull, in.TargetHull, in.SizeModifiers),
		PointDefenseMultiplier: 1,
		Evasion:                effects.ClampEvasion(in.Evasion),
	}
	if in.Weapon.PointDefense && in.TargetHull != sector.HullSmall {
		b.PointDefenseMultiplier = PointDefenseFactor
	}

	raw := float64(b.Base) * b.RangeMultiplier * b.SizeMultiplier * b.PointDefenseMultiplier * (1 - b.Evasion)
	b.Damage = max(0, int(math.Round(raw)))
	return b
}

// AbsorbFirstHit applies the hardened plating reduction
func AbsorbFirstHit(damage int) int {
	return int(math.Round(float64(damage) * HardenedPlatingFactor))
}
