package effects

import "math"

// MaxEvasion caps the dodge chance applied to incoming damage
const MaxEvasion = 0.9

// Set is a ship's collection of status effects
type Set []*ShipStatusEffect

// ActiveAt filters out effects that expired before turn
func (s Set) ActiveAt(turn int) Set {
	out := make(Set, 0, len(s))
	for _, e := range s {
		if e.ActiveAt(turn) {
			out = append(out, e)
		}
	}
	return out
}

func (s Set) Has(key string) bool {
	for _, e := range s {
		if e.EffectKey == key {
			return true
		}
	}
	return false
}

func (s Set) sum(key string) float64 {
	total := 0.0
	for _, e := range s {
		if e.EffectKey == key {
			total += e.Magnitude
		}
	}
	return total
}

func (s Set) maxOf(key string) (float64, bool) {
	best, found := 0.0, false
	for _, e := range s {
		if e.EffectKey == key && (!found || e.Magnitude > best) {
			best, found = e.Magnitude, true
		}
	}
	return best, found
}

// additiveMultiplier folds multipliers as 1 + Σ(m-1); 1.0 when none apply
func (s Set) additiveMultiplier(key string) float64 {
	m := 1.0
	for _, e := range s {
		if e.EffectKey == key {
			m += e.Magnitude - 1
		}
	}
	return m
}

func (s Set) MovementMultiplier() float64 {
	return s.additiveMultiplier(KeyMovementBonus)
}

// FlatSpeedBonus is the strongest flat bonus; flat bonuses do not stack
func (s Set) FlatSpeedBonus() int {
	v, _ := s.maxOf(KeyMovementFlatBonus)
	return int(v)
}

// EffectiveSpeed is floor(base × multiplier) + flat bonus, never negative
func (s Set) EffectiveSpeed(base int) int {
	speed := int(math.Floor(float64(base)*s.MovementMultiplier())) + s.FlatSpeedBonus()
	return max(0, speed)
}

func (s Set) Immobilized() bool {
	return s.Has(KeyImmobilized)
}

// EvasionBonus is the raw sum of evasion effects, which may be negative for debuffs
func (s Set) EvasionBonus() float64 {
	return s.sum(KeyEvasion)
}

func (s Set) ScanMultiplier() float64 {
	return s.additiveMultiplier(KeyScanMultiplier)
}

func (s Set) EnergyRegenBonus() int {
	return int(s.sum(KeyEnergyRegen))
}

func (s Set) HullRegen() int {
	return int(s.sum(KeyHullRegen))
}

// SizePenaltyModifiers describes how an attacker's effects soften the size penalty
type SizePenaltyModifiers struct {
	Ignore    bool
	Reduction float64
}

func (s Set) SizePenalty() SizePenaltyModifiers {
	r, _ := s.maxOf(KeySizePenaltyReduction)
	return SizePenaltyModifiers{
		Ignore:    s.Has(KeyIgnoreSizePenalty),
		Reduction: math.Min(1, math.Max(0, r)),
	}
}

// ClampEvasion bounds a combined evasion value to [0, MaxEvasion]
func ClampEvasion(v float64) float64 {
	return math.Min(MaxEvasion, math.Max(0, v))
}

// Project aggregates the set into the key/value mirror stored on the ship
func (s Set) Project() map[string]float64 {
	if len(s) == 0 {
		return nil
	}
	out := make(map[string]float64)
	for _, e := range s {
		switch e.EffectKey {
		case KeyMovementBonus:
			out[e.EffectKey] = s.MovementMultiplier()
		case KeyScanMultiplier:
			out[e.EffectKey] = s.ScanMultiplier()
		case KeyMovementFlatBonus:
			out[e.EffectKey] = float64(s.FlatSpeedBonus())
		case KeySizePenaltyReduction:
			out[e.EffectKey] = s.SizePenalty().Reduction
		case KeyImmobilized, KeyIgnoreSizePenalty:
			out[e.EffectKey] = 1
		default:
			out[e.EffectKey] = s.sum(e.EffectKey)
		}
	}
	return out
}
