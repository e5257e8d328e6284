package ability

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
)

// Registry is the ability dispatch table keyed by ability key
type Registry struct {
	abilities map[string]Ability
}

func NewRegistry(abilities ...Ability) (*Registry, error) {
	r := &Registry{abilities: make(map[string]Ability, len(abilities))}
	for _, a := range abilities {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(a Ability) error {
	key := a.Definition().Key
	if key == "" {
		return fmt.Errorf("ability key cannot be empty")
	}
	if _, exists := r.abilities[key]; exists {
		return fmt.Errorf("ability already registered: %s", key)
	}
	r.abilities[key] = a
	return nil
}

func (r *Registry) Lookup(key string) (Ability, bool) {
	a, ok := r.abilities[key]
	return a, ok
}

// Weapon returns the weapon registered under key, if key names a weapon
func (r *Registry) Weapon(key string) (*WeaponAbility, bool) {
	w, ok := r.abilities[key].(*WeaponAbility)
	return w, ok
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.abilities))
	for k := range r.abilities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultRegistry is the standard ability catalog
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Catalog()...)
	if err != nil {
		panic(err)
	}
	return r
}

func Catalog() []Ability {
	return []Ability{
		NewWeapon(
			Definition{Key: "autocannon", Name: "Autocannon", Cooldown: 1, EnergyCost: 5},
			combat.WeaponProfile{BaseDamage: 20, OptimalRange: 3, FalloffRate: 0.1, HardRange: 6},
			nil,
		),
		NewWeapon(
			Definition{Key: "railgun", Name: "Railgun", Cooldown: 3, EnergyCost: 20},
			combat.WeaponProfile{BaseDamage: 40, OptimalRange: 8, FalloffRate: 0.05, HardRange: 12},
			nil,
		),
		NewWeapon(
			Definition{Key: "torpedo", Name: "Torpedo", Cooldown: 5, EnergyCost: 30},
			combat.WeaponProfile{BaseDamage: 80, OptimalRange: 5, FalloffRate: 0.1, HardRange: 8},
			nil,
		),
		NewWeapon(
			Definition{Key: "point_defense", Name: "Point Defense", Cooldown: 1, EnergyCost: 2},
			combat.WeaponProfile{BaseDamage: 10, OptimalRange: 2, FalloffRate: 0.2, HardRange: 3, PointDefense: true},
			nil,
		),
		NewWeapon(
			Definition{Key: "stasis_web", Name: "Stasis Web", Cooldown: 4, EnergyCost: 15},
			combat.WeaponProfile{BaseDamage: 5, OptimalRange: 4, FalloffRate: 0.1, HardRange: 5},
			&EffectSpec{Key: effects.KeyImmobilized, Magnitude: 1, Duration: 1, OnTarget: true},
		),
		NewEffectAbility(
			Definition{Key: "evasive_maneuvers", Name: "Evasive Maneuvers", Cooldown: 3, EnergyCost: 10},
			EffectSpec{Key: effects.KeyEvasion, Magnitude: 0.3, Duration: 1},
		),
		NewEffectAbility(
			Definition{Key: "afterburner", Name: "Afterburner", Cooldown: 4, EnergyCost: 10},
			EffectSpec{Key: effects.KeyMovementBonus, Magnitude: 1.5, Duration: 2},
		),
		NewEffectAbility(
			Definition{Key: "sensor_boost", Name: "Sensor Boost", Cooldown: 3, EnergyCost: 5},
			EffectSpec{Key: effects.KeyScanMultiplier, Magnitude: 1.5, Duration: 3},
		),
		NewEffectAbility(
			Definition{Key: "repair_drones", Name: "Repair Drones", Cooldown: 5, EnergyCost: 20},
			EffectSpec{Key: effects.KeyHullRegen, Magnitude: 10, Duration: 3},
		),
		NewEffectAbility(
			Definition{Key: "capacitor_boost", Name: "Capacitor Boost", Cooldown: 5, EnergyCost: 0},
			EffectSpec{Key: effects.KeyEnergyRegen, Magnitude: 10, Duration: 3},
		),
		NewEffectAbility(
			Definition{Key: "targeting_computer", Name: "Targeting Computer", Cooldown: 4, EnergyCost: 10},
			EffectSpec{Key: effects.KeyIgnoreSizePenalty, Magnitude: 1, Duration: 2},
		),
		NewEffectAbility(
			Definition{Key: "target_painter", Name: "Target Painter", Target: TargetObject, Range: 8, Cooldown: 3, EnergyCost: 10},
			EffectSpec{Key: effects.KeyEvasion, Magnitude: -0.2, Duration: 1, OnTarget: true},
		),
		NewReposition(Definition{Key: "micro_warp", Name: "Micro Warp", Range: 3, Cooldown: 5, EnergyCost: 15}),
		NewJettison(Definition{Key: "jettison", Name: "Jettison", Cooldown: 1}),
		NewSpeedBoost(Definition{Key: "overdrive", Name: "Overdrive", Cooldown: 5, EnergyCost: 10}, 2, 2),
	}
}
