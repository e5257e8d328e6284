package sector

import (
	"slices"
	"sort"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// Blueprint is the static template a ship is built from
type Blueprint struct {
	Key           string
	Class         string
	Hull          HullSize
	MaxHP         int
	MaxEnergy     int
	EnergyRegen   int
	Speed         int
	ScanRange     int
	CargoCapacity int
	BaseEvasion   float64
	Abilities     []string
	Passives      []string

	// Build costs. Core resources are common hull materials, specialized ones
	// are rare components; salvage yields a different fraction of each.
	CoreCost        map[string]int
	SpecializedCost map[string]int
}

// Passive keys
const (
	PassiveHardenedPlating = "hardened_plating"
)

// RespawnBlueprint is issued to a pilot whose ship was destroyed
const RespawnBlueprint = "shuttle"

var blueprints = map[string]Blueprint{
	"shuttle": {
		Key: "shuttle", Class: "utility", Hull: HullSmall,
		MaxHP: 40, MaxEnergy: 40, EnergyRegen: 5, Speed: 2, ScanRange: 4, CargoCapacity: 10,
		BaseEvasion: 0.1,
		Abilities:   []string{"jettison"},
		CoreCost:    map[string]int{"alloy": 10},
	},
	"scout": {
		Key: "scout", Class: "recon", Hull: HullSmall,
		MaxHP: 60, MaxEnergy: 80, EnergyRegen: 10, Speed: 4, ScanRange: 10, CargoCapacity: 10,
		BaseEvasion: 0.2,
		Abilities:   []string{"autocannon", "sensor_boost", "afterburner", "micro_warp", "target_painter", "jettison"},
		CoreCost:    map[string]int{"alloy": 20, "polymer": 10},
		SpecializedCost: map[string]int{
			"sensor_array": 5,
		},
	},
	"frigate": {
		Key: "frigate", Class: "combat", Hull: HullSmall,
		MaxHP: 100, MaxEnergy: 100, EnergyRegen: 10, Speed: 3, ScanRange: 6, CargoCapacity: 20,
		BaseEvasion: 0.15,
		Abilities:   []string{"autocannon", "point_defense", "evasive_maneuvers", "overdrive", "jettison"},
		CoreCost:    map[string]int{"alloy": 40, "polymer": 15},
		SpecializedCost: map[string]int{
			"weapon_core": 5,
		},
	},
	"destroyer": {
		Key: "destroyer", Class: "combat", Hull: HullMedium,
		MaxHP: 180, MaxEnergy: 140, EnergyRegen: 12, Speed: 3, ScanRange: 7, CargoCapacity: 30,
		BaseEvasion: 0.1,
		Abilities:   []string{"autocannon", "torpedo", "stasis_web", "targeting_computer", "jettison"},
		Passives:    []string{PassiveHardenedPlating},
		CoreCost:    map[string]int{"alloy": 80, "polymer": 30},
		SpecializedCost: map[string]int{
			"weapon_core": 10,
			"reactor":     5,
		},
	},
	"hauler": {
		Key: "hauler", Class: "industrial", Hull: HullMedium,
		MaxHP: 150, MaxEnergy: 80, EnergyRegen: 8, Speed: 2, ScanRange: 5, CargoCapacity: 200,
		BaseEvasion: 0.05,
		Abilities:   []string{"point_defense", "repair_drones", "capacitor_boost", "jettison"},
		Passives:    []string{PassiveHardenedPlating},
		CoreCost:    map[string]int{"alloy": 60, "polymer": 60},
		SpecializedCost: map[string]int{
			"reactor": 4,
		},
	},
	"cruiser": {
		Key: "cruiser", Class: "combat", Hull: HullLarge,
		MaxHP: 300, MaxEnergy: 200, EnergyRegen: 15, Speed: 2, ScanRange: 8, CargoCapacity: 50,
		BaseEvasion: 0.05,
		Abilities:   []string{"railgun", "autocannon", "point_defense", "repair_drones", "targeting_computer", "jettison"},
		Passives:    []string{PassiveHardenedPlating},
		CoreCost:    map[string]int{"alloy": 150, "polymer": 50},
		SpecializedCost: map[string]int{
			"weapon_core": 20,
			"reactor":     10,
		},
	},
	"battleship": {
		Key: "battleship", Class: "combat", Hull: HullCapital,
		MaxHP: 600, MaxEnergy: 300, EnergyRegen: 20, Speed: 1, ScanRange: 9, CargoCapacity: 80,
		BaseEvasion: 0,
		Abilities:   []string{"railgun", "torpedo", "point_defense", "capacitor_boost", "jettison"},
		Passives:    []string{PassiveHardenedPlating},
		CoreCost:    map[string]int{"alloy": 300, "polymer": 100},
		SpecializedCost: map[string]int{
			"weapon_core": 40,
			"reactor":     25,
		},
	},
}

// LookupBlueprint returns the blueprint registered under key
func LookupBlueprint(key string) (Blueprint, bool) {
	bp, ok := blueprints[key]
	return bp, ok
}

// BlueprintKeys returns all known blueprint keys in sorted order
func BlueprintKeys() []string {
	keys := make([]string, 0, len(blueprints))
	for k := range blueprints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewShip builds a fully charged ship from the blueprint
func (b Blueprint) NewShip(id, gameID, sectorID, ownerID string, pos shared.Position) *SectorObject {
	return &SectorObject{
		ID:        id,
		GameID:    gameID,
		SectorID:  sectorID,
		OwnerID:   ownerID,
		Type:      ObjectShip,
		Blueprint: b.Key,
		Name:      b.Key,
		Position:  pos,
		Stats: ShipStats{
			HP:            b.MaxHP,
			MaxHP:         b.MaxHP,
			Energy:        b.MaxEnergy,
			MaxEnergy:     b.MaxEnergy,
			EnergyRegen:   b.EnergyRegen,
			MovementSpeed: b.Speed,
			ScanRange:     b.ScanRange,
			CargoCapacity: b.CargoCapacity,
			BaseEvasion:   b.BaseEvasion,
			Hull:          b.Hull,
			Abilities:     slices.Clone(b.Abilities),
			Passives:      slices.Clone(b.Passives),
		},
	}
}
