package sector

import (
	"fmt"
	"slices"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// ObjectType classifies everything that can occupy a sector tile
type ObjectType string

const (
	ObjectShip      ObjectType = "ship"
	ObjectStation   ObjectType = "station"
	ObjectStructure ObjectType = "structure"
	ObjectWreck     ObjectType = "wreck"
	ObjectCargoCan  ObjectType = "cargo_can"
)

func (t ObjectType) Valid() bool {
	switch t {
	case ObjectShip, ObjectStation, ObjectStructure, ObjectWreck, ObjectCargoCan:
		return true
	}
	return false
}

// HullSize orders hull classes from smallest to largest
type HullSize int

const (
	HullSmall HullSize = iota + 1
	HullMedium
	HullLarge
	HullCapital
)

func (h HullSize) String() string {
	switch h {
	case HullSmall:
		return "small"
	case HullMedium:
		return "medium"
	case HullLarge:
		return "large"
	case HullCapital:
		return "capital"
	}
	return "unknown"
}

func ParseHullSize(s string) (HullSize, error) {
	switch s {
	case "small":
		return HullSmall, nil
	case "medium":
		return HullMedium, nil
	case "large":
		return HullLarge, nil
	case "capital":
		return HullCapital, nil
	}
	return 0, shared.NewValidationError("hull", fmt.Sprintf("unknown hull size %q", s))
}

// ShipStats is the typed stat record of a sector object
type ShipStats struct {
	HP            int
	MaxHP         int
	Energy        int
	MaxEnergy     int
	EnergyRegen   int
	MovementSpeed int
	ScanRange     int
	CargoCapacity int
	BaseEvasion   float64
	Hull          HullSize
	Abilities     []string
	Passives      []string
}

// WreckInfo is attached once a ship has been destroyed
type WreckInfo struct {
	DestroyedTurn   int
	DecayTurn       int
	DestroyedBy     string
	SourceBlueprint string
	LootFraction    float64
}

// SectorObject is anything placed on a sector grid: ships, stations, wrecks, cargo cans
type SectorObject struct {
	ID        string
	GameID    string
	SectorID  string
	OwnerID   string
	Type      ObjectType
	Blueprint string
	Name      string
	Position  shared.Position
	Stats     ShipStats

	// ConsumedPassives lists one-shot passives that have already fired
	ConsumedPassives []string

	Wreck      *WreckInfo
	Projection Projection
}

func (o *SectorObject) IsShip() bool {
	return o.Type == ObjectShip
}

func (o *SectorObject) IsWreck() bool {
	return o.Type == ObjectWreck
}

// IsTargetable reports whether abilities and weapons may select this object
func (o *SectorObject) IsTargetable() bool {
	switch o.Type {
	case ObjectShip, ObjectStation, ObjectStructure:
		return true
	}
	return false
}

func (o *SectorObject) AtFullHealth() bool {
	return o.Stats.HP >= o.Stats.MaxHP
}

func (o *SectorObject) HasAbility(key string) bool {
	return slices.Contains(o.Stats.Abilities, key)
}

// PassiveAvailable reports whether the object carries the passive and has not spent it
func (o *SectorObject) PassiveAvailable(key string) bool {
	return slices.Contains(o.Stats.Passives, key) && !slices.Contains(o.ConsumedPassives, key)
}

func (o *SectorObject) ConsumePassive(key string) {
	if !slices.Contains(o.ConsumedPassives, key) {
		o.ConsumedPassives = append(o.ConsumedPassives, key)
	}
}

// SpendEnergy deducts energy, refusing to go negative
func (o *SectorObject) SpendEnergy(amount int) error {
	if amount < 0 {
		return shared.NewValidationError("energy", "cannot spend a negative amount")
	}
	if o.Stats.Energy < amount {
		return shared.NewDomainError(fmt.Sprintf("insufficient energy: need %d, have %d", amount, o.Stats.Energy))
	}
	o.Stats.Energy -= amount
	return nil
}

// RestoreEnergy adds energy up to the maximum and returns the amount actually gained
func (o *SectorObject) RestoreEnergy(amount int) int {
	before := o.Stats.Energy
	o.Stats.Energy = min(o.Stats.MaxEnergy, o.Stats.Energy+max(0, amount))
	return o.Stats.Energy - before
}

// Repair adds hull points up to the maximum and returns the amount actually gained
func (o *SectorObject) Repair(amount int) int {
	before := o.Stats.HP
	o.Stats.HP = min(o.Stats.MaxHP, o.Stats.HP+max(0, amount))
	return o.Stats.HP - before
}

// TakeDamage reduces hull points and reports whether the object is destroyed
func (o *SectorObject) TakeDamage(amount int) bool {
	if amount <= 0 {
		return o.Stats.HP <= 0
	}
	o.Stats.HP -= amount
	return o.Stats.HP <= 0
}

// BecomeWreck converts a destroyed ship in place. Ownership is kept so the
// wreck can be traced back to the lost pilot.
func (o *SectorObject) BecomeWreck(info WreckInfo) {
	if info.SourceBlueprint == "" {
		info.SourceBlueprint = o.Blueprint
	}
	o.Type = ObjectWreck
	o.Stats.HP = 0
	o.Stats.Energy = 0
	o.Stats.Abilities = nil
	o.Wreck = &info
	o.Projection.Clear()
}
