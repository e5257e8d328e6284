package persistence

import (
	"time"
)

// GameModel represents the games table
type GameModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	Name           string     `gorm:"column:name;not null"`
	Status         string     `gorm:"column:status;not null;default:'active'"`
	CurrentTurn    int        `gorm:"column:current_turn;not null;default:1"`
	TurnDurationMS int64      `gorm:"column:turn_duration_ms;not null"`
	TurnDeadline   time.Time  `gorm:"column:turn_deadline;not null;index"`
	Resolving      bool       `gorm:"column:resolving;not null;default:false"`
	LastResolvedAt *time.Time `gorm:"column:last_resolved_at"`
}

func (GameModel) TableName() string {
	return "games"
}

// SectorObjectModel represents the sector_objects table.
// Stats are flattened into columns; list-shaped fields are JSON text.
type SectorObjectModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	GameID    string `gorm:"column:game_id;not null;index:idx_sector_objects_tile,priority:1"`
	SectorID  string `gorm:"column:sector_id;not null;index:idx_sector_objects_tile,priority:2"`
	X         int    `gorm:"column:x;not null;index:idx_sector_objects_tile,priority:3"`
	Y         int    `gorm:"column:y;not null;index:idx_sector_objects_tile,priority:4"`
	OwnerID   string `gorm:"column:owner_id;index"`
	Type      string `gorm:"column:type;not null"`
	Blueprint string `gorm:"column:blueprint"`
	Name      string `gorm:"column:name"`

	HP            int     `gorm:"column:hp;not null"`
	MaxHP         int     `gorm:"column:max_hp;not null"`
	Energy        int     `gorm:"column:energy;not null"`
	MaxEnergy     int     `gorm:"column:max_energy;not null"`
	EnergyRegen   int     `gorm:"column:energy_regen;not null;default:0"`
	MovementSpeed int     `gorm:"column:movement_speed;not null;default:0"`
	ScanRange     int     `gorm:"column:scan_range;not null;default:0"`
	CargoCapacity int     `gorm:"column:cargo_capacity;not null;default:0"`
	BaseEvasion   float64 `gorm:"column:base_evasion;not null;default:0"`
	HullSize      string  `gorm:"column:hull_size"`
	Abilities     string  `gorm:"column:abilities;type:text"`         // JSON array as text
	Passives      string  `gorm:"column:passives;type:text"`          // JSON array as text
	Consumed      string  `gorm:"column:consumed_passives;type:text"` // JSON array as text

	WreckDestroyedTurn   *int    `gorm:"column:wreck_destroyed_turn"`
	WreckDecayTurn       *int    `gorm:"column:wreck_decay_turn;index"`
	WreckDestroyedBy     string  `gorm:"column:wreck_destroyed_by"`
	WreckSourceBlueprint string  `gorm:"column:wreck_source_blueprint"`
	WreckLootFraction    float64 `gorm:"column:wreck_loot_fraction"`

	ProjectionVersion int    `gorm:"column:projection_version;not null;default:0"`
	Projection        string `gorm:"column:projection;type:text"` // JSON object as text

	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SectorObjectModel) TableName() string {
	return "sector_objects"
}

// MovementOrderModel represents the movement_orders table
type MovementOrderModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	GameID      string `gorm:"column:game_id;not null;index"`
	ShipID      string `gorm:"column:ship_id;not null;index"`
	Kind        string `gorm:"column:kind;not null"`
	DestX       int    `gorm:"column:dest_x;not null"`
	DestY       int    `gorm:"column:dest_y;not null"`
	Path        string `gorm:"column:path;type:text;not null"` // JSON array as text
	CurrentStep int    `gorm:"column:current_step;not null;default:0"`
	Speed       int    `gorm:"column:speed;not null"`
	Status      string `gorm:"column:status;not null;index"`
	ETATurns    int    `gorm:"column:eta_turns;not null;default:0"`
	CreatedTurn int    `gorm:"column:created_turn;not null"`
	UpdatedTurn int    `gorm:"column:updated_turn;not null"`

	BlockerObjectID   string `gorm:"column:blocker_object_id"`
	BlockerObjectType string `gorm:"column:blocker_object_type"`
	BlockerOwnerID    string `gorm:"column:blocker_owner_id"`
	BlockerX          *int   `gorm:"column:blocker_x"`
	BlockerY          *int   `gorm:"column:blocker_y"`
}

func (MovementOrderModel) TableName() string {
	return "movement_orders"
}

// MovementRecordModel represents the movement_records table
type MovementRecordModel struct {
	ID     int    `gorm:"column:id;primaryKey;autoIncrement"`
	GameID string `gorm:"column:game_id;not null"`
	ShipID string `gorm:"column:ship_id;not null;index"`
	Turn   int    `gorm:"column:turn;not null"`
	FromX  int    `gorm:"column:from_x;not null"`
	FromY  int    `gorm:"column:from_y;not null"`
	ToX    int    `gorm:"column:to_x;not null"`
	ToY    int    `gorm:"column:to_y;not null"`
	Speed  int    `gorm:"column:speed;not null"`
}

func (MovementRecordModel) TableName() string {
	return "movement_records"
}

// QueuedOrderModel represents the queued_orders table
type QueuedOrderModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	GameID        string    `gorm:"column:game_id;not null;index"`
	ShipID        string    `gorm:"column:ship_id;not null;uniqueIndex:idx_queued_orders_ship_seq,priority:1"`
	Sequence      int       `gorm:"column:sequence;not null;uniqueIndex:idx_queued_orders_ship_seq,priority:2"`
	OrderType     string    `gorm:"column:order_type;not null"`
	Payload       string    `gorm:"column:payload;type:text"` // JSON as text
	NotBeforeTurn *int      `gorm:"column:not_before_turn"`
	Status        string    `gorm:"column:status;not null;default:'queued'"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	ResolvedTurn  *int      `gorm:"column:resolved_turn"`
}

func (QueuedOrderModel) TableName() string {
	return "queued_orders"
}

// AbilityOrderModel represents the ability_orders table
type AbilityOrderModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	GameID         string    `gorm:"column:game_id;not null;uniqueIndex:idx_ability_orders_caster_turn,priority:1"`
	Turn           int       `gorm:"column:turn;not null;uniqueIndex:idx_ability_orders_caster_turn,priority:2"`
	CasterID       string    `gorm:"column:caster_id;not null;uniqueIndex:idx_ability_orders_caster_turn,priority:3"`
	AbilityKey     string    `gorm:"column:ability_key;not null"`
	TargetObjectID string    `gorm:"column:target_object_id"`
	TargetX        *int      `gorm:"column:target_x"`
	TargetY        *int      `gorm:"column:target_y"`
	Params         string    `gorm:"column:params;type:text"` // JSON as text
	SubmittedAt    time.Time `gorm:"column:submitted_at;not null"`
}

func (AbilityOrderModel) TableName() string {
	return "ability_orders"
}

// CombatOrderModel represents the combat_orders table
type CombatOrderModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	GameID     string `gorm:"column:game_id;not null;uniqueIndex:idx_combat_orders_attacker_turn,priority:1"`
	Turn       int    `gorm:"column:turn;not null;uniqueIndex:idx_combat_orders_attacker_turn,priority:2"`
	AttackerID string `gorm:"column:attacker_id;not null;uniqueIndex:idx_combat_orders_attacker_turn,priority:3"`
	TargetID   string `gorm:"column:target_id;not null"`
	AbilityKey string `gorm:"column:ability_key;not null"`
}

func (CombatOrderModel) TableName() string {
	return "combat_orders"
}

// ShipStatusEffectModel represents the ship_status_effects table
type ShipStatusEffectModel struct {
	ID             string  `gorm:"column:id;primaryKey"`
	GameID         string  `gorm:"column:game_id;not null;index"`
	ShipID         string  `gorm:"column:ship_id;not null;index"`
	EffectKey      string  `gorm:"column:effect_key;not null"`
	Magnitude      float64 `gorm:"column:magnitude;not null"`
	Data           string  `gorm:"column:data;type:text"` // JSON as text
	SourceObjectID string  `gorm:"column:source_object_id"`
	SourceAbility  string  `gorm:"column:source_ability"`
	AppliedTurn    int     `gorm:"column:applied_turn;not null"`
	ExpiresTurn    int     `gorm:"column:expires_turn;not null;index"`
}

func (ShipStatusEffectModel) TableName() string {
	return "ship_status_effects"
}

// AbilityCooldownModel represents the ability_cooldowns table
type AbilityCooldownModel struct {
	ShipID        string `gorm:"column:ship_id;primaryKey"`
	AbilityKey    string `gorm:"column:ability_key;primaryKey"`
	AvailableTurn int    `gorm:"column:available_turn;not null"`
}

func (AbilityCooldownModel) TableName() string {
	return "ability_cooldowns"
}

// CombatLogModel represents the combat_log table
type CombatLogModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GameID     string    `gorm:"column:game_id;not null;index:idx_combat_log_turn,priority:1"`
	Turn       int       `gorm:"column:turn;not null;index:idx_combat_log_turn,priority:2"`
	EventType  string    `gorm:"column:event_type;not null"`
	AttackerID string    `gorm:"column:attacker_id"`
	TargetID   string    `gorm:"column:target_id"`
	Summary    string    `gorm:"column:summary;type:text"`
	Data       string    `gorm:"column:data;type:text"` // JSON as text
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (CombatLogModel) TableName() string {
	return "combat_log"
}

// PilotRespawnModel represents the pilot_respawns table
type PilotRespawnModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	GameID      string `gorm:"column:game_id;not null;index"`
	PlayerID    string `gorm:"column:player_id;not null"`
	LostShipID  string `gorm:"column:lost_ship_id;not null"`
	RespawnTurn int    `gorm:"column:respawn_turn;not null"`
	Status      string `gorm:"column:status;not null;default:'pending'"`
	NewShipID   string `gorm:"column:new_ship_id"`
}

func (PilotRespawnModel) TableName() string {
	return "pilot_respawns"
}

// CargoItemModel represents the cargo_items table
type CargoItemModel struct {
	ObjectID string `gorm:"column:object_id;primaryKey"`
	Resource string `gorm:"column:resource;primaryKey"`
	Quantity int    `gorm:"column:quantity;not null"`
}

func (CargoItemModel) TableName() string {
	return "cargo_items"
}

// HarvestTaskModel represents the harvest_tasks table
type HarvestTaskModel struct {
	ShipID      string `gorm:"column:ship_id;primaryKey"`
	NodeID      string `gorm:"column:node_id;not null"`
	StartedTurn int    `gorm:"column:started_turn;not null"`
	StoppedTurn *int   `gorm:"column:stopped_turn"`
	Active      bool   `gorm:"column:active;not null;default:false"`
}

func (HarvestTaskModel) TableName() string {
	return "harvest_tasks"
}
