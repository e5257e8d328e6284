package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	gameCommands "github.com/andrescamacho/voidfleet-go/internal/application/game/commands"
	gameQueries "github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
	orderCommands "github.com/andrescamacho/voidfleet-go/internal/application/orders/commands"
	orderQueries "github.com/andrescamacho/voidfleet-go/internal/application/orders/queries"
)

// AdminClient talks to a running daemon over its admin socket
type AdminClient struct {
	conn *grpc.ClientConn
}

// NewAdminClient connects to the daemon socket.
// socketPath is a unix domain socket path (e.g. "/tmp/voidfleet-daemon.sock")
func NewAdminClient(socketPath string) (*AdminClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &AdminClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *AdminClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ResolveTurn forces resolution of the game's open turn
func (c *AdminClient) ResolveTurn(ctx context.Context, gameID string) (*gameCommands.ResolveTurnResponse, error) {
	var resp gameCommands.ResolveTurnResponse
	if err := c.call(ctx, MethodResolveTurn, GameRequest{GameID: gameID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGame fetches the game's current state
func (c *AdminClient) GetGame(ctx context.Context, gameID string) (*gameQueries.GetGameResponse, error) {
	var resp gameQueries.GetGameResponse
	if err := c.call(ctx, MethodGetGame, GameRequest{GameID: gameID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListQueue lists a ship's intent queue
func (c *AdminClient) ListQueue(ctx context.Context, gameID, shipID string, includeClosed bool) (*orderQueries.ListQueueResponse, error) {
	var resp orderQueries.ListQueueResponse
	req := ShipRequest{GameID: gameID, ShipID: shipID, IncludeClosed: includeClosed}
	if err := c.call(ctx, MethodListQueue, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCooldowns lists a ship's ability cooldowns
func (c *AdminClient) GetCooldowns(ctx context.Context, gameID, shipID string) (*orderQueries.GetCooldownsResponse, error) {
	var resp orderQueries.GetCooldownsResponse
	if err := c.call(ctx, MethodGetCooldowns, ShipRequest{GameID: gameID, ShipID: shipID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCombatLog reads the combat log of a resolved turn
func (c *AdminClient) GetCombatLog(ctx context.Context, gameID string, turn int, eventType string) (*orderQueries.GetCombatLogResponse, error) {
	var resp orderQueries.GetCombatLogResponse
	req := CombatLogRequest{GameID: gameID, Turn: turn, EventType: eventType}
	if err := c.call(ctx, MethodGetCombatLog, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateGame opens a new game
func (c *AdminClient) CreateGame(ctx context.Context, req CreateGameRequest) (*gameCommands.CreateGameResponse, error) {
	var resp gameCommands.CreateGameResponse
	if err := c.call(ctx, MethodCreateGame, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SpawnObject places a ship, station or structure in a sector
func (c *AdminClient) SpawnObject(ctx context.Context, req SpawnObjectRequest) (*gameCommands.SpawnObjectResponse, error) {
	var resp gameCommands.SpawnObjectResponse
	if err := c.call(ctx, MethodSpawnObject, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueueOrder appends an order to a ship's intent queue
func (c *AdminClient) QueueOrder(ctx context.Context, req QueueOrderRequest) (*orderCommands.QueueOrderResponse, error) {
	var resp orderCommands.QueueOrderResponse
	if err := c.call(ctx, MethodQueueOrder, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveQueuedOrder cancels one queued order
func (c *AdminClient) RemoveQueuedOrder(ctx context.Context, gameID, shipID, orderID string) (*orderCommands.RemoveQueuedOrderResponse, error) {
	var resp orderCommands.RemoveQueuedOrderResponse
	req := OrderRequest{GameID: gameID, ShipID: shipID, OrderID: orderID}
	if err := c.call(ctx, MethodRemoveQueuedOrder, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearQueue cancels every queued order of a ship
func (c *AdminClient) ClearQueue(ctx context.Context, gameID, shipID string) (*orderCommands.ClearQueueResponse, error) {
	var resp orderCommands.ClearQueueResponse
	if err := c.call(ctx, MethodClearQueue, ShipRequest{GameID: gameID, ShipID: shipID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *AdminClient) call(ctx context.Context, method string, req, out any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+AdminServiceName+"/"+method, in, reply); err != nil {
		return err
	}
	return fromStruct(reply, out)
}
