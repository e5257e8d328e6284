package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	gameCommands "github.com/andrescamacho/voidfleet-go/internal/application/game/commands"
	gameQueries "github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	orderCommands "github.com/andrescamacho/voidfleet-go/internal/application/orders/commands"
	orderQueries "github.com/andrescamacho/voidfleet-go/internal/application/orders/queries"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// AdminServiceName is the fully qualified gRPC service name
const AdminServiceName = "voidfleet.admin.v1.AdminService"

// Method names
const (
	MethodResolveTurn  = "ResolveTurn"
	MethodGetGame      = "GetGame"
	MethodListQueue    = "ListQueue"
	MethodGetCooldowns = "GetCooldowns"
	MethodGetCombatLog = "GetCombatLog"

	MethodCreateGame        = "CreateGame"
	MethodSpawnObject       = "SpawnObject"
	MethodQueueOrder        = "QueueOrder"
	MethodRemoveQueuedOrder = "RemoveQueuedOrder"
	MethodClearQueue        = "ClearQueue"
)

// AdminService is the operator surface of the daemon. Messages travel as
// google.protobuf.Struct documents carrying the JSON form of the request and
// response types.
type AdminService interface {
	ResolveTurn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListQueue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCooldowns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCombatLog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

	CreateGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SpawnObject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	QueueOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveQueuedOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ClearQueue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Request documents
type (
	GameRequest struct {
		GameID string `json:"gameId"`
	}
	ShipRequest struct {
		GameID        string `json:"gameId"`
		ShipID        string `json:"shipId"`
		IncludeClosed bool   `json:"includeClosed,omitempty"`
	}
	CombatLogRequest struct {
		GameID    string `json:"gameId"`
		Turn      int    `json:"turn"`
		EventType string `json:"eventType,omitempty"`
	}
	CreateGameRequest struct {
		ID             string `json:"id,omitempty"`
		Name           string `json:"name,omitempty"`
		TurnDurationMs int64  `json:"turnDurationMs,omitempty"`
	}
	SpawnObjectRequest struct {
		GameID     string          `json:"gameId"`
		SectorID   string          `json:"sectorId"`
		OwnerID    string          `json:"ownerId,omitempty"`
		ObjectType string          `json:"objectType,omitempty"`
		Blueprint  string          `json:"blueprint,omitempty"`
		Position   shared.Position `json:"position"`
		ID         string          `json:"id,omitempty"`
	}
	QueueOrderRequest struct {
		GameID        string          `json:"gameId"`
		ShipID        string          `json:"shipId"`
		OrderType     string          `json:"orderType"`
		Payload       json.RawMessage `json:"payload,omitempty"`
		NotBeforeTurn *int            `json:"notBeforeTurn,omitempty"`
	}
	OrderRequest struct {
		GameID  string `json:"gameId"`
		ShipID  string `json:"shipId"`
		OrderID string `json:"orderId"`
	}
)

type adminMethod func(AdminService, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call adminMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AdminService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + AdminServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(AdminService), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var adminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminService)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodResolveTurn, AdminService.ResolveTurn),
		unary(MethodGetGame, AdminService.GetGame),
		unary(MethodListQueue, AdminService.ListQueue),
		unary(MethodGetCooldowns, AdminService.GetCooldowns),
		unary(MethodGetCombatLog, AdminService.GetCombatLog),
		unary(MethodCreateGame, AdminService.CreateGame),
		unary(MethodSpawnObject, AdminService.SpawnObject),
		unary(MethodQueueOrder, AdminService.QueueOrder),
		unary(MethodRemoveQueuedOrder, AdminService.RemoveQueuedOrder),
		unary(MethodClearQueue, AdminService.ClearQueue),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "voidfleet/admin.proto",
}

// RegisterAdminService attaches impl to a gRPC server
func RegisterAdminService(s grpc.ServiceRegistrar, impl AdminService) {
	s.RegisterService(&adminServiceDesc, impl)
}

// adminServiceImpl translates admin calls into mediator requests
type adminServiceImpl struct {
	mediator mediator.Mediator
}

func newAdminServiceImpl(m mediator.Mediator) *adminServiceImpl {
	return &adminServiceImpl{mediator: m}
}

func (s *adminServiceImpl) ResolveTurn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &gameCommands.ResolveTurnCommand{GameID: req.GameID})
}

func (s *adminServiceImpl) GetGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &gameQueries.GetGameQuery{GameID: req.GameID})
}

func (s *adminServiceImpl) ListQueue(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ShipRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &orderQueries.ListQueueQuery{
		GameID:        req.GameID,
		ShipID:        req.ShipID,
		IncludeClosed: req.IncludeClosed,
	})
}

func (s *adminServiceImpl) GetCooldowns(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ShipRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &orderQueries.GetCooldownsQuery{GameID: req.GameID, ShipID: req.ShipID})
}

func (s *adminServiceImpl) GetCombatLog(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CombatLogRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &orderQueries.GetCombatLogQuery{
		GameID:    req.GameID,
		Turn:      req.Turn,
		EventType: req.EventType,
	})
}

func (s *adminServiceImpl) CreateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateGameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &gameCommands.CreateGameCommand{
		ID:           req.ID,
		Name:         req.Name,
		TurnDuration: time.Duration(req.TurnDurationMs) * time.Millisecond,
	})
}

func (s *adminServiceImpl) SpawnObject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SpawnObjectRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &gameCommands.SpawnObjectCommand{
		GameID:     req.GameID,
		SectorID:   req.SectorID,
		OwnerID:    req.OwnerID,
		ObjectType: req.ObjectType,
		Blueprint:  req.Blueprint,
		Position:   req.Position,
		ID:         req.ID,
	})
}

func (s *adminServiceImpl) QueueOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req QueueOrderRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &orderCommands.QueueOrderCommand{
		GameID:        req.GameID,
		ShipID:        req.ShipID,
		OrderType:     req.OrderType,
		Payload:       req.Payload,
		NotBeforeTurn: req.NotBeforeTurn,
	})
}

func (s *adminServiceImpl) RemoveQueuedOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req OrderRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &orderCommands.RemoveQueuedOrderCommand{
		GameID:  req.GameID,
		ShipID:  req.ShipID,
		OrderID: req.OrderID,
	})
}

func (s *adminServiceImpl) ClearQueue(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ShipRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, &orderCommands.ClearQueueCommand{GameID: req.GameID, ShipID: req.ShipID})
}

func (s *adminServiceImpl) dispatch(ctx context.Context, req mediator.Request) (*structpb.Struct, error) {
	resp, err := s.mediator.Send(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps the domain error hierarchy onto gRPC codes
func toStatus(err error) error {
	var (
		claim      *shared.TurnClaimError
		transition *shared.InvalidTransitionError
		domain     *shared.DomainError
	)
	switch {
	case shared.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case shared.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &claim):
		return status.Error(codes.Aborted, err.Error())
	case errors.As(err, &transition), errors.As(err, &domain):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// toStruct carries v's JSON form in a Struct
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("message is not a JSON object: %w", err)
	}
	return structpb.NewStruct(fields)
}

// fromStruct decodes a Struct into v through JSON
func fromStruct(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}
