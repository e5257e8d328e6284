package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	gameQueries "github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	orderCommands "github.com/andrescamacho/voidfleet-go/internal/application/orders/commands"
	orderQueries "github.com/andrescamacho/voidfleet-go/internal/application/orders/queries"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

type queueOrderRequest struct {
	OrderType     string          `json:"orderType" binding:"required,oneof=move warp harvest_start harvest_stop ability"`
	Payload       json.RawMessage `json:"payload"`
	NotBeforeTurn *int            `json:"notBeforeTurn" binding:"omitempty,min=0"`
}

type submitAbilityRequest struct {
	AbilityKey     string               `json:"abilityKey" binding:"required"`
	TargetObjectID string               `json:"targetObjectId"`
	TargetPosition *shared.Position     `json:"targetPosition"`
	Params         orders.AbilityParams `json:"params"`
}

// send dispatches through the mediator and writes either the response or the mapped error
func (s *Server) send(c *gin.Context, status int, req mediator.Request) {
	resp, err := s.mediator.Send(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, resp)
}

func (s *Server) getGame(c *gin.Context) {
	s.send(c, http.StatusOK, &gameQueries.GetGameQuery{GameID: c.Param("gameID")})
}

func (s *Server) getSnapshot(c *gin.Context) {
	compress := strings.Contains(c.GetHeader("Accept-Encoding"), "lz4")
	resp, err := s.mediator.Send(c.Request.Context(), &gameQueries.GetSnapshotQuery{
		GameID:   c.Param("gameID"),
		Compress: compress,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	snap := resp.(*gameQueries.GetSnapshotResponse)
	if snap.Encoding == gameQueries.EncodingLZ4 {
		c.Header("Content-Encoding", gameQueries.EncodingLZ4)
	}
	c.Header("X-Turn", strconv.Itoa(snap.Turn))
	c.Data(http.StatusOK, "application/json", snap.Body)
}

func (s *Server) getCombatLog(c *gin.Context) {
	turn, err := strconv.Atoi(c.Param("turn"))
	if err != nil {
		writeError(c, shared.NewValidationError("turn", "must be an integer"))
		return
	}
	s.send(c, http.StatusOK, &orderQueries.GetCombatLogQuery{
		GameID:    c.Param("gameID"),
		Turn:      turn,
		EventType: c.Query("type"),
	})
}

func (s *Server) queueOrder(c *gin.Context) {
	var body queueOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, shared.NewValidationError("body", err.Error()))
		return
	}
	s.send(c, http.StatusCreated, &orderCommands.QueueOrderCommand{
		GameID:        c.Param("gameID"),
		ShipID:        c.Param("shipID"),
		OrderType:     body.OrderType,
		Payload:       body.Payload,
		NotBeforeTurn: body.NotBeforeTurn,
	})
}

func (s *Server) listQueue(c *gin.Context) {
	s.send(c, http.StatusOK, &orderQueries.ListQueueQuery{
		GameID:        c.Param("gameID"),
		ShipID:        c.Param("shipID"),
		IncludeClosed: c.Query("all") == "true",
	})
}

func (s *Server) removeQueuedOrder(c *gin.Context) {
	s.send(c, http.StatusOK, &orderCommands.RemoveQueuedOrderCommand{
		GameID:  c.Param("gameID"),
		ShipID:  c.Param("shipID"),
		OrderID: c.Param("orderID"),
	})
}

func (s *Server) clearQueue(c *gin.Context) {
	s.send(c, http.StatusOK, &orderCommands.ClearQueueCommand{
		GameID: c.Param("gameID"),
		ShipID: c.Param("shipID"),
	})
}

func (s *Server) submitAbility(c *gin.Context) {
	var body submitAbilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, shared.NewValidationError("body", err.Error()))
		return
	}
	s.send(c, http.StatusAccepted, &orderCommands.SubmitAbilityCommand{
		GameID:         c.Param("gameID"),
		ShipID:         c.Param("shipID"),
		AbilityKey:     body.AbilityKey,
		TargetObjectID: body.TargetObjectID,
		TargetPosition: body.TargetPosition,
		Params:         body.Params,
	})
}

func (s *Server) getCooldowns(c *gin.Context) {
	s.send(c, http.StatusOK, &orderQueries.GetCooldownsQuery{
		GameID: c.Param("gameID"),
		ShipID: c.Param("shipID"),
	})
}

func (s *Server) serveWS(c *gin.Context) {
	gameID := c.Query("game")
	if gameID == "" {
		writeError(c, shared.NewValidationError("game", "required"))
		return
	}
	if _, err := s.mediator.Send(c.Request.Context(), &gameQueries.GetGameQuery{GameID: gameID}); err != nil {
		writeError(c, err)
		return
	}
	if err := s.ws.ServeWS(c.Writer, c.Request, gameID); err != nil {
		// the upgrader has already replied to the client
		s.log.WithError(err).Debug("websocket handshake rejected")
	}
}
