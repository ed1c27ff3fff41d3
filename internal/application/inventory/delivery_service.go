package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/inventory"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordDeliveryRequest is the command to register a producer delivery
// arriving at the market gate
type RecordDeliveryRequest struct {
	AgentID     uuid.UUID                   `json:"agent_id" binding:"required"`
	ReceiptDate time.Time                   `json:"receipt_date"`
	Lines       []RecordDeliveryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordDeliveryLineRequest is one product line of a delivery
type RecordDeliveryLineRequest struct {
	ProductID      uuid.UUID        `json:"product_id" binding:"required"`
	ProductName    string           `json:"product_name" binding:"required"`
	ContainerType  string           `json:"container_type"`
	GrossWeight    decimal.Decimal  `json:"gross_weight" binding:"required"`
	TareWeight     decimal.Decimal  `json:"tare_weight"`
	ContainerCount int64            `json:"container_count"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// BatchLineResponse is one batch line in API responses
type BatchLineResponse struct {
	ID                  uuid.UUID        `json:"id"`
	DeliveryID          uuid.UUID        `json:"delivery_id"`
	ProductID           uuid.UUID        `json:"product_id"`
	ProductName         string           `json:"product_name"`
	AgentID             uuid.UUID        `json:"agent_id"`
	ReceiptDate         time.Time        `json:"receipt_date"`
	ContainerType       string           `json:"container_type"`
	GrossWeight         decimal.Decimal  `json:"gross_weight"`
	TareWeight          decimal.Decimal  `json:"tare_weight"`
	NetWeight           decimal.Decimal  `json:"net_weight"`
	ContainerCount      int64            `json:"container_count"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	RemainingWeight     decimal.Decimal  `json:"remaining_weight"`
	RemainingContainers int64            `json:"remaining_containers"`
}

// ToBatchLineResponse converts a batch line to its API representation
func ToBatchLineResponse(line *inventory.BatchLine) BatchLineResponse {
	return BatchLineResponse{
		ID:                  line.ID,
		DeliveryID:          line.DeliveryID,
		ProductID:           line.ProductID,
		ProductName:         line.ProductName,
		AgentID:             line.AgentID,
		ReceiptDate:         line.ReceiptDate,
		ContainerType:       line.ContainerType,
		GrossWeight:         line.GrossWeight,
		TareWeight:          line.TareWeight,
		NetWeight:           line.NetWeight,
		ContainerCount:      line.ContainerCount,
		UnitPrice:           line.UnitPrice,
		RemainingWeight:     line.RemainingWeight,
		RemainingContainers: line.RemainingContainers,
	}
}

// DeliveryResponse is a recorded delivery in API responses
type DeliveryResponse struct {
	DeliveryID uuid.UUID           `json:"delivery_id"`
	AgentID    uuid.UUID           `json:"agent_id"`
	NetWeight  decimal.Decimal     `json:"net_weight"`
	Lines      []BatchLineResponse `json:"lines"`
}

// DeliveryService records producer deliveries as batch lines available
// for FIFO allocation
type DeliveryService struct {
	lines    inventory.BatchLineRepository
	accounts partner.PartyAccountRepository
	logger   *zap.Logger
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(lines inventory.BatchLineRepository, accounts partner.PartyAccountRepository, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{
		lines:    lines,
		accounts: accounts,
		logger:   logger,
	}
}

// RecordDelivery registers a delivery's lines as allocatable stock. The
// receipt date defaults to now; it drives FIFO ordering later.
func (s *DeliveryService) RecordDelivery(ctx context.Context, req RecordDeliveryRequest) (*DeliveryResponse, error) {
	agent, err := s.accounts.FindByID(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}
	if agent.Type != partner.PartyTypeAgent && agent.Type != partner.PartyTypeProducer {
		return nil, shared.NewInvalidInputError("agent", "party "+agent.Code+" cannot deliver stock")
	}

	receiptDate := req.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	deliveryID := uuid.New()
	batchLines := make([]*inventory.BatchLine, 0, len(req.Lines))
	netWeight := decimal.Zero
	for _, lineReq := range req.Lines {
		line, err := inventory.NewBatchLine(
			deliveryID, lineReq.ProductID, req.AgentID,
			lineReq.ProductName, receiptDate, lineReq.ContainerType,
			lineReq.GrossWeight, lineReq.TareWeight,
			lineReq.ContainerCount, lineReq.UnitPrice,
		)
		if err != nil {
			return nil, err
		}
		batchLines = append(batchLines, line)
		netWeight = netWeight.Add(line.NetWeight)
	}

	if err := s.lines.SaveAll(ctx, batchLines); err != nil {
		return nil, err
	}

	event := inventory.NewDeliveryReceivedEvent(deliveryID, req.AgentID, len(batchLines), netWeight)
	s.logger.Info("delivery recorded",
		zap.String("delivery_id", deliveryID.String()),
		zap.String("agent", agent.Name),
		zap.Int("lines", event.LineCount),
		zap.String("net_weight", netWeight.String()),
	)

	response := &DeliveryResponse{
		DeliveryID: deliveryID,
		AgentID:    req.AgentID,
		NetWeight:  netWeight,
		Lines:      make([]BatchLineResponse, 0, len(batchLines)),
	}
	for _, line := range batchLines {
		response.Lines = append(response.Lines, ToBatchLineResponse(line))
	}
	return response, nil
}

// ListByDelivery returns the batch lines recorded under one delivery
func (s *DeliveryService) ListByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]BatchLineResponse, error) {
	lines, err := s.lines.FindByDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	responses := make([]BatchLineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, ToBatchLineResponse(&lines[i]))
	}
	return responses, nil
}

// ListStock returns batch lines matching the filter
func (s *DeliveryService) ListStock(ctx context.Context, filter shared.Filter) ([]BatchLineResponse, error) {
	lines, err := s.lines.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]BatchLineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, ToBatchLineResponse(&lines[i]))
	}
	return responses, nil
}
