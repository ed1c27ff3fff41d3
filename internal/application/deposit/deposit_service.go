package deposit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/deposit"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/halmarket/backend/internal/infrastructure/locking"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PledgeRequest is the command to lend crates to a party
type PledgeRequest struct {
	PartyID       uuid.UUID       `json:"party_id" binding:"required"`
	ContainerType string          `json:"container_type" binding:"required"`
	Count         int64           `json:"count" binding:"required,gt=0"`
	UnitFee       decimal.Decimal `json:"unit_fee"`
}

// ReturnRequest is the command to take crates back from a party
type ReturnRequest struct {
	PartyID       uuid.UUID `json:"party_id" binding:"required"`
	ContainerType string    `json:"container_type" binding:"required"`
	Count         int64     `json:"count" binding:"required,gt=0"`
}

// TicketResponse is one deposit ticket in API responses
type TicketResponse struct {
	ID            uuid.UUID       `json:"id"`
	PartyID       uuid.UUID       `json:"party_id"`
	ContainerType string          `json:"container_type"`
	Count         int64           `json:"count"`
	UnitFee       decimal.Decimal `json:"unit_fee"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     string          `json:"direction"`
	Paid          bool            `json:"paid"`
	IssuedAt      time.Time       `json:"issued_at"`
}

// ToTicketResponse converts a domain ticket to its API representation
func ToTicketResponse(ticket *deposit.DepositTicket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		PartyID:       ticket.PartyID,
		ContainerType: ticket.ContainerType,
		Count:         ticket.Count,
		UnitFee:       ticket.UnitFee,
		Amount:        ticket.Amount,
		Direction:     ticket.Direction.String(),
		Paid:          ticket.Paid,
		IssuedAt:      ticket.IssuedAt,
	}
}

// DepositService handles crate pledges and returns. Each movement runs
// under the party's entity lock so concurrent movements against the same
// holding limit serialize.
type DepositService struct {
	scope  TransactionScope
	locks  *locking.EntityLockManager
	logger *zap.Logger
}

// NewDepositService creates a new DepositService
func NewDepositService(scope TransactionScope, locks *locking.EntityLockManager, logger *zap.Logger) *DepositService {
	return &DepositService{
		scope:  scope,
		locks:  locks,
		logger: logger,
	}
}

// Pledge lends crates to a party against a deposit fee
func (s *DepositService) Pledge(ctx context.Context, req PledgeRequest) (*TicketResponse, error) {
	release := s.locks.AcquireAll([]uuid.UUID{req.PartyID})
	defer release()

	var response TicketResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, req.PartyID)
		if err != nil {
			return err
		}

		holding, err := repos.Holdings().FindByPartyAndType(ctx, req.PartyID, req.ContainerType)
		if errors.Is(err, shared.ErrNotFound) {
			holding, err = deposit.NewCrateHolding(req.PartyID, req.ContainerType)
		}
		if err != nil {
			return err
		}

		ticket, err := deposit.Pledge(holding, account, req.Count, req.UnitFee)
		if err != nil {
			return err
		}

		if err := repos.Holdings().Save(ctx, holding); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.Tickets().Create(ctx, ticket); err != nil {
			return err
		}

		response = ToTicketResponse(ticket)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("crates pledged",
		zap.String("party_id", req.PartyID.String()),
		zap.String("container_type", req.ContainerType),
		zap.Int64("count", req.Count),
	)
	return &response, nil
}

// Return takes crates back and releases their deposit value
func (s *DepositService) Return(ctx context.Context, req ReturnRequest) (*TicketResponse, error) {
	release := s.locks.AcquireAll([]uuid.UUID{req.PartyID})
	defer release()

	var response TicketResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, req.PartyID)
		if err != nil {
			return err
		}
		holding, err := repos.Holdings().FindByPartyAndType(ctx, req.PartyID, req.ContainerType)
		if err != nil {
			return err
		}

		ticket, err := deposit.Return(holding, account, req.Count)
		if err != nil {
			return err
		}

		if err := repos.Holdings().Save(ctx, holding); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.Tickets().Create(ctx, ticket); err != nil {
			return err
		}

		response = ToTicketResponse(ticket)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("crates returned",
		zap.String("party_id", req.PartyID.String()),
		zap.String("container_type", req.ContainerType),
		zap.Int64("count", req.Count),
	)
	return &response, nil
}
