package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/partner"
	"github.com/halmarket/backend/internal/domain/settlement"
	"github.com/halmarket/backend/internal/domain/shared"
)

// DocumentService handles draft document lifecycle: creation, line
// editing and reads. Finalization lives in FinalizeService.
type DocumentService struct {
	documents settlement.SaleDocumentRepository
	accounts  partner.PartyAccountRepository
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documents settlement.SaleDocumentRepository, accounts partner.PartyAccountRepository) *DocumentService {
	return &DocumentService{
		documents: documents,
		accounts:  accounts,
	}
}

// CreateDraft creates a new draft document with its lines
func (s *DocumentService) CreateDraft(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	kind := settlement.DocumentKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewInvalidInputError("document kind", "unknown kind "+req.Kind)
	}

	buyer, err := s.accounts.FindByID(ctx, req.BuyerID)
	if err != nil {
		return nil, err
	}

	producerID := uuid.Nil
	producerName := ""
	if kind.BearsDeductions() {
		if req.ProducerID == nil {
			return nil, shared.NewInvalidInputError("producer", "required for deduction-bearing documents")
		}
		producer, err := s.accounts.FindByID(ctx, *req.ProducerID)
		if err != nil {
			return nil, err
		}
		producerID = producer.ID
		producerName = producer.Name
	}

	doc, err := settlement.NewSaleDocument(req.Number, kind, buyer.ID, buyer.Name, producerID, producerName)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if _, err := doc.AddLine(line.ProductID, line.ProductName, line.SourceAgentID,
			line.NetWeight, line.ContainerType, line.ContainerCount, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := doc.SetAncillaryCharges(req.Freight, req.Loading); err != nil {
		return nil, err
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByID retrieves a document by ID
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents with pagination
func (s *DocumentService) List(ctx context.Context, filter shared.Filter) ([]DocumentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := s.documents.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToDocumentResponse(&page.Items[i]))
	}
	return responses, page.Total, nil
}

// AddLine appends a line to a draft document
func (s *DocumentService) AddLine(ctx context.Context, id uuid.UUID, req CreateLineRequest) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := doc.AddLine(req.ProductID, req.ProductName, req.SourceAgentID,
		req.NetWeight, req.ContainerType, req.ContainerCount, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Cancel cancels a draft document
func (s *DocumentService) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := doc.Cancel(reason); err != nil {
		return err
	}
	return s.documents.Save(ctx, doc)
}
