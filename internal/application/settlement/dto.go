package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/settlement"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest is the command to create a draft sale document
type CreateDocumentRequest struct {
	Number     string              `json:"number" binding:"required"`
	Kind       string              `json:"kind" binding:"required"`
	BuyerID    uuid.UUID           `json:"buyer_id" binding:"required"`
	ProducerID *uuid.UUID          `json:"producer_id"`
	Freight    decimal.Decimal     `json:"freight_charge"`
	Loading    decimal.Decimal     `json:"loading_charge"`
	Lines      []CreateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateLineRequest is one line of a draft document
type CreateLineRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	ProductName    string          `json:"product_name" binding:"required"`
	SourceAgentID  *uuid.UUID      `json:"source_agent_id"`
	NetWeight      decimal.Decimal `json:"net_weight" binding:"required"`
	ContainerType  string          `json:"container_type"`
	ContainerCount int64           `json:"container_count"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
}

// LineResponse is one document line in API responses
type LineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	SourceAgentID  *uuid.UUID      `json:"source_agent_id,omitempty"`
	NetWeight      decimal.Decimal `json:"net_weight"`
	ContainerType  string          `json:"container_type"`
	ContainerCount int64           `json:"container_count"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Amount         decimal.Decimal `json:"amount"`
}

// DeductionResponse is one applied deduction total in API responses
type DeductionResponse struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	ProducerBorne bool            `json:"producer_borne"`
	BuyerBorne    bool            `json:"buyer_borne"`
}

// DocumentResponse is a sale document in API responses
type DocumentResponse struct {
	ID                     uuid.UUID           `json:"id"`
	Number                 string              `json:"number"`
	Kind                   string              `json:"kind"`
	BuyerID                uuid.UUID           `json:"buyer_id"`
	BuyerName              string              `json:"buyer_name"`
	ProducerID             uuid.UUID           `json:"producer_id,omitempty"`
	ProducerName           string              `json:"producer_name,omitempty"`
	Lines                  []LineResponse      `json:"lines"`
	FreightCharge          decimal.Decimal     `json:"freight_charge"`
	LoadingCharge          decimal.Decimal     `json:"loading_charge"`
	Deductions             []DeductionResponse `json:"deductions"`
	ProducerDeductionTotal decimal.Decimal     `json:"producer_deduction_total"`
	BuyerDeductionTotal    decimal.Decimal     `json:"buyer_deduction_total"`
	LinesTotal             decimal.Decimal     `json:"lines_total"`
	GrandTotal             decimal.Decimal     `json:"grand_total"`
	ProducerProceeds       decimal.Decimal     `json:"producer_proceeds"`
	Status                 string              `json:"status"`
	ConfirmedAt            *time.Time          `json:"confirmed_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
}

// ToDocumentResponse converts a domain document to its API representation
func ToDocumentResponse(doc *settlement.SaleDocument) DocumentResponse {
	lines := make([]LineResponse, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, LineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			SourceAgentID:  l.SourceAgentID,
			NetWeight:      l.NetWeight,
			ContainerType:  l.ContainerType,
			ContainerCount: l.ContainerCount,
			UnitPrice:      l.UnitPrice,
			Amount:         l.Amount,
		})
	}
	deductions := make([]DeductionResponse, 0, len(doc.Deductions))
	for _, a := range doc.Deductions {
		deductions = append(deductions, DeductionResponse{
			Code:          a.Code,
			Name:          a.Name,
			Amount:        a.Amount,
			ProducerBorne: a.ProducerBorne,
			BuyerBorne:    a.BuyerBorne,
		})
	}
	return DocumentResponse{
		ID:                     doc.ID,
		Number:                 doc.Number,
		Kind:                   doc.Kind.String(),
		BuyerID:                doc.BuyerID,
		BuyerName:              doc.BuyerName,
		ProducerID:             doc.ProducerID,
		ProducerName:           doc.ProducerName,
		Lines:                  lines,
		FreightCharge:          doc.FreightCharge,
		LoadingCharge:          doc.LoadingCharge,
		Deductions:             deductions,
		ProducerDeductionTotal: doc.ProducerDeductionTotal,
		BuyerDeductionTotal:    doc.BuyerDeductionTotal,
		LinesTotal:             doc.LinesTotal,
		GrandTotal:             doc.GrandTotal,
		ProducerProceeds:       doc.ProducerProceeds,
		Status:                 doc.Status.String(),
		ConfirmedAt:            doc.ConfirmedAt,
		CreatedAt:              doc.CreatedAt,
	}
}
