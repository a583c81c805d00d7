package dto

import (
	"time"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

type TicketResponse struct {
	TicketID        string    `json:"ticket_id"`
	ContextCode     string    `json:"context_code"`
	ReporterName    string    `json:"reporter_name"`
	ReporterHandle  string    `json:"reporter_handle"`
	MessagingHandle string    `json:"messaging_handle"`
	ComplaintText   string    `json:"complaint_text"`
	EvidenceRef     string    `json:"evidence_ref"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func TicketFromDomain(rec *domain.TicketRecord) TicketResponse {
	return TicketResponse{
		TicketID:        rec.TicketID,
		ContextCode:     rec.ContextCode,
		ReporterName:    rec.ReporterName,
		ReporterHandle:  rec.ReporterHandle,
		MessagingHandle: rec.MessagingHandle,
		ComplaintText:   rec.ComplaintText,
		EvidenceRef:     rec.EvidenceRef,
		Status:          string(rec.Status),
		CreatedAt:       rec.CreatedAt,
	}
}

func TicketListFromDomain(records []domain.TicketRecord, limit, offset int) TicketListResponse {
	out := TicketListResponse{
		Tickets: make([]TicketResponse, 0, len(records)),
		Limit:   limit,
		Offset:  offset,
	}
	for i := range records {
		out.Tickets = append(out.Tickets, TicketFromDomain(&records[i]))
	}
	return out
}
