package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

// TicketRepository encapsulates complaint record persistence. The bot uses
// Append, GetByTicketID and CountByPrefix; ListAll and UpdateStatus exist
// for the admin API.
type TicketRepository interface {
	Append(ctx context.Context, ticket *domain.TicketRecord) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.TicketRecord, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.TicketRecord, error)
	CountByPrefix(ctx context.Context, prefix string) (int, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Append(ctx context.Context, ticket *domain.TicketRecord) error {
	const query = `
        INSERT INTO tickets (ticket_id, context_code, reporter_name, reporter_handle, messaging_handle, owner_user_id, complaint_text, evidence_ref, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.ContextCode,
		ticket.ReporterName,
		ticket.ReporterHandle,
		ticket.MessagingHandle,
		ticket.OwnerUserID,
		ticket.ComplaintText,
		ticket.EvidenceRef,
		ticket.Status,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.TicketRecord, error) {
	const query = `
        SELECT ticket_id, context_code, reporter_name, reporter_handle, messaging_handle,
               owner_user_id, complaint_text, evidence_ref, status, created_at
        FROM tickets WHERE ticket_id=$1`
	var ticket domain.TicketRecord
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&ticket.TicketID,
		&ticket.ContextCode,
		&ticket.ReporterName,
		&ticket.ReporterHandle,
		&ticket.MessagingHandle,
		&ticket.OwnerUserID,
		&ticket.ComplaintText,
		&ticket.EvidenceRef,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.TicketRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ticket_id, context_code, reporter_name, reporter_handle, messaging_handle,
               owner_user_id, complaint_text, evidence_ref, status, created_at
        FROM tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE ticket_id LIKE $1 || '%'`
	var count int
	if err := r.pool.QueryRow(ctx, query, prefix).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1 WHERE ticket_id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.TicketRecord, error) {
	var result []domain.TicketRecord
	for rows.Next() {
		var ticket domain.TicketRecord
		if err := rows.Scan(
			&ticket.TicketID,
			&ticket.ContextCode,
			&ticket.ReporterName,
			&ticket.ReporterHandle,
			&ticket.MessagingHandle,
			&ticket.OwnerUserID,
			&ticket.ComplaintText,
			&ticket.EvidenceRef,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
