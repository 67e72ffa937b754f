package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
)

const auditColumns = `id, action, entity_type, entity_id, user_id, user_role, user_name, ip_address, user_agent, changes, metadata, timestamp`

type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository stores the audit trail in the audit_logs table.
// changes and metadata are JSONB columns.
func NewAuditRepository(db *sql.DB) outbound.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, record *domain.AuditRecord) error {
	changes := record.Changes
	if changes == nil {
		changes = map[string]interface{}{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to marshal audit changes: %w", err)
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		string(record.Action),
		string(record.EntityType),
		record.EntityID,
		record.UserID,
		record.UserRole,
		record.UserName,
		record.IPAddress,
		record.UserAgent,
		string(changesJSON),
		string(metadataJSON),
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

func (r *auditRepository) FindByID(ctx context.Context, id string) (*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE id = $1`

	record, err := scanAuditRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAuditRecordNotFound
		}
		return nil, fmt.Errorf("failed to find audit record: %w", err)
	}
	return record, nil
}

func (r *auditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, int, error) {
	where := &whereClause{}
	if filter.Action != "" {
		where.add("action = ?", string(filter.Action))
	}
	if filter.EntityType != "" {
		where.add("entity_type = ?", string(filter.EntityType))
	}
	if filter.EntityID != "" {
		where.add("entity_id = ?", filter.EntityID)
	}
	if filter.UserID != "" {
		where.add("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		where.add("timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		where.add("timestamp <= ?", filter.To.UTC())
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_logs " + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit records: %w", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM audit_logs %s ORDER BY timestamp DESC, id %s`, auditColumns, where.String(), pageClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AuditRecord, 0)
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return records, total, nil
}

func scanAuditRecord(row rowScanner) (*domain.AuditRecord, error) {
	var rec domain.AuditRecord
	var changesJSON, metadataJSON []byte
	err := row.Scan(
		&rec.ID,
		&rec.Action,
		&rec.EntityType,
		&rec.EntityID,
		&rec.UserID,
		&rec.UserRole,
		&rec.UserName,
		&rec.IPAddress,
		&rec.UserAgent,
		&changesJSON,
		&metadataJSON,
		&rec.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	rec.Changes = map[string]interface{}{}
	if len(changesJSON) > 0 {
		changes, err := domain.DecodeChanges(changesJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit changes: %w", err)
		}
		rec.Changes = changes
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
		}
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return &rec, nil
}
