// AngelaMos | 2026
// repository.go

package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/breathnew/backend/internal/core"
)

type Report struct {
	MessageID   string    `db:"message_id"   json:"messageId"`
	Reason      string    `db:"reason"       json:"reason"`
	MessageText string    `db:"message_text" json:"messageText"`
	ReportedAt  time.Time `db:"reported_at"  json:"reportedAt"`
}

// ReportRepository persists abuse reports about coach messages. One
// report per message: the primary key makes a second report a conflict.
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	Exists(ctx context.Context, messageID string) (bool, error)
	Count(ctx context.Context) (int, error)
	Wipe(ctx context.Context) error
}

type reportRepository struct {
	db core.DBTX
}

func NewReportRepository(db core.DBTX) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO message_reports (message_id, reason, message_text)
		VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		report.MessageID,
		report.Reason,
		report.MessageText,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create report: %w", core.ErrConflict)
		}
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *reportRepository) Exists(
	ctx context.Context,
	messageID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM message_reports WHERE message_id = ?
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, messageID); err != nil {
		return false, fmt.Errorf("check report exists: %w", err)
	}

	return exists, nil
}

func (r *reportRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM message_reports`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}

	return count, nil
}

func (r *reportRepository) Wipe(ctx context.Context) error {
	query := `DELETE FROM message_reports`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("wipe reports: %w", err)
	}
	return nil
}
