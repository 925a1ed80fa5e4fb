// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/breathnew/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	IncrementCravings(ctx context.Context, id string) (int, error)
	SetPro(ctx context.Context, id string, pro bool) error
	SetLastNotified(ctx context.Context, id string, at time.Time) error
	Wipe(ctx context.Context) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (
			id, name, quit_date, cigarettes_per_day, cost_per_pack,
			cigarettes_per_pack, currency, is_pro, cravings_resisted,
			notifications_enabled, notification_frequency
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.QuitDate,
		p.CigarettesPerDay,
		p.CostPerPack,
		p.CigarettesPerPack,
		p.Currency,
		p.IsPro,
		p.CravingsResisted,
		p.NotificationsEnabled,
		p.NotificationFrequency,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *repository) Get(ctx context.Context) (*Profile, error) {
	query := `
		SELECT id, name, quit_date, cigarettes_per_day, cost_per_pack,
		       cigarettes_per_pack, currency, is_pro, cravings_resisted,
		       notifications_enabled, notification_frequency,
		       last_notification_date, created_at, updated_at
		FROM profiles
		LIMIT 1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.Normalize()
	return &p, nil
}

// Save writes the whole record so a partial update can never leave a
// half-merged profile behind.
func (r *repository) Save(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET name = ?, quit_date = ?, cigarettes_per_day = ?,
		    cost_per_pack = ?, cigarettes_per_pack = ?, currency = ?,
		    is_pro = ?, cravings_resisted = ?, notifications_enabled = ?,
		    notification_frequency = ?, last_notification_date = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.QuitDate,
		p.CigarettesPerDay,
		p.CostPerPack,
		p.CigarettesPerPack,
		p.Currency,
		p.IsPro,
		p.CravingsResisted,
		p.NotificationsEnabled,
		p.NotificationFrequency,
		p.LastNotificationDate,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("save profile: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) IncrementCravings(
	ctx context.Context,
	id string,
) (int, error) {
	query := `
		UPDATE profiles
		SET cravings_resisted = cravings_resisted + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("increment cravings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("increment cravings: %w", err)
	}
	if rows == 0 {
		return 0, fmt.Errorf("increment cravings: %w", core.ErrNotFound)
	}

	var count int
	countQuery := `SELECT cravings_resisted FROM profiles WHERE id = ?`
	if err := r.db.GetContext(ctx, &count, countQuery, id); err != nil {
		return 0, fmt.Errorf("increment cravings: %w", err)
	}

	return count, nil
}

func (r *repository) SetPro(ctx context.Context, id string, pro bool) error {
	query := `
		UPDATE profiles
		SET is_pro = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, pro, id)
	if err != nil {
		return fmt.Errorf("set pro: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set pro: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set pro: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetLastNotified(
	ctx context.Context,
	id string,
	at time.Time,
) error {
	query := `
		UPDATE profiles
		SET last_notification_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("set last notified: %w", err)
	}

	return nil
}

func (r *repository) Wipe(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return fmt.Errorf("wipe profiles: %w", err)
	}
	return nil
}
