// AngelaMos | 2026
// repository.go

package tips

import (
	"context"
	"fmt"
	"time"

	"github.com/breathnew/backend/internal/core"
)

type Tip struct {
	ID        string    `db:"id"         json:"id"`
	Text      string    `db:"text"       json:"text"`
	Language  string    `db:"language"   json:"language"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, tip *Tip) error
	List(ctx context.Context, language string) ([]Tip, error)
	Wipe(ctx context.Context) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tip *Tip) error {
	query := `
		INSERT INTO custom_tips (id, text, language)
		VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, tip.ID, tip.Text, tip.Language)
	if err != nil {
		return fmt.Errorf("create tip: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	language string,
) ([]Tip, error) {
	query := `
		SELECT id, text, language, created_at
		FROM custom_tips
		WHERE language = ?
		ORDER BY created_at`

	var tips []Tip
	if err := r.db.SelectContext(ctx, &tips, query, language); err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}

	return tips, nil
}

func (r *repository) Wipe(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM custom_tips`); err != nil {
		return fmt.Errorf("wipe tips: %w", err)
	}
	return nil
}
