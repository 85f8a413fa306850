package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/family-ledger/internal/domain"
)

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT id, full_name, COALESCE(phone, '') AS phone, balance, membership_status
		FROM members
		WHERE id = $1
	`

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Member, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	sqlQuery := `
		SELECT id, full_name, COALESCE(phone, '') AS phone, balance, membership_status
		FROM members
		WHERE full_name ILIKE $1 ESCAPE '\' OR phone LIKE $1 ESCAPE '\'
		ORDER BY full_name
		LIMIT $2
	`

	members := []*domain.Member{}
	err := r.db.SelectContext(ctx, &members, sqlQuery, "%"+escapeLike(strings.TrimSpace(query))+"%", limit)
	if err != nil {
		return nil, err
	}

	return members, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
