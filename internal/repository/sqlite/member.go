package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/skusdev/profile/internal/domain"
)

// MemberRepository implements domain.MemberRepository using SQLite. It
// mirrors the in-memory roster store: records are written under the ids the
// store assigned, so the two stay aligned across restarts.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new SQLite-backed MemberRepository.
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db.SqlDB}
}

func (r *MemberRepository) Insert(ctx context.Context, m *domain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMember(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MemberRepository) Update(ctx context.Context, m *domain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE members
		 SET first_name = ?, last_name = ?, email = ?, gender = ?, district = ?,
		     age = ?, created_at = ?, birthday = ?, contributions = ?, image_url = ?
		 WHERE id = ?`,
		m.FirstName, m.LastName, m.Email, m.Gender, m.District,
		m.Age, m.CreatedAt, nullableTime(m.Birthday), m.Contributions, m.ImageURL,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := replaceTags(ctx, tx, m.ID, m.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes all matching members. Ids without a row are ignored.
func (r *MemberRepository) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM members WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("bulk delete members: %w", err)
	}
	return nil
}

// List returns all members in id order, tags included.
func (r *MemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, gender, district, age,
		        created_at, birthday, contributions, image_url
		 FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		var birthday sql.NullTime
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Gender,
			&m.District, &m.Age, &m.CreatedAt, &birthday, &m.Contributions, &m.ImageURL); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if birthday.Valid {
			b := birthday.Time
			m.Birthday = &b
		}
		m.Tags = []string{}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	if err := r.loadTags(ctx, members); err != nil {
		return nil, err
	}
	return members, nil
}

// ReplaceAll swaps the entire table for the given members in one transaction.
// Used when the loader seeds fallback data so it survives a restart.
func (r *MemberRepository) ReplaceAll(ctx context.Context, members []domain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM members"); err != nil {
		return fmt.Errorf("clear members: %w", err)
	}
	for i := range members {
		if err := insertMember(ctx, tx, &members[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *MemberRepository) loadTags(ctx context.Context, members []domain.Member) error {
	if len(members) == 0 {
		return nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT member_id, tag FROM member_tags ORDER BY member_id, tag")
	if err != nil {
		return fmt.Errorf("list member tags: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Member, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scan member tag: %w", err)
		}
		if m, ok := byID[id]; ok {
			m.Tags = append(m.Tags, tag)
		}
	}
	return rows.Err()
}

func insertMember(ctx context.Context, tx *sql.Tx, m *domain.Member) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO members (id, first_name, last_name, email, gender, district,
		                      age, created_at, birthday, contributions, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.FirstName, m.LastName, m.Email, m.Gender, m.District,
		m.Age, m.CreatedAt, nullableTime(m.Birthday), m.Contributions, m.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return replaceTags(ctx, tx, m.ID, m.Tags)
}

func replaceTags(ctx context.Context, tx *sql.Tx, memberID int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM member_tags WHERE member_id = ?", memberID); err != nil {
		return fmt.Errorf("clear member tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO member_tags (member_id, tag) VALUES (?, ?)", memberID, tag); err != nil {
			return fmt.Errorf("insert member tag: %w", err)
		}
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
