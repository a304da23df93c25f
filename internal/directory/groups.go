package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samedayramps/tiny-church-app/internal/domain"
)

// CreateGroup inserts a new group.
func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, group_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, g.ID, g.Name, g.Description, g.GroupType, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// GetGroup returns a single group with its derived member count.
func (s *Store) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	g := &domain.Group{}
	err := s.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, COALESCE(g.description,''), COALESCE(g.group_type,''), g.created_at,
		       (SELECT COUNT(*) FROM member_groups mg WHERE mg.group_id = g.id)
		FROM groups g WHERE g.id = $1
	`, id).Scan(&g.ID, &g.Name, &g.Description, &g.GroupType, &g.CreatedAt, &g.MemberCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// ListGroups returns all groups with member counts, optionally filtered
// by a name/description search term.
func (s *Store) ListGroups(ctx context.Context, search string) ([]domain.Group, error) {
	q := `
		SELECT g.id, g.name, COALESCE(g.description,''), COALESCE(g.group_type,''), g.created_at,
		       (SELECT COUNT(*) FROM member_groups mg WHERE mg.group_id = g.id)
		FROM groups g`
	args := []interface{}{}
	if search != "" {
		q += " WHERE g.name ILIKE $1 OR g.description ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	q += " ORDER BY g.name"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var out []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.GroupType, &g.CreatedAt, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGroup modifies a group's mutable fields.
func (s *Store) UpdateGroup(ctx context.Context, g *domain.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE groups SET name = $1, description = $2, group_type = $3 WHERE id = $4
	`, g.Name, g.Description, g.GroupType, g.ID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGroup removes a group and its membership links.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddGroupMember links a member to a group. The (member, group) pair is
// unique; re-adding maps to ErrAlreadyLinked.
func (s *Store) AddGroupMember(ctx context.Context, groupID, memberID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member_groups (member_id, group_id, joined_at)
		VALUES ($1, $2, NOW())
	`, memberID, groupID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrAlreadyLinked
		}
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember unlinks a member from a group.
func (s *Store) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM member_groups WHERE member_id = $1 AND group_id = $2
	`, memberID, groupID)
	if err != nil {
		return fmt.Errorf("remove group member: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GroupMembers returns the members currently linked to a group.
func (s *Store) GroupMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.first_name, m.last_name, m.email, COALESCE(m.phone,''), m.status, m.date_added,
		       m.address, m.custom_fields, COALESCE(m.notes,''), COALESCE(m.photo_url,'')
		FROM member_groups mg
		JOIN members m ON m.id = mg.member_id
		WHERE mg.group_id = $1
		ORDER BY m.last_name, m.first_name
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("group members: %w", err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		var address, customFields sql.NullString
		if err := rows.Scan(
			&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Status, &m.DateAdded,
			&address, &customFields, &m.Notes, &m.PhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		if address.Valid {
			m.Address = []byte(address.String)
		}
		if customFields.Valid {
			m.CustomFields = []byte(customFields.String)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
