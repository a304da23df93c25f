// Package directory provides database operations for the congregation
// records: members, groups, membership links, events, attendance, and
// organization settings. The messaging resolver reads member emails
// through this store; it never writes through it.
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

// Sentinel errors for the directory store.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("a member with that email already exists")
	ErrAlreadyLinked  = errors.New("member is already in the group")
)

// Store provides database operations for directory entities.
type Store struct {
	db *sql.DB
}

// NewStore creates a new directory store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const memberCols = `id, first_name, last_name, email, COALESCE(phone,''), status, date_added,
		address, custom_fields, COALESCE(notes,''), COALESCE(photo_url,'')`

// CreateMember inserts a new member. Email uniqueness is enforced by
// the database; a conflict maps to ErrDuplicateEmail.
func (s *Store) CreateMember(ctx context.Context, m *domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = domain.MemberActive
	}
	if m.DateAdded.IsZero() {
		m.DateAdded = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, first_name, last_name, email, phone, status, date_added, address, custom_fields, notes, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, m.ID, m.FirstName, m.LastName, m.Email, m.Phone, m.Status, m.DateAdded,
		nullableJSON(m.Address), nullableJSON(m.CustomFields), m.Notes, m.PhotoURL)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// GetMember returns a single member by id.
func (s *Store) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	m := &domain.Member{}
	var address, customFields sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT `+memberCols+` FROM members WHERE id = $1
	`, id).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Status, &m.DateAdded,
		&address, &customFields, &m.Notes, &m.PhotoURL,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if address.Valid {
		m.Address = []byte(address.String)
	}
	if customFields.Valid {
		m.CustomFields = []byte(customFields.String)
	}
	return m, nil
}

// ListMembers returns members, optionally filtered by status and a
// name/email search term.
func (s *Store) ListMembers(ctx context.Context, status, search string) ([]domain.Member, error) {
	q := `SELECT ` + memberCols + ` FROM members WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if status != "" && status != "all" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, status)
		idx++
	}
	if search != "" {
		q += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}
	q += " ORDER BY last_name, first_name"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
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
			return nil, fmt.Errorf("scan member: %w", err)
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

// UpdateMember modifies a member's mutable fields.
func (s *Store) UpdateMember(ctx context.Context, m *domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE members
		SET first_name = $1, last_name = $2, email = $3, phone = $4, status = $5,
		    address = $6, custom_fields = $7, notes = $8, photo_url = $9
		WHERE id = $10
	`, m.FirstName, m.LastName, m.Email, m.Phone, m.Status,
		nullableJSON(m.Address), nullableJSON(m.CustomFields), m.Notes, m.PhotoURL, m.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update member: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateMember flips a member to inactive. Members are never hard
// deleted through the API; the row stays for referential history.
func (s *Store) DeactivateMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE members SET status = $1 WHERE id = $2
	`, domain.MemberInactive, id)
	if err != nil {
		return fmt.Errorf("deactivate member: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveMemberEmails returns the emails of all active members, ordered
// by email. Satisfies messaging.DirectoryReader.
func (s *Store) ActiveMemberEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email FROM members WHERE status = $1 ORDER BY email
	`, domain.MemberActive)
	if err != nil {
		return nil, fmt.Errorf("active member emails: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// GroupMemberEmails returns the emails of members linked to any of the
// given groups. One row per link: a member in two selected groups
// appears twice. Satisfies messaging.DirectoryReader.
func (s *Store) GroupMemberEmails(ctx context.Context, groupIDs []string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.email
		FROM member_groups mg
		JOIN members m ON m.id = mg.member_id
		WHERE mg.group_id = ANY($1)
		ORDER BY m.email
	`, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("group member emails: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
