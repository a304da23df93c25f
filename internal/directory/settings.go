package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samedayramps/tiny-church-app/internal/domain"
)

// GetSettings returns the organization settings row, lazily creating it
// with defaults on first read. The row is effectively a singleton.
func (s *Store) GetSettings(ctx context.Context) (*domain.OrganizationSettings, error) {
	set, err := s.readSettings(ctx)
	if err == nil {
		return set, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	// First read: seed defaults. A concurrent seeder losing the race is
	// fine; we re-read whatever row won.
	def := domain.DefaultSettings()
	def.ID = uuid.New().String()
	def.CreatedAt = time.Now()
	def.UpdatedAt = def.CreatedAt
	if err := s.insertSettings(ctx, def); err != nil {
		if set, rerr := s.readSettings(ctx); rerr == nil {
			return set, nil
		}
		return nil, fmt.Errorf("seed default settings: %w", err)
	}
	return def, nil
}

// UpdateSettings replaces the mutable settings fields.
func (s *Store) UpdateSettings(ctx context.Context, set *domain.OrganizationSettings) error {
	serviceTimes, err := json.Marshal(set.ServiceTimes)
	if err != nil {
		return fmt.Errorf("encode service times: %w", err)
	}
	memberFields, err := json.Marshal(set.MemberFields)
	if err != nil {
		return fmt.Errorf("encode member fields: %w", err)
	}
	eventSettings, err := json.Marshal(set.EventSettings)
	if err != nil {
		return fmt.Errorf("encode event settings: %w", err)
	}
	groupSettings, err := json.Marshal(set.GroupSettings)
	if err != nil {
		return fmt.Errorf("encode group settings: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE organization_settings
		SET church_name = $1, email = $2, phone = $3, website_url = $4,
		    address = $5, city = $6, state = $7, postal_code = $8, country = $9,
		    service_times = $10, logo_url = $11, primary_color = $12, secondary_color = $13,
		    default_email_sender_name = $14, default_email_footer = $15,
		    enable_email_notifications = $16, enable_sms_notifications = $17,
		    member_fields = $18, event_settings = $19, group_settings = $20,
		    timezone = $21, date_format = $22, language = $23,
		    updated_at = NOW(), last_updated_by = $24
		WHERE id = $25
	`, set.ChurchName, set.Email, set.Phone, set.WebsiteURL,
		set.Address, set.City, set.State, set.PostalCode, set.Country,
		string(serviceTimes), set.LogoURL, set.PrimaryColor, set.SecondaryColor,
		set.SenderName, set.EmailFooter,
		set.EnableEmail, set.EnableSMS,
		string(memberFields), string(eventSettings), string(groupSettings),
		set.Timezone, set.DateFormat, set.Language,
		set.LastUpdatedBy, set.ID)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) readSettings(ctx context.Context) (*domain.OrganizationSettings, error) {
	set := &domain.OrganizationSettings{}
	var serviceTimes, memberFields, eventSettings, groupSettings string
	var lastUpdatedBy sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(church_name,''), COALESCE(email,''), COALESCE(phone,''), COALESCE(website_url,''),
		       COALESCE(address,''), COALESCE(city,''), COALESCE(state,''), COALESCE(postal_code,''), country,
		       service_times, COALESCE(logo_url,''), primary_color, secondary_color,
		       COALESCE(default_email_sender_name,''), COALESCE(default_email_footer,''),
		       enable_email_notifications, enable_sms_notifications,
		       member_fields, event_settings, group_settings,
		       timezone, date_format, language, created_at, updated_at, last_updated_by
		FROM organization_settings
		ORDER BY created_at ASC
		LIMIT 1
	`).Scan(
		&set.ID, &set.ChurchName, &set.Email, &set.Phone, &set.WebsiteURL,
		&set.Address, &set.City, &set.State, &set.PostalCode, &set.Country,
		&serviceTimes, &set.LogoURL, &set.PrimaryColor, &set.SecondaryColor,
		&set.SenderName, &set.EmailFooter,
		&set.EnableEmail, &set.EnableSMS,
		&memberFields, &eventSettings, &groupSettings,
		&set.Timezone, &set.DateFormat, &set.Language, &set.CreatedAt, &set.UpdatedAt, &lastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	// Nested settings objects are stored as JSON documents.
	json.Unmarshal([]byte(serviceTimes), &set.ServiceTimes)
	json.Unmarshal([]byte(memberFields), &set.MemberFields)
	json.Unmarshal([]byte(eventSettings), &set.EventSettings)
	json.Unmarshal([]byte(groupSettings), &set.GroupSettings)
	if lastUpdatedBy.Valid {
		set.LastUpdatedBy = lastUpdatedBy.String
	}
	return set, nil
}

func (s *Store) insertSettings(ctx context.Context, set *domain.OrganizationSettings) error {
	serviceTimes, _ := json.Marshal(set.ServiceTimes)
	memberFields, _ := json.Marshal(set.MemberFields)
	eventSettings, _ := json.Marshal(set.EventSettings)
	groupSettings, _ := json.Marshal(set.GroupSettings)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organization_settings
			(id, church_name, email, country, service_times, primary_color, secondary_color,
			 enable_email_notifications, enable_sms_notifications,
			 member_fields, event_settings, group_settings,
			 timezone, date_format, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, set.ID, set.ChurchName, set.Email, set.Country, string(serviceTimes),
		set.PrimaryColor, set.SecondaryColor,
		set.EnableEmail, set.EnableSMS,
		string(memberFields), string(eventSettings), string(groupSettings),
		set.Timezone, set.DateFormat, set.Language, set.CreatedAt, set.UpdatedAt)
	return err
}
