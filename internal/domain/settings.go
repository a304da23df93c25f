package domain

import "time"

// ServiceTime is one recurring worship service slot.
type ServiceTime struct {
	Day  string `json:"day"`
	Time string `json:"time"`
	Name string `json:"name"`
}

// CustomField describes an admin-defined field on members, events, or groups.
type CustomField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// MemberFieldSettings configures which member fields the directory collects.
type MemberFieldSettings struct {
	RequiredFields []string      `json:"required_fields"`
	OptionalFields []string      `json:"optional_fields"`
	CustomFields   []CustomField `json:"custom_fields"`
}

// EventSettings holds event feature toggles and categories.
type EventSettings struct {
	Categories          []string      `json:"categories"`
	CustomFields        []CustomField `json:"custom_fields"`
	RegistrationEnabled bool          `json:"registration_enabled"`
	ReminderHours       int           `json:"reminder_hours"`
	AttendanceTracking  bool          `json:"attendance_tracking"`
}

// GroupSettings holds group feature toggles and types.
type GroupSettings struct {
	Types            []string      `json:"types"`
	CustomFields     []CustomField `json:"custom_fields"`
	AllowDiscussions bool          `json:"allow_discussions"`
	AllowEvents      bool          `json:"allow_events"`
}

// OrganizationSettings is the single per-organization configuration row.
// It is lazily created with defaults on first read if absent.
type OrganizationSettings struct {
	ID              string              `json:"id" db:"id"`
	ChurchName      string              `json:"church_name" db:"church_name"`
	Email           string              `json:"email" db:"email"`
	Phone           string              `json:"phone" db:"phone"`
	WebsiteURL      string              `json:"website_url" db:"website_url"`
	Address         string              `json:"address" db:"address"`
	City            string              `json:"city" db:"city"`
	State           string              `json:"state" db:"state"`
	PostalCode      string              `json:"postal_code" db:"postal_code"`
	Country         string              `json:"country" db:"country"`
	ServiceTimes    []ServiceTime       `json:"service_times" db:"service_times"`
	LogoURL         string              `json:"logo_url" db:"logo_url"`
	PrimaryColor    string              `json:"primary_color" db:"primary_color"`
	SecondaryColor  string              `json:"secondary_color" db:"secondary_color"`
	SenderName      string              `json:"default_email_sender_name" db:"default_email_sender_name"`
	EmailFooter     string              `json:"default_email_footer" db:"default_email_footer"`
	EnableEmail     bool                `json:"enable_email_notifications" db:"enable_email_notifications"`
	EnableSMS       bool                `json:"enable_sms_notifications" db:"enable_sms_notifications"`
	MemberFields    MemberFieldSettings `json:"member_fields" db:"member_fields"`
	EventSettings   EventSettings       `json:"event_settings" db:"event_settings"`
	GroupSettings   GroupSettings       `json:"group_settings" db:"group_settings"`
	Timezone        string              `json:"timezone" db:"timezone"`
	DateFormat      string              `json:"date_format" db:"date_format"`
	Language        string              `json:"language" db:"language"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
	LastUpdatedBy   string              `json:"last_updated_by,omitempty" db:"last_updated_by"`
}

// DefaultSettings returns the settings row created on first read.
func DefaultSettings() *OrganizationSettings {
	return &OrganizationSettings{
		Country:        "US",
		PrimaryColor:   "#4F46E5",
		SecondaryColor: "#818CF8",
		EnableEmail:    true,
		MemberFields: MemberFieldSettings{
			RequiredFields: []string{"first_name", "last_name", "email"},
			OptionalFields: []string{"phone", "address", "notes"},
		},
		EventSettings: EventSettings{
			Categories:         []string{"service", "study", "fellowship", "outreach"},
			ReminderHours:      24,
			AttendanceTracking: true,
		},
		GroupSettings: GroupSettings{
			Types: []string{"ministry", "fellowship", "study", "service"},
		},
		Timezone:   "America/Chicago",
		DateFormat: "MM/DD/YYYY",
		Language:   "en",
	}
}
