package mailer

import (
	"fmt"

	"github.com/osteele/liquid"
)

// TemplateEngine renders liquid templates for system-generated emails
// (event reminders, footers). Composer-authored campaign bodies are sent
// as-is; only templates owned by the application pass through here.
type TemplateEngine struct {
	engine *liquid.Engine
}

// NewTemplateEngine creates a template engine with the default filters.
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{engine: liquid.NewEngine()}
}

// Render renders a liquid template with the given bindings.
func (t *TemplateEngine) Render(tmpl string, bindings map[string]any) (string, error) {
	out, err := t.engine.ParseAndRenderString(tmpl, bindings)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// ReminderTemplate is the default event reminder body. Bindings:
// first_name, event_title, event_date, event_time, event_location.
const ReminderTemplate = `<p>Hi {{ first_name }},</p>
<p>Don't forget about <strong>{{ event_title }}</strong> happening on {{ event_date }}{% if event_time != "" %} at {{ event_time }}{% endif %}.</p>
{% if event_location != "" %}<p>Location: {{ event_location }}</p>{% endif %}`

// RenderReminder renders the default reminder template.
func (t *TemplateEngine) RenderReminder(firstName, title, date, timeOfDay, location string) (string, error) {
	return t.Render(ReminderTemplate, map[string]any{
		"first_name":     firstName,
		"event_title":    title,
		"event_date":     date,
		"event_time":     timeOfDay,
		"event_location": location,
	})
}
