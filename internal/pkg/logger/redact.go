package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "mary.smith@example.com" becomes "ma***@example.com". Short local
// parts (<=2 chars) are fully masked: "ab@example.com" -> "***@example.com".
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}
