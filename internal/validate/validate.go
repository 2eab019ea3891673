package validate

import (
	"regexp"
	"strings"
)

var (
	// US ZIP: 5 digits
	reZIP   = regexp.MustCompile(`^[0-9]{5}$`)
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reState = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

func Zip(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 5 {
		return "", false
	}
	return s, reZIP.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (product/location/zone ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Role accepts only the self-service registration roles.
func Role(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, s == "victim" || s == "manufacturer"
}

// State accepts a two-letter state code, normalized to upper case.
func State(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true // optional field
	}
	return strings.ToUpper(s), reState.MatchString(s)
}

// Password enforces length bounds only. 72 bytes is the bcrypt input cap.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

// OrderStatus validates the status enum.
func OrderStatus(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "pending", "confirmed", "ready_for_pickup", "completed", "cancelled":
		return s, true
	}
	return "", false
}
