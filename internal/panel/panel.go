package panel

import "strings"

// Field is one labelled value in a detail panel.
type Field struct {
	Label string
	Value string
	// Wide fields span the whole panel width.
	Wide bool
}

// Badge is a coloured status pill.
type Badge struct {
	Text string
	Tone string
}

// Panel describes a read-only side panel for one entity. Teacher, parent and
// request panels all render through the same template.
type Panel struct {
	Title     string
	Initial   string
	Subtitle  string
	Badges    []Badge
	Fields    []Field
	Highlight *Field
	// CloseURL is where the backdrop and close button lead.
	CloseURL string
}

// Initial returns the upper-cased first letter of name, or "?".
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// Initials returns up to two upper-cased initials of name.
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "?"
	}
	out := Initial(parts[0])
	if len(parts) > 1 {
		out += Initial(parts[len(parts)-1])
	}
	return out
}

// OrDash renders missing values the same way in every panel.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// StatusTone maps upstream status strings onto badge colours.
func StatusTone(status string) string {
	switch status {
	case "Verified", "Matched", "Active", "Completed":
		return "success"
	case "Pending", "Confirming Payment":
		return "warning"
	case "Rejected", "Suspended", "Cancelled":
		return "danger"
	default:
		return "neutral"
	}
}
