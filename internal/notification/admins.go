package notification

import (
	"context"
	"strings"
)

// AdminDirectory resolves the addresses that receive new booking alerts.
type AdminDirectory interface {
	AdminEmails(ctx context.Context) ([]string, error)
}

type staticDirectory struct {
	emails   []string
	fallback AdminDirectory
}

// NewAdminDirectory prefers the configured address list and falls back to
// the user store when the list is empty. fallback may be nil.
func NewAdminDirectory(configured []string, fallback AdminDirectory) AdminDirectory {
	var emails []string
	for _, e := range configured {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return &staticDirectory{emails: emails, fallback: fallback}
}

func (d *staticDirectory) AdminEmails(ctx context.Context) ([]string, error) {
	if len(d.emails) > 0 {
		return d.emails, nil
	}
	if d.fallback == nil {
		return nil, nil
	}
	return d.fallback.AdminEmails(ctx)
}
