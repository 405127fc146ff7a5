// Package mail renders and delivers transactional account emails. Delivery
// goes over SMTP; rendering uses embedded html/template bodies so the
// templates ship inside the binary.
package mail

import "context"

// Mailer delivers a single HTML email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
