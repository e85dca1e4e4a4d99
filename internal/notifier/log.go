package notifier

import (
	"log/slog"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new listings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each listing via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each listing with title, company, location and apply link.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(listings []model.JobListing) error {
	for _, l := range listings {
		n.logger.Info("new job",
			"title", l.Title,
			"company", l.Company,
			"location", l.Location,
			"apply_link", l.ApplyLink,
		)
	}
	return nil
}
