// internal/display/driver.go
package display

import (
	"context"
	"log/slog"

	"github.com/tamzrod/iot-monitor/internal/status"
)

// Driver renders one page. Calls are fire-and-forget: the loop logs a
// returned error and moves on.
type Driver interface {
	RenderPage(ctx context.Context, page int, s status.Snapshot) error
}

// LogDriver renders pages as structured log lines.
// Used on hosts without a panel.
type LogDriver struct {
	log *slog.Logger
}

func NewLogDriver(log *slog.Logger) *LogDriver {
	if log == nil {
		log = slog.Default()
	}
	return &LogDriver{log: log.With("component", "display")}
}

func (d *LogDriver) RenderPage(ctx context.Context, page int, s status.Snapshot) error {
	switch page {
	case PageSensor:
		if !s.SensorOK {
			d.log.InfoContext(ctx, "page", "page", page, "temperature", "n/a", "alert", s.Alert)
			return nil
		}
		d.log.InfoContext(ctx, "page", "page", page, "temperature_c", s.TemperatureC, "alert", s.Alert)
	case PageStatus:
		d.log.InfoContext(ctx, "page",
			"page", page,
			"link", linkName(s.Link),
			"messages_sent", s.MessagesSent,
			"seconds_link_down", s.SecondsLinkDown,
			"last_error_code", s.LastErrorCode,
		)
	default:
		d.log.InfoContext(ctx, "page", "page", page)
	}
	return nil
}

func linkName(code uint16) string {
	switch code {
	case status.LinkConnected:
		return "connected"
	case status.LinkRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}
