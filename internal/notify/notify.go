// Package notify sends desktop notifications over the session bus using the
// org.freedesktop.Notifications interface.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	iface      = "org.freedesktop.Notifications"
)

// Urgency levels from the notification specification.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// caller is the part of dbus.BusObject the notifier needs.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Options configures a Notifier.
type Options struct {
	AppName string
	Icon    string
	Timeout time.Duration // 0 = server default
	Urgency byte
	Logger  *slog.Logger
}

// Notifier posts notifications to the session notification daemon.
type Notifier struct {
	conn   *dbus.Conn
	obj    caller
	opts   Options
	logger *slog.Logger
}

// New connects to the session bus.
func New(opts Options) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	n := newNotifier(conn.Object(busName, objectPath), opts)
	n.conn = conn
	return n, nil
}

func newNotifier(obj caller, opts Options) *Notifier {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Notifier{obj: obj, opts: opts, logger: opts.Logger}
}

// Send shows a notification and returns the id the daemon assigned.
func (n *Notifier) Send(ctx context.Context, summary, body string) (uint32, error) {
	var id uint32
	call := n.obj.CallWithContext(ctx, iface+".Notify", 0, n.notifyArgs(summary, body)...)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	n.logger.Debug("notification sent", "id", id, "summary", summary)
	return id, nil
}

// CloseNotification withdraws a notification previously returned by Send.
func (n *Notifier) CloseNotification(ctx context.Context, id uint32) error {
	if err := n.obj.CallWithContext(ctx, iface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification %d: %w", id, err)
	}
	return nil
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

// notifyArgs builds Notify(app_name, replaces_id, app_icon, summary, body,
// actions, hints, expire_timeout).
func (n *Notifier) notifyArgs(summary, body string) []interface{} {
	timeout := int32(-1)
	if n.opts.Timeout > 0 {
		timeout = int32(n.opts.Timeout.Milliseconds())
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(n.opts.Urgency),
	}
	return []interface{}{
		n.opts.AppName,
		uint32(0),
		n.opts.Icon,
		summary,
		body,
		[]string{},
		hints,
		timeout,
	}
}
