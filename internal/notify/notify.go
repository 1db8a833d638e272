// Package notify sends replaceable freedesktop notifications over the session bus.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	iface      = "org.freedesktop.Notifications"
)

// Notifier keeps one notification on screen and replaces it in place.
type Notifier struct {
	obj     dbus.BusObject
	appName string

	mu sync.Mutex
	id uint32
}

// Connect returns a Notifier on the shared session bus connection.
func Connect(appName string) (*Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return New(conn.Object(busName, dbus.ObjectPath(objectPath)), appName), nil
}

// New wraps an already resolved notification service object.
func New(obj dbus.BusObject, appName string) *Notifier {
	return &Notifier{obj: obj, appName: appName}
}

// Show displays summary, replacing the notification from the previous call.
func (n *Notifier) Show(ctx context.Context, summary string, hints map[string]dbus.Variant, timeout time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if hints == nil {
		hints = map[string]dbus.Variant{}
	}
	call := n.obj.CallWithContext(ctx, iface+".Notify", 0,
		n.appName,
		n.id,
		"",
		summary,
		"",
		[]string{},
		hints,
		int32(timeout.Milliseconds()),
	)
	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("desktop notify: %w", err)
	}
	n.id = id
	return nil
}

// Close removes the current notification. A Notifier that never showed anything is a no-op.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	id := n.id
	n.id = 0
	n.mu.Unlock()

	if id == 0 {
		return nil
	}
	if err := n.obj.CallWithContext(ctx, iface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("desktop dismiss %d: %w", id, err)
	}
	return nil
}

// ID returns the server-assigned id of the visible notification, zero when none.
func (n *Notifier) ID() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.id
}
