package control

import (
	"context"

	"github.com/dmitrijs2005/homelights/internal/client/models"
)

// LightController is the part of the session a Light talks to.
type LightController interface {
	ControlLight(ctx context.Context, name string, action models.LightAction) (string, error)
	ReconcileDevice(name string, action models.LightAction) bool
}

// Light is the control widget of a single device.
type Light struct {
	*machine
	snapshot models.Device
}

func NewLight(ctrl LightController, d models.Device, opts Options) *Light {
	l := &Light{snapshot: d}
	name := d.Name
	l.machine = newMachine(name, opts,
		func(ctx context.Context, a models.LightAction) (string, error) {
			return ctrl.ControlLight(ctx, name, a)
		},
		func(a models.LightAction) {
			ctrl.ReconcileDevice(name, a)
		},
	)
	return l
}

func (l *Light) Name() string {
	return l.snapshot.Name
}

// Snapshot returns the local, possibly not yet acknowledged, device state.
func (l *Light) Snapshot() models.Device {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}

// Toggle flips the power state and returns the new one.
func (l *Light) Toggle() models.Status {
	var next models.Status
	l.queue(func() models.LightAction {
		next = l.snapshot.Status.Toggle()
		return l.apply(models.LightAction{Status: &next})
	})
	return next
}

func (l *Light) SetStatus(s models.Status) error {
	a := models.LightAction{Status: &s}
	if err := a.Validate(); err != nil {
		return err
	}
	l.queue(func() models.LightAction { return l.apply(a) })
	return nil
}

func (l *Light) SetBrightness(v float64) error {
	a := models.LightAction{Brightness: &v}
	if err := a.Validate(); err != nil {
		return err
	}
	l.queue(func() models.LightAction { return l.apply(a) })
	return nil
}

func (l *Light) SetColor(c string) error {
	a := models.LightAction{Color: &c}
	if err := a.Validate(); err != nil {
		return err
	}
	l.queue(func() models.LightAction { return l.apply(a) })
	return nil
}

// apply must be called with l.mu held.
// Apply writes a change acknowledged elsewhere, such as a fleet action, into
// the snapshot without sending anything. Fields still pending locally keep
// their local value.
func (l *Light) Apply(a models.LightAction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a.ApplyTo(&l.snapshot)
	l.pending.ApplyTo(&l.snapshot)
}

func (l *Light) apply(a models.LightAction) models.LightAction {
	a.ApplyTo(&l.snapshot)
	return a
}

// Flush sends any pending change immediately.
func (l *Light) Flush(ctx context.Context) error {
	return l.flush(ctx)
}

// Close stops the timer and drops any unsent change.
func (l *Light) Close() {
	l.close()
}
