package control

import (
	"context"

	"github.com/dmitrijs2005/homelights/internal/client/models"
)

type FleetController interface {
	ControlLights(ctx context.Context, action models.LightAction) (string, error)
	ReconcileAll(action models.LightAction)
}

// Fleet applies changes to every device at once.
type Fleet struct {
	*machine
	snapshot models.LightAction
}

func NewFleet(ctrl FleetController, opts Options) *Fleet {
	f := &Fleet{}
	f.machine = newMachine("", opts, ctrl.ControlLights, ctrl.ReconcileAll)
	return f
}

// Snapshot returns the last fleet-wide values set locally.
func (f *Fleet) Snapshot() models.LightAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.LightAction{}.Merge(f.snapshot)
}

func (f *Fleet) SetStatus(s models.Status) error {
	return f.set(models.LightAction{Status: &s})
}

func (f *Fleet) SetBrightness(v float64) error {
	return f.set(models.LightAction{Brightness: &v})
}

func (f *Fleet) SetColor(c string) error {
	return f.set(models.LightAction{Color: &c})
}

func (f *Fleet) set(a models.LightAction) error {
	if err := a.Validate(); err != nil {
		return err
	}
	f.queue(func() models.LightAction {
		f.snapshot = f.snapshot.Merge(a)
		return a
	})
	return nil
}

func (f *Fleet) Flush(ctx context.Context) error {
	return f.flush(ctx)
}

func (f *Fleet) Close() {
	f.close()
}
