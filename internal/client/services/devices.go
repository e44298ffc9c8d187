package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/homelights/internal/client/client"
	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/samber/lo"
)

// Devices returns a copy of the device collection, nil when none is loaded.
func (s *Session) Devices() []models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.devices)
}

// Device looks a device up by name.
func (s *Session) Device(name string) (models.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.devices, func(d models.Device) bool { return d.Name == name })
}

// AddDevice appends the device returned by the backend to the collection.
func (s *Session) AddDevice(ctx context.Context, d models.NewDevice) error {
	s.ClearError(OpAddDevice)
	if !s.IsAuthenticated() {
		return s.fail(ctx, OpAddDevice, client.ErrNoCredential)
	}

	created, err := s.client.AddDevice(ctx, d)
	if err != nil {
		return s.fail(ctx, OpAddDevice, err)
	}

	s.mu.Lock()
	next := make([]models.Device, 0, len(s.devices)+1)
	next = append(next, s.devices...)
	s.devices = append(next, *created)
	s.mu.Unlock()

	s.log.Info(ctx, "device added", "name", created.Name, "room", created.Room)
	return nil
}

// RemoveDevice deletes name on the backend and, once the backend confirms
// that exact name, drops it from the collection.
func (s *Session) RemoveDevice(ctx context.Context, name string) error {
	s.ClearError(OpRemoveDevice)
	if !s.IsAuthenticated() {
		return s.fail(ctx, OpRemoveDevice, client.ErrNoCredential)
	}

	deleted, err := s.client.RemoveDevice(ctx, name)
	if err != nil {
		return s.fail(ctx, OpRemoveDevice, err)
	}
	if deleted != name {
		return s.fail(ctx, OpRemoveDevice, models.NewGeneralError(models.KindOperation,
			fmt.Sprintf("device %q was not removed", name), nil))
	}

	s.mu.Lock()
	s.devices = lo.Reject(s.devices, func(d models.Device, _ int) bool { return d.Name == name })
	s.mu.Unlock()

	s.log.Info(ctx, "device removed", "name", name)
	return nil
}

// ControlLight sends a partial state change for one light and returns the
// backend's message. The collection is left alone; callers reconcile with
// ReconcileDevice once the change is acknowledged.
func (s *Session) ControlLight(ctx context.Context, name string, action models.LightAction) (string, error) {
	if err := action.Validate(); err != nil {
		return "", s.fail(ctx, OpControlLight, models.NewGeneralError(models.KindOperation, err.Error(), err))
	}

	msg, err := s.client.ControlLight(ctx, name, action)
	if err != nil {
		return "", s.fail(ctx, OpControlLight, err)
	}
	s.ClearError(OpControlLight)
	s.log.Debug(ctx, "light controlled", "name", name, "action", action.String(), "message", msg)
	return msg, nil
}

// ControlLights is ControlLight for every device at once.
func (s *Session) ControlLights(ctx context.Context, action models.LightAction) (string, error) {
	if err := action.Validate(); err != nil {
		return "", s.fail(ctx, OpControlLights, models.NewGeneralError(models.KindOperation, err.Error(), err))
	}

	msg, err := s.client.ControlLights(ctx, action)
	if err != nil {
		return "", s.fail(ctx, OpControlLights, err)
	}
	s.ClearError(OpControlLights)
	s.log.Debug(ctx, "lights controlled", "action", action.String(), "message", msg)
	return msg, nil
}

// ReconcileDevice applies an acknowledged action to the stored entry of name.
// It reports whether such a device exists.
func (s *Session) ReconcileDevice(name string, action models.LightAction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.devices, func(d models.Device) bool { return d.Name == name })
	if !ok {
		return false
	}
	next := slices.Clone(s.devices)
	action.ApplyTo(&next[idx])
	s.devices = next
	return true
}

// ReconcileAll applies an acknowledged fleet-wide action to every device.
func (s *Session) ReconcileAll(action models.LightAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.devices == nil {
		return
	}
	s.devices = lo.Map(s.devices, func(d models.Device, _ int) models.Device {
		action.ApplyTo(&d)
		return d
	})
}
