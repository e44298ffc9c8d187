package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/homelights/internal/client/client"
	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedIn(t *testing.T) (*Session, *fakeGateway, *memStorage) {
	t.Helper()
	s, gw, st := newSession(t)
	st.Token = tokenFor(t, "u")
	require.NoError(t, s.RestoreSession(context.Background()))
	require.True(t, s.IsAuthenticated())
	return s, gw, st
}

func ptr[T any](v T) *T { return &v }

func TestAddDevice_AppendsReturnedDevice(t *testing.T) {
	s, gw, _ := loggedIn(t)
	before := s.Devices()

	gw.AddRet = &models.Device{Name: "Lamp3", SerialNumber: "SN3", Room: "hall", Type: "strip", Status: models.StatusOff}
	in := models.NewDevice{Name: "Lamp3", SerialNumber: "SN3", Room: "hall", Type: "strip", Status: models.StatusOff}
	require.NoError(t, s.AddDevice(context.Background(), in))

	assert.Equal(t, in, gw.LastAdd)
	after := s.Devices()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, *gw.AddRet, after[len(after)-1])
}

func TestAddDevice_DoesNotDedupe(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.AddRet = &models.Device{Name: "Lamp1", Room: "attic"}

	require.NoError(t, s.AddDevice(context.Background(), models.NewDevice{Name: "Lamp1"}))

	ds := s.Devices()
	require.Len(t, ds, 3)
	assert.Equal(t, "kitchen", ds[0].Room)
	assert.Equal(t, "attic", ds[2].Room)
}

func TestAddDevice_FailurePropagatesFieldErrors(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.AddErr = &client.ValidationError{Status: 400, Fields: map[string]string{"serial_number": "already registered"}}

	err := s.AddDevice(context.Background(), models.NewDevice{Name: "Lamp9"})

	var opErr *models.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "already registered", opErr.FieldError("serial_number"))
	assert.Same(t, opErr, s.LastError(OpAddDevice))
	assert.Len(t, s.Devices(), 2)
}

func TestAddDevice_RequiresLogin(t *testing.T) {
	s, gw, _ := newSession(t)

	err := s.AddDevice(context.Background(), models.NewDevice{Name: "x"})
	assert.ErrorIs(t, err, client.ErrNoCredential)
	assert.Empty(t, gw.LastAdd.Name)
}

func TestRemoveDevice_RemovesExactlyTheNamedDevice(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.RemoveRet = "Lamp1"

	require.NoError(t, s.RemoveDevice(context.Background(), "Lamp1"))

	assert.Equal(t, "Lamp1", gw.LastRemove)
	ds := s.Devices()
	require.Len(t, ds, 1)
	assert.Equal(t, "Lamp2", ds[0].Name)
	assert.Equal(t, "kitchen", ds[0].Room)
}

func TestRemoveDevice_UnconfirmedLeavesCollection(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.RemoveRet = "SomethingElse"

	err := s.RemoveDevice(context.Background(), "Lamp1")
	require.Error(t, err)
	assert.Len(t, s.Devices(), 2)
	assert.Equal(t, models.KindOperation, s.LastError(OpRemoveDevice).Kind)
}

func TestRemoveDevice_BackendError(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.RemoveErr = &client.ResponseError{Status: 404, Message: "No device: Lamp7"}

	err := s.RemoveDevice(context.Background(), "Lamp7")
	require.Error(t, err)
	assert.Equal(t, "No device: Lamp7", s.LastError(OpRemoveDevice).Message())
	assert.Len(t, s.Devices(), 2)
}

func TestControlLight_DoesNotTouchCollection(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.ControlRet = "Lamp1 updated"

	msg, err := s.ControlLight(context.Background(), "Lamp1", models.LightAction{Brightness: ptr(42.0)})
	require.NoError(t, err)
	assert.Equal(t, "Lamp1 updated", msg)
	assert.Equal(t, "Lamp1", gw.LastControl)
	assert.Equal(t, 42.0, *gw.LastAction.Brightness)

	d, ok := s.Device("Lamp1")
	require.True(t, ok)
	assert.Equal(t, 80.0, d.Brightness)
}

func TestControlLight_ErrorIsReturnedWithoutReset(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.ControlErr = &client.ResponseError{Status: 401, Message: "LIFX token rejected"}

	_, err := s.ControlLight(context.Background(), "Lamp1", models.LightAction{Status: ptr(models.StatusOff)})
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.True(t, s.IsAuthenticated())
	assert.NotNil(t, s.LastError(OpControlLight))
}

func TestControlLight_InvalidActionNeverReachesBackend(t *testing.T) {
	s, gw, _ := loggedIn(t)

	_, err := s.ControlLight(context.Background(), "Lamp1", models.LightAction{Brightness: ptr(140.0)})
	require.ErrorIs(t, err, models.ErrInvalidBrightness)
	assert.Zero(t, gw.ControlCalls)
}

func TestControlLights(t *testing.T) {
	s, gw, _ := loggedIn(t)
	gw.ControlRet = "all lights off"

	msg, err := s.ControlLights(context.Background(), models.LightAction{Status: ptr(models.StatusOff)})
	require.NoError(t, err)
	assert.Equal(t, "all lights off", msg)
	assert.Equal(t, models.StatusOff, *gw.LastAction.Status)
}

func TestReconcile(t *testing.T) {
	s, _, _ := loggedIn(t)

	assert.True(t, s.ReconcileDevice("Lamp2", models.LightAction{Status: ptr(models.StatusOn), Color: ptr("#00ff00")}))
	assert.False(t, s.ReconcileDevice("Nope", models.LightAction{Status: ptr(models.StatusOn)}))

	d, _ := s.Device("Lamp2")
	assert.Equal(t, models.StatusOn, d.Status)
	assert.Equal(t, "#00ff00", d.Color)

	s.ReconcileAll(models.LightAction{Brightness: ptr(10.0)})
	for _, d := range s.Devices() {
		assert.Equal(t, 10.0, d.Brightness)
	}
	d, _ = s.Device("Lamp1")
	assert.Equal(t, models.StatusOn, d.Status)
}

func TestDevices_ReturnsCopy(t *testing.T) {
	s, _, _ := loggedIn(t)

	ds := s.Devices()
	ds[0].Name = "mutated"
	_, ok := s.Device("Lamp1")
	assert.True(t, ok)
}
