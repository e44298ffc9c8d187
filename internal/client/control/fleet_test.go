package control

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFleet_CoalescesAndReconcilesAll(t *testing.T) {
	ctrl := &fakeController{Msg: "all updated"}
	var acks []string
	f := NewFleet(ctrl, Options{
		Interval: time.Hour,
		OnResult: func(target, msg string, err error) { acks = append(acks, target+":"+msg) },
	})
	defer f.Close()

	require.NoError(t, f.SetStatus(models.StatusOn))
	require.NoError(t, f.SetBrightness(30))
	require.NoError(t, f.SetBrightness(35))
	assert.ErrorIs(t, f.SetColor("nope"), models.ErrInvalidColor)

	snap := f.Snapshot()
	assert.Equal(t, models.StatusOn, *snap.Status)
	assert.Equal(t, 35.0, *snap.Brightness)
	assert.Nil(t, snap.Color)

	require.NoError(t, f.Flush(context.Background()))

	calls := ctrl.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "", ctrl.LastName)
	assert.Equal(t, 35.0, *calls[0].Brightness)
	require.Len(t, ctrl.Reconciled, 1)
	assert.Equal(t, []string{":all updated"}, acks)
	assert.Equal(t, "all updated", f.LastAck())
}

func TestFleet_DebounceTimerFires(t *testing.T) {
	ctrl := &fakeController{Msg: "ok"}
	f := NewFleet(ctrl, Options{Interval: 20 * time.Millisecond})
	defer f.Close()

	require.NoError(t, f.SetColor("#123456"))
	require.Eventually(t, func() bool { return len(ctrl.calls()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return f.State() == StateIdle }, time.Second, 5*time.Millisecond)
}
