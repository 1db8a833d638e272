package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	args   []interface{}
}

// fakeObject answers Notify with increasing ids and records every call.
type fakeObject struct {
	dbus.BusObject

	calls  []recordedCall
	nextID uint32
	err    error
}

func (f *fakeObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}
	if method == iface+".Notify" {
		f.nextID++
		return &dbus.Call{Body: []interface{}{f.nextID}}
	}
	return &dbus.Call{}
}

func TestShowReplacesPreviousNotification(t *testing.T) {
	obj := &fakeObject{nextID: 40}
	n := New(obj, "mediaosd")

	require.NoError(t, n.Show(context.Background(), "VOL: 50%", nil, 4*time.Second))
	require.Equal(t, uint32(41), n.ID())
	require.NoError(t, n.Show(context.Background(), "VOL: 55%", map[string]dbus.Variant{
		"transient": dbus.MakeVariant(true),
	}, 4*time.Second))
	require.Equal(t, uint32(42), n.ID())

	require.Len(t, obj.calls, 2)
	first := obj.calls[0].args
	require.Equal(t, "mediaosd", first[0])
	require.Equal(t, uint32(0), first[1])
	require.Equal(t, "VOL: 50%", first[3])
	require.Equal(t, int32(4000), first[7])

	second := obj.calls[1].args
	require.Equal(t, uint32(41), second[1], "second notify replaces the first id")
	require.Equal(t, "VOL: 55%", second[3])
}

func TestCloseDismissesOnlyWhenShown(t *testing.T) {
	obj := &fakeObject{}
	n := New(obj, "mediaosd")

	require.NoError(t, n.Close(context.Background()))
	require.Empty(t, obj.calls)

	require.NoError(t, n.Show(context.Background(), "MUTED", nil, time.Second))
	require.NoError(t, n.Close(context.Background()))
	require.Len(t, obj.calls, 2)
	require.Equal(t, iface+".CloseNotification", obj.calls[1].method)
	require.Equal(t, []interface{}{uint32(1)}, obj.calls[1].args)
	require.Zero(t, n.ID())
}

func TestShowWrapsBusErrors(t *testing.T) {
	boom := errors.New("no notification daemon")
	n := New(&fakeObject{err: boom}, "mediaosd")

	err := n.Show(context.Background(), "MIC ON", nil, time.Second)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "desktop notify")
	require.Zero(t, n.ID())
}
