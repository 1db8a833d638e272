package ipc

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	labels []string
	got    chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{got: make(chan string, 16)}
}

func (h *recordingHandler) Refresh(label string) bool {
	h.mu.Lock()
	h.labels = append(h.labels, label)
	h.mu.Unlock()
	h.got <- label
	return true
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.labels)
}

func startServer(t *testing.T, handler Handler) (string, func()) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "mediaosd.sock")
	listener, err := Listen(socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, handler, ServeOptions{ReadTimeout: 200 * time.Millisecond})
	}()

	return socketPath, func() {
		cancel()
		require.NoError(t, <-serveDone)
	}
}

func waitLabel(t *testing.T, h *recordingHandler) string {
	t.Helper()
	select {
	case label := <-h.got:
		return label
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh")
		return ""
	}
}

func TestSendDeliversLabelByteIdentical(t *testing.T) {
	handler := newRecordingHandler()
	socketPath, shutdown := startServer(t, handler)
	defer shutdown()

	labels := []string{
		"VOL: 55%",
		"BRT: █████▌       55%",
		"MIC OFF",
		strings.Repeat("é", MaxPayloadBytes/2),
	}
	for _, label := range labels {
		require.NoError(t, Send(context.Background(), socketPath, label, 200*time.Millisecond))
		require.Equal(t, label, waitLabel(t, handler))
	}
}

func TestServeSurvivesInvalidUTF8(t *testing.T) {
	handler := newRecordingHandler()
	socketPath, shutdown := startServer(t, handler)
	defer shutdown()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	_, err = conn.Write([]byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)
	require.NoError(t, conn.(*net.UnixConn).CloseWrite())
	_ = conn.Close()

	require.NoError(t, Send(context.Background(), socketPath, "VOL: 60%", 200*time.Millisecond))
	require.Equal(t, "VOL: 60%", waitLabel(t, handler))
	require.Equal(t, 1, handler.count())
}

func TestServeDropsOversizedPayload(t *testing.T) {
	handler := newRecordingHandler()
	socketPath, shutdown := startServer(t, handler)
	defer shutdown()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	_, _ = conn.Write([]byte(strings.Repeat("a", MaxPayloadBytes+1)))
	_ = conn.(*net.UnixConn).CloseWrite()
	_ = conn.Close()

	require.NoError(t, Send(context.Background(), socketPath, "after", 200*time.Millisecond))
	require.Equal(t, "after", waitLabel(t, handler))
	require.Equal(t, 1, handler.count())
}

func TestServeDropsSilentConnectionAfterDeadline(t *testing.T) {
	handler := newRecordingHandler()
	socketPath, shutdown := startServer(t, handler)
	defer shutdown()

	idle, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	defer idle.Close()

	require.NoError(t, Send(context.Background(), socketPath, "next", time.Second))
	require.Equal(t, "next", waitLabel(t, handler))
}

func TestServeIgnoresProbeConnections(t *testing.T) {
	handler := newRecordingHandler()
	socketPath, shutdown := startServer(t, handler)
	defer shutdown()

	alive, err := Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, alive)

	require.NoError(t, Send(context.Background(), socketPath, "real", 200*time.Millisecond))
	require.Equal(t, "real", waitLabel(t, handler))
	require.Equal(t, 1, handler.count())
}

func TestSendOwnerUnreachable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.sock")
	err := Send(context.Background(), missing, "VOL: 10%", 100*time.Millisecond)
	require.ErrorIs(t, err, ErrOwnerUnreachable)

	refused := filepath.Join(t.TempDir(), "refused.sock")
	listener, err := net.Listen("unix", refused)
	require.NoError(t, err)
	listener.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, listener.Close())

	err = Send(context.Background(), refused, "VOL: 10%", 100*time.Millisecond)
	require.ErrorIs(t, err, ErrOwnerUnreachable)
}

func TestSendRejectsInvalidLabelBeforeDial(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.sock")

	err := Send(context.Background(), missing, strings.Repeat("x", MaxPayloadBytes+1), 100*time.Millisecond)
	require.ErrorIs(t, err, ErrDecode)
	require.NotErrorIs(t, err, ErrOwnerUnreachable)

	err = Send(context.Background(), missing, "", 100*time.Millisecond)
	require.ErrorIs(t, err, ErrDecode)
}

func TestProbeReportsNoOwner(t *testing.T) {
	alive, err := Probe(context.Background(), filepath.Join(t.TempDir(), "none.sock"), 50*time.Millisecond)
	require.NoError(t, err)
	require.False(t, alive)
}

func TestDecodePayload(t *testing.T) {
	label, err := DecodePayload([]byte("MUTED"))
	require.NoError(t, err)
	require.Equal(t, "MUTED", label)

	_, err = DecodePayload(nil)
	require.ErrorIs(t, err, ErrDecode)
	require.Contains(t, err.Error(), "empty")

	_, err = DecodePayload([]byte{0xc3})
	require.ErrorIs(t, err, ErrDecode)
	require.Contains(t, err.Error(), "UTF-8")

	exact := []byte(strings.Repeat("z", MaxPayloadBytes))
	label, err = DecodePayload(exact)
	require.NoError(t, err)
	require.Len(t, label, MaxPayloadBytes)
}
