// Package ipc implements the refresh channel between OSD session clients and the owner.
//
// The wire format is a raw UTF-8 label, at most MaxPayloadBytes long, sent as the
// only message on a unix stream connection. There is no framing: the sender shuts
// the connection down after writing and the owner reads until EOF.
package ipc

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxPayloadBytes bounds one refresh message.
const MaxPayloadBytes = 1024

var (
	// ErrDecode marks a payload the owner drops without touching session state.
	ErrDecode = errors.New("invalid refresh payload")
	// ErrOwnerUnreachable means the rendezvous path is missing or refuses connections.
	ErrOwnerUnreachable = errors.New("session owner unreachable")
	// ErrBindFailure means the owner could not claim the rendezvous path.
	ErrBindFailure = errors.New("bind refresh socket")

	errEmptyPayload = fmt.Errorf("%w: empty payload", ErrDecode)
)

// DecodePayload validates one received message and returns it as a label.
func DecodePayload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errEmptyPayload
	}
	if len(data) > MaxPayloadBytes {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrDecode, MaxPayloadBytes)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrDecode)
	}
	return string(data), nil
}
