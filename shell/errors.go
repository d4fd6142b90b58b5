package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidObject is the cause of protocol errors about unknown or duplicate protocol objects
	ErrInvalidObject = errors.New("invalid object")
	// ErrInvalidRole is the cause of protocol errors about role misuse
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidOutput is the cause of protocol errors naming an output that doesn't exist
	ErrInvalidOutput = errors.New("invalid output")
	// ErrInvalidGeometry is the cause of protocol errors about bad sizes or positioners
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrAlreadyUsed is the cause of protocol errors about single use objects used twice
	ErrAlreadyUsed = errors.New("already used")
)

// ProtocolError is misuse of a protocol by a client.
// It gets sent back to the offending client only, the scene stays untouched
type ProtocolError struct {
	Protocol string
	Object   ObjectID
	// Protocol specific error code to post to the client
	Code    uint32
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: object %d: %s (code %d)", e.Protocol, e.Object, e.Message, e.Code)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func protocolError(protocol string, id ObjectID, cause error, code uint32, format string, args ...any) error {
	return &ProtocolError{
		Protocol: protocol,
		Object:   id,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}
