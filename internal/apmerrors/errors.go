// Package apmerrors defines the sentinel error taxonomy shared across the
// instrumentation runtime (config, transport, lifecycle, tracing), so a
// caller can use errors.Is regardless of which layer raised the failure.
package apmerrors

import "errors"

var (
	// ErrNotSupported is returned by config.Resolver.Set when the target
	// property is only ever produced by a read-only source (Derived or
	// Default), never by Node.
	ErrNotSupported = errors.New("agentcore: property is not settable")

	// ErrInvalidConfiguration is returned when setup cannot proceed because
	// required configuration is absent, e.g. no socket path in attach mode.
	ErrInvalidConfiguration = errors.New("agentcore: invalid configuration")

	// ErrNoAgentPresent is returned when an engine operation is invoked
	// before Setup has completed successfully.
	ErrNoAgentPresent = errors.New("agentcore: no agent connection present")

	// ErrDisconnected is returned by Connection.Send when the connection
	// is not open (never connected, or already shut down). SendAsync
	// returns nothing; it logs and drops the message instead.
	ErrDisconnected = errors.New("agentcore: connection is disconnected")

	// ErrMonitoringDisabled is returned (and swallowed with a warning log)
	// when a send is attempted while monitor=false.
	ErrMonitoringDisabled = errors.New("agentcore: monitoring is disabled")

	// ErrConnectionFailed is returned when the socket to the core agent
	// cannot be opened.
	ErrConnectionFailed = errors.New("agentcore: connection to core agent failed")

	// ErrInstanceNotReady is returned by the non-blocking setup variant
	// when initialization is still in progress on another call.
	ErrInstanceNotReady = errors.New("agentcore: instance is not ready")

	// ErrUnknownSocketType is returned when a socket path is neither a
	// recognized Unix path nor a "tcp://" endpoint.
	ErrUnknownSocketType = errors.New("agentcore: unknown socket type")
)
