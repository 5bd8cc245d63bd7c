package aerr

// common_errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

// Error classification tags. Remote call errors are surfaced to the caller
// with display-ready text; stale references and media sink failures are
// handled locally and never propagate across handler boundaries.
const (
	InternalError      = "internal error"
	ValidationError    = "validation error"
	RemoteCallError    = "remote call error"
	MediaSinkError     = "media sink error"
	DatabaseError      = "database error"
	ConfigurationError = "configuration error"
)

var (
	ErrValidation  = New("validation error").WithTag(ValidationError)
	ErrInvalidConf = New("invalid configuration").WithTag(ConfigurationError)
	ErrRemoteCall  = New("remote call failed").WithTag(RemoteCallError).
			WithUserMsg("backend request failed")
	ErrMediaSink = New("media sink error").WithTag(MediaSinkError)
	ErrDatabase  = New("database error").WithTag(DatabaseError).
			WithUserMsg("local state store error")
)
