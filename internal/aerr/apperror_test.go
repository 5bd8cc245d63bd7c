package aerr

//
// apperror_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Synapsr/PodcastSync/internal/assert"
)

func TestAppErrorWrap(t *testing.T) {
	err := errors.New("error1")
	werr := Wrapf(err, "wrapped")

	assert.Equal(t, werr.Error(), "wrapped(error1)")
	assert.True(t, errors.Is(werr, err))
	assert.Equal(t, errors.Unwrap(werr), err)
}

func TestAppErrorTags(t *testing.T) {
	base := New("remote call failed").WithTag(RemoteCallError)
	err := ApplyFor(base, errors.New("connection refused"))

	assert.True(t, HasTag(err, RemoteCallError))
	assert.True(t, !HasTag(err, ValidationError))

	// wrapping with plain fmt keeps the tag visible
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, HasTag(wrapped, RemoteCallError))
}

func TestAppErrorUserMessage(t *testing.T) {
	err := New("retry episode failed").
		WithUserMsg("could not retry download").
		WithError(errors.New("http 502"))

	assert.Equal(t, GetUserMessage(err), "could not retry download")
	assert.Equal(t, GetUserMessageOr(errors.New("plain"), "fallback"), "fallback")
}

func TestAppErrorIs(t *testing.T) {
	sentinel := New("unknown episode").WithTag(ValidationError)
	err := ApplyFor(sentinel, errors.New("id=42"))

	assert.True(t, !errors.Is(err, sentinel))
	assert.True(t, errors.Is(sentinel, New("unknown episode").WithTag(ValidationError)))
}

func TestAppErrorMeta(t *testing.T) {
	err := New("fetch failed").WithMeta("episode_id", int64(10), "status", "failed")

	msgs := GetErrors(err)
	assert.Equal(t, len(msgs), 1)
	assert.Equal(t, msgs[0], "fetch failed")
}
