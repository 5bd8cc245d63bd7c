//
// listener.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"context"
	"net"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

func newListener(ctx context.Context, address string) (net.Listener, error) {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, aerr.Wrapf(err, "listen on %q failed", address).WithTag(aerr.ConfigurationError)
	}

	return listener, nil
}
