package bridge

//
// metrics.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Synapsr/PodcastSync/internal/event"
)

type metrics struct {
	eventsTotal *prometheus.CounterVec
}

// registered once; the bridge may be rebuilt in tests
var newMetrics = sync.OnceValue(func() *metrics {
	eventsTotal := promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "podcastsync_events_received_total",
			Help: "Tracks the number of backend events received by kind.",
		},
		[]string{"kind"},
	)

	return &metrics{eventsTotal: eventsTotal}
})

func (m *metrics) observe(kind event.Kind) {
	m.eventsTotal.WithLabelValues(string(kind)).Inc()
}
