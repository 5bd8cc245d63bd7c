package player

//
// mpv.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/Synapsr/PodcastSync/internal/aerr"
	"github.com/Synapsr/PodcastSync/internal/config"
)

const (
	mpvConnectRetries  = 20
	mpvConnectInterval = 100 * time.Millisecond
	mpvCommandTimeout  = 5 * time.Second
)

// MpvSink drives a mpv subprocess over its JSON IPC socket. The process
// is started lazily on first Attach and kept idle between episodes.
type MpvSink struct {
	binary    string
	extraArgs []string

	// mu serializes public operations and guards the process state.
	mu       sync.Mutex
	cmd      *exec.Cmd
	conn     net.Conn
	sockPath string
	reqID    atomic.Int64

	// ipcMu guards the fields shared with readLoop. It is never held
	// while waiting on the connection, so responses and events can be
	// delivered while a command is in flight under mu.
	ipcMu    sync.Mutex
	pending  map[int64]chan mpvResponse
	obs      SinkObserver
	attached bool
}

type mpvResponse struct {
	RequestID int64           `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
}

type mpvEvent struct {
	Event  string          `json:"event"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

func NewMpvSink(i do.Injector) (*MpvSink, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &MpvSink{
		binary:    cfg.Player.Binary,
		extraArgs: cfg.Player.ExtraArgs,
		pending:   make(map[int64]chan mpvResponse),
	}, nil
}

func (m *MpvSink) SetObserver(obs SinkObserver) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	m.obs = obs
}

func (m *MpvSink) Attach(ctx context.Context, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureProcessLocked(ctx); err != nil {
		return err
	}

	if _, err := m.commandLocked(ctx, "loadfile", src, "replace"); err != nil {
		return aerr.ErrMediaSink.WithError(err).WithMsg("load %q failed", src)
	}

	if _, err := m.commandLocked(ctx, "set_property", "pause", false); err != nil {
		return aerr.ApplyFor(aerr.ErrMediaSink, err)
	}

	m.setAttached(true)

	return nil
}

func (m *MpvSink) Pause(ctx context.Context) error {
	return m.setPause(ctx, true)
}

func (m *MpvSink) Resume(ctx context.Context) error {
	return m.setPause(ctx, false)
}

func (m *MpvSink) setPause(ctx context.Context, pause bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return aerr.ErrMediaSink.WithMsg("no active player")
	}

	if _, err := m.commandLocked(ctx, "set_property", "pause", pause); err != nil {
		return aerr.ApplyFor(aerr.ErrMediaSink, err)
	}

	return nil
}

func (m *MpvSink) Seek(ctx context.Context, position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil || !m.isAttached() {
		return aerr.ErrMediaSink.WithMsg("no active player")
	}

	if _, err := m.commandLocked(ctx, "seek", position.Seconds(), "absolute"); err != nil {
		return aerr.ApplyFor(aerr.ErrMediaSink, err)
	}

	return nil
}

func (m *MpvSink) Detach(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil || !m.isAttached() {
		return nil
	}

	m.setAttached(false)

	if _, err := m.commandLocked(ctx, "stop"); err != nil {
		return aerr.ApplyFor(aerr.ErrMediaSink, err)
	}

	return nil
}

// Shutdown terminate the mpv subprocess. Called by samber/do.
func (m *MpvSink) Shutdown(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}

	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
		m.cmd = nil
	}

	if m.sockPath != "" {
		_ = os.Remove(m.sockPath)
		m.sockPath = ""
	}

	return nil
}

//---------------------------------------------------------------------

func (m *MpvSink) isAttached() bool {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	return m.attached
}

func (m *MpvSink) setAttached(attached bool) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	m.attached = attached
}

func (m *MpvSink) ensureProcessLocked(ctx context.Context) error {
	if m.conn != nil {
		return nil
	}

	sockPath := filepath.Join(os.TempDir(), "podcastsync-mpv-"+xid.New().String()+".sock")

	args := []string{
		"--idle=yes", "--no-video", "--no-terminal",
		"--input-ipc-server=" + sockPath,
	}
	args = append(args, m.extraArgs...)

	cmd := exec.Command(m.binary, args...)
	if err := cmd.Start(); err != nil {
		return aerr.ErrMediaSink.WithError(err).WithMsg("start %s failed", m.binary)
	}

	conn, err := waitForSocket(ctx, sockPath)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()

		return aerr.ApplyFor(aerr.ErrMediaSink, err)
	}

	m.cmd = cmd
	m.conn = conn
	m.sockPath = sockPath

	go m.readLoop(conn)

	// property observers feed position and duration back to the session
	for idx, prop := range []string{"time-pos", "duration"} {
		if _, err := m.commandLocked(ctx, "observe_property", idx+1, prop); err != nil {
			log.Warn().Err(err).Str("property", prop).Msg("player: observe property failed")
		}
	}

	log.Info().Str("binary", m.binary).Str("socket", sockPath).Msg("player: mpv started")

	return nil
}

func waitForSocket(ctx context.Context, path string) (net.Conn, error) {
	var lastErr error

	for range mpvConnectRetries {
		conn, err := net.Dial("unix", path)
		if err == nil {
			return conn, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(mpvConnectInterval):
		}
	}

	return nil, fmt.Errorf("connect to mpv socket: %w", lastErr)
}

// commandLocked send a mpv command and wait for its matching response.
// mu must be held; pending is touched only under ipcMu so readLoop can
// deliver the response while mu stays held here.
func (m *MpvSink) commandLocked(ctx context.Context, args ...any) (json.RawMessage, error) {
	if m.conn == nil {
		return nil, fmt.Errorf("mpv not running")
	}

	id := m.reqID.Add(1)
	ch := make(chan mpvResponse, 1)

	m.ipcMu.Lock()
	m.pending[id] = ch
	m.ipcMu.Unlock()

	defer func() {
		m.ipcMu.Lock()
		delete(m.pending, id)
		m.ipcMu.Unlock()
	}()

	payload, err := json.Marshal(map[string]any{"command": args, "request_id": id})
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	payload = append(payload, '\n')

	if _, err := m.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	timer := time.NewTimer(mpvCommandTimeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", resp.Error)
		}

		return resp.Data, nil

	case <-timer.C:
		return nil, fmt.Errorf("mpv: command timeout")

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *MpvSink) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev mpvEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			log.Debug().Err(err).Msg("player: unreadable mpv message")

			continue
		}

		if ev.Event != "" {
			m.handleEvent(ev)

			continue
		}

		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err == nil && resp.RequestID != 0 {
			m.ipcMu.Lock()
			ch, ok := m.pending[resp.RequestID]
			m.ipcMu.Unlock()

			if ok {
				ch <- resp
			}
		}
	}
}

func (m *MpvSink) handleEvent(ev mpvEvent) {
	m.ipcMu.Lock()
	obs := m.obs
	attached := m.attached
	m.ipcMu.Unlock()

	if obs == nil {
		return
	}

	switch ev.Event {
	case "property-change":
		var val float64
		if err := json.Unmarshal(ev.Data, &val); err != nil {
			return
		}

		switch ev.Name {
		case "time-pos":
			obs.SinkPosition(time.Duration(val * float64(time.Second)))
		case "duration":
			obs.SinkDuration(time.Duration(val * float64(time.Second)))
		}

	case "end-file":
		// stop and replace also raise end-file; only eof is a natural end
		if ev.Reason == "eof" && attached {
			obs.SinkEnded()
		}
	}
}

var _ Sink = (*MpvSink)(nil)
