package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/wfctiles/internal/logger"
	"github.com/lawnchairsociety/wfctiles/internal/wfc"
)

// session binds one client connection to its own SolverState: the Driver
// API gives each connection an independent SolverState, identified by a
// session ID so log lines can be correlated to a client.
type session struct {
	id    string
	state *wfc.SolverState
	conn  *wsConn
}

func newSession(rules *wfc.Rules, width, height int, conn *wsConn) *session {
	return &session{
		id:    uuid.New().String(),
		state: wfc.NewSolverState(rules, width, height, time.Now().UnixNano()),
		conn:  conn,
	}
}

// errUnknownOp is returned for a command whose Op isn't one of the Driver
// API operations.
var errUnknownOp = errors.New("unknown op")

// serve reads commands until the connection closes or a read fails, running
// each one through the Driver API and writing back a response.
func (s *session) serve() {
	logger.Info("wfcserve: session started", "session", s.id)
	defer logger.Info("wfcserve: session ended", "session", s.id)

	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			return
		}

		var cmd command
		if err := json.Unmarshal([]byte(line), &cmd); err != nil {
			s.reply(errResponse("invalid command: " + err.Error()))
			continue
		}

		resp, err := s.dispatch(cmd)
		if err != nil {
			resp = errResponse(err.Error())
		}
		s.reply(resp)
	}
}

// dispatch runs one command against the Driver API. It never mutates state
// outside of the documented operations and never blocks beyond what the
// underlying SolverState call does.
func (s *session) dispatch(cmd command) (response, error) {
	switch cmd.Op {
	case "reset":
		s.state.Reset()
		return response{OK: true, Dirty: s.state.IsDirty()}, nil

	case "get":
		opts := s.state.Get(cmd.X, cmd.Y)
		return response{OK: true, Options: opts.ToSlice()}, nil

	case "fix":
		ok := s.state.Fix(cmd.X, cmd.Y, cmd.Choice)
		return response{OK: true, Fixed: ok, Dirty: s.state.IsDirty()}, nil

	case "fix_at_random":
		s.state.FixAtRandom(cmd.X, cmd.Y)
		return response{OK: true, Dirty: s.state.IsDirty()}, nil

	case "fill_at_random":
		s.state.FillAtRandom()
		return response{OK: true, Dirty: s.state.IsDirty()}, nil

	case "clear_errors":
		s.state.ClearErrors()
		return response{OK: true, Dirty: s.state.IsDirty()}, nil

	case "clear_dirty":
		s.state.ClearDirty()
		return response{OK: true}, nil

	default:
		return response{}, errUnknownOp
	}
}

func (s *session) reply(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("wfcserve: encode response", "session", s.id, "err", err)
		return
	}
	if err := s.conn.WriteLine(string(data)); err != nil {
		logger.Debug("wfcserve: write response failed", "session", s.id, "err", err)
	}
}
