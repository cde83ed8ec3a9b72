package main

import "github.com/lawnchairsociety/wfctiles/internal/wfc"

// command is one newline-delimited JSON request from a client. Op selects
// the Driver API operation; the remaining fields are populated according
// to which op is used.
type command struct {
	Op     string        `json:"op"`
	X      int           `json:"x,omitempty"`
	Y      int           `json:"y,omitempty"`
	Choice wfc.TileIndex `json:"choice,omitempty"`
}

// response is the JSON reply to a command.
type response struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Dirty   bool            `json:"dirty,omitempty"`
	Options []wfc.TileIndex `json:"options,omitempty"`
	Fixed   bool            `json:"fixed,omitempty"`
}

func errResponse(msg string) response {
	return response{OK: false, Error: msg}
}
