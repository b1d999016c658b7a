// File: wire/codec.go
// Package wire
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wire

import (
	"bytes"

	"github.com/momentics/hioload-ws/api"
)

// Frame is a fully decoded message: header fields plus its raw body bytes.
// The session layer further decodes Body according to CmdID.
type Frame struct {
	CmdID  CommandID
	Status CommandStatus
	SeqNum uint32
	Body   []byte
}

// EncodeFrame appends a complete frame (header + body) for cmdID to dst.
// body may be nil for header-only commands (unbind, enquire_link).
func EncodeFrame(dst *bytes.Buffer, cmdID CommandID, seqNum uint32, status CommandStatus, body []byte) {
	cmdLen := uint32(HeaderLength + len(body))
	var hdr [HeaderLength]byte
	EncodeHeader(hdr[:], cmdLen, cmdID, seqNum, status)
	dst.Write(hdr[:])
	dst.Write(body)
}

// MaxCommandLength bounds a single frame's total length, matching
// session_config's max_command_length default; the session layer may
// override this per-connection.
const MaxCommandLength = 10 * 1024 * 1024

// DecodeFrame attempts to decode one complete frame from the front of buf.
// It returns the frame, the number of bytes consumed, and ok=false if buf
// doesn't yet hold a complete frame (the caller should read more and retry).
func DecodeFrame(buf []byte, maxCommandLength uint32) (frame Frame, consumed int, ok bool, err error) {
	if len(buf) < HeaderLength {
		return Frame{}, 0, false, nil
	}

	cmdLen, cmdID, status, seqNum, err := DecodeHeader(buf)
	if err != nil {
		return Frame{}, 0, false, err
	}
	if cmdLen > maxCommandLength {
		return Frame{}, 0, false, api.ErrFrameTooLarge
	}
	if uint32(len(buf)) < cmdLen {
		return Frame{}, 0, false, nil
	}

	body := buf[HeaderLength:cmdLen]
	return Frame{CmdID: cmdID, Status: status, SeqNum: seqNum, Body: body}, int(cmdLen), true, nil
}
