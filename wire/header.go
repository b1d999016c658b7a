// File: wire/header.go
// Package wire
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Header is the fixed 10-byte frame prefix: a big-endian u32 total frame
// length (header included), a command id byte, a status byte, and a
// big-endian u32 sequence number. Grounded on session_impl.inl's
// serialize_header/deserialize_header.

package wire

import (
	"encoding/binary"

	"github.com/momentics/hioload-ws/api"
)

// HeaderLength is the size in bytes of a frame's fixed header.
const HeaderLength = 10

// EncodeHeader writes the 10-byte header for a frame whose total length
// (header + body) is cmdLen.
func EncodeHeader(dst []byte, cmdLen uint32, cmdID CommandID, seqNum uint32, status CommandStatus) {
	binary.BigEndian.PutUint32(dst[0:4], cmdLen)
	dst[4] = byte(cmdID)
	dst[5] = byte(status)
	binary.BigEndian.PutUint32(dst[6:10], seqNum)
}

// DecodeHeader parses the 10-byte header at the front of buf. buf must be
// at least HeaderLength bytes.
func DecodeHeader(buf []byte) (cmdLen uint32, cmdID CommandID, status CommandStatus, seqNum uint32, err error) {
	if len(buf) < HeaderLength {
		return 0, 0, 0, 0, api.ErrFrameTooSmall
	}
	cmdLen = binary.BigEndian.Uint32(buf[0:4])
	cmdID = CommandID(buf[4])
	status = CommandStatus(buf[5])
	seqNum = binary.BigEndian.Uint32(buf[6:10])

	if cmdLen < HeaderLength {
		return 0, 0, 0, 0, api.ErrMalformedPDU
	}
	return cmdLen, cmdID, status, seqNum, nil
}
