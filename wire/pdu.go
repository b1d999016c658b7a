// File: wire/pdu.go
// Package wire
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PDU bodies for bind and stream commands. unbind and enquire_link carry no
// body — their header alone is the message. Grounded on
// pdu/bind_request.hpp, pdu/bind_response.hpp, pdu/stream_request.hpp,
// pdu/stream_response.hpp and common/serialization.hpp's c_octet_str<20>
// and octet_str codecs.

package wire

import (
	"bytes"

	"github.com/momentics/hioload-ws/api"
)

// MaxSystemIDLength is the c_octet_str<20> limit: up to 19 bytes plus the
// terminating NUL.
const MaxSystemIDLength = 20

// BindRequest carries the peer's system id during the bind handshake.
type BindRequest struct {
	SystemID string
}

// BindResponse echoes the accepting peer's own system id.
type BindResponse struct {
	SystemID string
}

// StreamRequest is an application request body: an opaque byte payload
// occupying the rest of the frame.
type StreamRequest struct {
	MessageBody []byte
}

// StreamResponse is an application response body, symmetric with
// StreamRequest.
type StreamResponse struct {
	MessageBody []byte
}

// EncodeBindRequest and EncodeBindResponse write system_id as a
// NUL-terminated string (c_octet_str<20>): at most 19 bytes, then a NUL.
func EncodeBindRequest(dst *bytes.Buffer, req BindRequest) error {
	return encodeCOctetStr(dst, req.SystemID)
}

func EncodeBindResponse(dst *bytes.Buffer, resp BindResponse) error {
	return encodeCOctetStr(dst, resp.SystemID)
}

// DecodeBindRequest and DecodeBindResponse parse a NUL-terminated system_id.
// bind_response bodies may be entirely absent (can_be_omitted in the
// original); an empty body decodes to a zero-value response.
func DecodeBindRequest(body []byte) (BindRequest, error) {
	id, err := decodeCOctetStr(body)
	if err != nil {
		return BindRequest{}, err
	}
	return BindRequest{SystemID: id}, nil
}

func DecodeBindResponse(body []byte) (BindResponse, error) {
	if len(body) == 0 {
		return BindResponse{}, nil
	}
	id, err := decodeCOctetStr(body)
	if err != nil {
		return BindResponse{}, err
	}
	return BindResponse{SystemID: id}, nil
}

// EncodeStreamRequest and EncodeStreamResponse write message_body verbatim
// (octet_str): the raw payload fills the rest of the frame, with no length
// prefix of its own since the frame header's total length already bounds it.
func EncodeStreamRequest(dst *bytes.Buffer, req StreamRequest) error {
	dst.Write(req.MessageBody)
	return nil
}

func EncodeStreamResponse(dst *bytes.Buffer, resp StreamResponse) error {
	dst.Write(resp.MessageBody)
	return nil
}

func DecodeStreamRequest(body []byte) (StreamRequest, error) {
	return StreamRequest{MessageBody: body}, nil
}

func DecodeStreamResponse(body []byte) (StreamResponse, error) {
	return StreamResponse{MessageBody: body}, nil
}

func encodeCOctetStr(dst *bytes.Buffer, val string) error {
	if len(val) >= MaxSystemIDLength {
		return api.ErrMalformedPDU
	}
	dst.WriteString(val)
	dst.WriteByte(0)
	return nil
}

func decodeCOctetStr(buf []byte) (string, error) {
	nul := bytes.IndexByte(buf, 0)
	if nul < 0 {
		return "", api.ErrMalformedPDU
	}
	if nul >= MaxSystemIDLength {
		return "", api.ErrMalformedPDU
	}
	return string(buf[:nul]), nil
}
