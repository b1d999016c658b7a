package wire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeHeader(t *testing.T) {
	var buf [HeaderLength]byte
	EncodeHeader(buf[:], 42, CmdStreamReq, 7, StatusOK)

	cmdLen, cmdID, status, seqNum, err := DecodeHeader(buf[:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmdLen != 42 || cmdID != CmdStreamReq || status != StatusOK || seqNum != 7 {
		t.Fatalf("roundtrip mismatch: cmdLen=%d cmdID=%v status=%v seqNum=%d", cmdLen, cmdID, status, seqNum)
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	if _, _, _, _, err := DecodeHeader([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestCommandIDIsResponse(t *testing.T) {
	cases := map[CommandID]bool{
		CmdBindReq:         false,
		CmdBindResp:        true,
		CmdStreamReq:       false,
		CmdStreamResp:      true,
		CmdUnbindReq:       false,
		CmdUnbindResp:      true,
		CmdEnquireLinkReq:  false,
		CmdEnquireLinkResp: true,
	}
	for id, want := range cases {
		if got := id.IsResponse(); got != want {
			t.Errorf("%v.IsResponse() = %v, want %v", id, got, want)
		}
	}
}

func TestEncodeDecodeFrameStreamRequest(t *testing.T) {
	var body bytes.Buffer
	req := StreamRequest{MessageBody: []byte("hello")}
	if err := EncodeStreamRequest(&body, req); err != nil {
		t.Fatalf("EncodeStreamRequest: %v", err)
	}

	var out bytes.Buffer
	EncodeFrame(&out, CmdStreamReq, 5, StatusOK, body.Bytes())

	frame, consumed, ok, err := DecodeFrame(out.Bytes(), MaxCommandLength)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !ok {
		t.Fatal("expected a complete frame")
	}
	if consumed != out.Len() {
		t.Fatalf("expected to consume %d bytes, got %d", out.Len(), consumed)
	}
	if frame.CmdID != CmdStreamReq || frame.SeqNum != 5 || frame.Status != StatusOK {
		t.Fatalf("unexpected frame: %+v", frame)
	}

	decoded, err := DecodeStreamRequest(frame.Body)
	if err != nil {
		t.Fatalf("DecodeStreamRequest: %v", err)
	}
	if string(decoded.MessageBody) != "hello" {
		t.Fatalf("expected 'hello', got %q", decoded.MessageBody)
	}
}

func TestDecodeFrameIncomplete(t *testing.T) {
	var out bytes.Buffer
	EncodeFrame(&out, CmdStreamReq, 1, StatusOK, []byte("payload"))

	partial := out.Bytes()[:out.Len()-2]
	_, _, ok, err := DecodeFrame(partial, MaxCommandLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected incomplete frame to report ok=false")
	}
}

func TestDecodeFrameTooLarge(t *testing.T) {
	var out bytes.Buffer
	EncodeFrame(&out, CmdStreamReq, 1, StatusOK, make([]byte, 100))

	_, _, ok, err := DecodeFrame(out.Bytes(), HeaderLength+10)
	if err == nil {
		t.Fatal("expected ErrFrameTooLarge")
	}
	if ok {
		t.Fatal("expected ok=false on error")
	}
}

func TestBindRequestRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeBindRequest(&buf, BindRequest{SystemID: "node-1"}); err != nil {
		t.Fatalf("EncodeBindRequest: %v", err)
	}
	req, err := DecodeBindRequest(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBindRequest: %v", err)
	}
	if req.SystemID != "node-1" {
		t.Fatalf("expected 'node-1', got %q", req.SystemID)
	}
}

func TestBindRequestTooLong(t *testing.T) {
	var buf bytes.Buffer
	longID := "this-system-id-is-definitely-too-long"
	if err := EncodeBindRequest(&buf, BindRequest{SystemID: longID}); err == nil {
		t.Fatal("expected error for over-length system id")
	}
}

func TestBindResponseEmptyBody(t *testing.T) {
	resp, err := DecodeBindResponse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SystemID != "" {
		t.Fatalf("expected empty system id, got %q", resp.SystemID)
	}
}
