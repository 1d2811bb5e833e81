package proto

import "testing"

func TestKindNames(t *testing.T) {
	if MsgLinkRecv.String() != "link_recv" || Kind(0).String() != "unknown" || Kind(200).String() != "unknown" {
		t.Fatalf("unexpected kind names %s %s %s", MsgLinkRecv, Kind(0), Kind(200))
	}
	if ErrOverflow.String() != "overflow" || ErrCode(99).String() != "unknown" {
		t.Fatalf("unexpected error code names %s %s", ErrOverflow, ErrCode(99))
	}
}

func TestTimerPayloadsRejectWrongLength(t *testing.T) {
	if _, _, ok := DecodeSleepPayload(SleepPayload(1, 2)[:7]); ok {
		t.Fatal("expected a short sleep payload to be rejected")
	}
	if _, ok := DecodeWakePayload(append(WakePayload(3), 0)); ok {
		t.Fatal("expected a long wake payload to be rejected")
	}
	id, dt, ok := DecodeSleepPayload(SleepPayload(0x01020304, 400))
	if !ok || id != 0x01020304 || dt != 400 {
		t.Fatalf("unexpected sleep decode %x %d %v", id, dt, ok)
	}
}

func TestErrorPayloadFields(t *testing.T) {
	code, ref, id, ok := DecodeErrorPayload(ErrorPayload(ErrBadMessage, MsgSleep, 9))
	if !ok || code != ErrBadMessage || ref != MsgSleep || id != 9 {
		t.Fatalf("unexpected error decode %s %s %d %v", code, ref, id, ok)
	}
}
