package proto

import "encoding/binary"

// MsgSleep asks the time service for a MsgWake after a number of ticks:
// u32 requestID, u32 ticks. MsgWake echoes the u32 requestID.

func SleepPayload(requestID, ticks uint32) []byte {
	b := make([]byte, 0, 8)
	b = binary.LittleEndian.AppendUint32(b, requestID)
	return binary.LittleEndian.AppendUint32(b, ticks)
}

func DecodeSleepPayload(payload []byte) (requestID, ticks uint32, ok bool) {
	if len(payload) != 8 {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(payload), binary.LittleEndian.Uint32(payload[4:]), true
}

func WakePayload(requestID uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, 4), requestID)
}

func DecodeWakePayload(payload []byte) (requestID uint32, ok bool) {
	if len(payload) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload), true
}
