package proto

import "encoding/binary"

// ErrorPayload encodes a MsgError reply: u16 code, u16 kind of the failed
// request, u32 request ID (0 when the request could not be parsed).
func ErrorPayload(code ErrCode, ref Kind, requestID uint32) []byte {
	b := make([]byte, 0, 8)
	b = binary.LittleEndian.AppendUint16(b, uint16(code))
	b = binary.LittleEndian.AppendUint16(b, uint16(ref))
	return binary.LittleEndian.AppendUint32(b, requestID)
}

func DecodeErrorPayload(payload []byte) (code ErrCode, ref Kind, requestID uint32, ok bool) {
	if len(payload) != 8 {
		return 0, 0, 0, false
	}
	return ErrCode(binary.LittleEndian.Uint16(payload)),
		Kind(binary.LittleEndian.Uint16(payload[2:])),
		binary.LittleEndian.Uint32(payload[4:]),
		true
}
