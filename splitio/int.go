package splitio

import "fmt"

// EncodeUint32 writes a constant-length (4 byte) big-endian encoding of n to buff.
func EncodeUint32(buff []byte, n uint32) {
	buff[0] = uint8(n >> 24)
	buff[1] = uint8(n >> 16)
	buff[2] = uint8(n >> 8)
	buff[3] = uint8(n)
}

// DecodeUint32 reads a constant-length (4 byte) big-endian encoding of a uint32 from buff.
func DecodeUint32(buff []byte) (n uint32) {
	n += uint32(buff[0]) << 24
	n += uint32(buff[1]) << 16
	n += uint32(buff[2]) << 8
	n += uint32(buff[3])
	return
}

// EncodeUint writes a big-endian encoding of n filling the whole of buff.
// buff must be between 1 and 8 bytes.
func EncodeUint(buff []byte, n uint64) error {
	if len(buff) < 1 || len(buff) > 8 {
		return NewError(ErrBadCall, fmt.Sprintf("cannot encode a uint into %v bytes", len(buff)))
	}
	for i := range buff {
		buff[i] = uint8(n >> (8 * (len(buff) - i - 1)))
	}
	return nil
}

// DecodeUint reads a big-endian unsigned integer spanning the whole of buff.
// buff must be between 1 and 8 bytes.
func DecodeUint(buff []byte) (uint64, error) {
	if len(buff) < 1 || len(buff) > 8 {
		return 0, NewError(ErrBadCall, fmt.Sprintf("cannot decode a uint from %v bytes", len(buff)))
	}
	var n uint64
	for _, b := range buff {
		n = n<<8 | uint64(b)
	}
	return n, nil
}
