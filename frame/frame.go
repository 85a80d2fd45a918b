// Package frame implements the self-describing variable-length bytestring format;
// a fixed-width big-endian length prefix immediately followed by that many payload bytes.
//
// A bundle is the concatenation of frames with no outer count;
// Dispense detects the end of a bundle by buffer exhaustion alone.
package frame

import (
	"fmt"

	"github.com/stewi1014/bytesplit/splitio"
)

const (
	// PrefixSize is the width in bytes of the length prefix.
	// It is a protocol constant; every frame in the system uses it.
	PrefixSize = 4

	// TooBig is a byte count used for simple sanity checking of decoded
	// length prefixes. By default it is 32MB on 32bit machines, and 128MB
	// on 64bit machines. Feel free to change it.
	TooBig = 1 << (25 + ((^uint(0) >> 32) & 2))
)

// Encode returns payload prepended with its length prefix.
// It panics if payload is larger than the prefix can describe; programmer error.
func Encode(payload []byte) []byte {
	if uint64(len(payload)) > 1<<32-1 {
		panic(fmt.Errorf("%v byte payload is too big for a %v byte length prefix", len(payload), PrefixSize))
	}

	buff := make([]byte, PrefixSize+len(payload))
	splitio.EncodeUint32(buff, uint32(len(payload)))
	copy(buff[PrefixSize:], payload)
	return buff
}

// Decode reads the frame starting at offset in buff, returning its payload and
// the total number of bytes the frame occupies (prefix included).
// The payload aliases buff; it is not copied.
func Decode(buff []byte, offset int) (payload []byte, consumed int, err error) {
	if offset < 0 || offset > len(buff) {
		return nil, 0, splitio.NewError(splitio.ErrBadCall, fmt.Sprintf("offset %v out of bounds; len %v", offset, len(buff)))
	}
	if len(buff)-offset < PrefixSize {
		return nil, 0, splitio.NewError(
			splitio.ErrSizeMismatch,
			fmt.Sprintf("want %v byte length prefix but only %v bytes remain", PrefixSize, len(buff)-offset),
		)
	}

	l := splitio.DecodeUint32(buff[offset:])
	if uint64(l) > TooBig {
		return nil, 0, splitio.NewError(splitio.ErrSizeMismatch, fmt.Sprintf("declared length %v exceeds sanity limit %v", l, uint64(TooBig)))
	}

	end := offset + PrefixSize + int(l)
	if end > len(buff) {
		return nil, 0, splitio.NewError(
			splitio.ErrSizeMismatch,
			fmt.Sprintf("declared length %v but only %v bytes remain after prefix", l, len(buff)-offset-PrefixSize),
		)
	}

	return buff[offset+PrefixSize : end], PrefixSize + int(l), nil
}

// Bundle packs payloads into consecutive frames.
func Bundle(payloads [][]byte) []byte {
	size := 0
	for _, p := range payloads {
		size += PrefixSize + len(p)
	}

	buff := make([]byte, 0, size)
	for _, p := range payloads {
		buff = append(buff, Encode(p)...)
	}
	return buff
}

// Dispense unpacks a bundle, decoding frames from the front of buff until it is
// exactly exhausted. A partial frame at the end is a size mismatch.
// Payloads alias buff; they are not copied.
func Dispense(buff []byte) ([][]byte, error) {
	var payloads [][]byte
	for offset := 0; offset < len(buff); {
		payload, consumed, err := Decode(buff, offset)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
		offset += consumed
	}
	return payloads, nil
}
