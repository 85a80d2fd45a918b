package splitio_test

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/bytesplit/splitio"
)

func TestUint32(t *testing.T) {
	testCases := []uint32{
		0, 1, 255, 256, 54453, 1<<24 - 1, 1 << 24, 1<<32 - 1,
	}

	for _, n := range testCases {
		buff := make([]byte, 4)
		splitio.EncodeUint32(buff, n)
		td.Cmp(t, splitio.DecodeUint32(buff), n)
	}
}

func TestUint32BigEndian(t *testing.T) {
	buff := make([]byte, 4)
	splitio.EncodeUint32(buff, 0x01020304)
	td.Cmp(t, buff, []byte{1, 2, 3, 4})
}

func TestUint(t *testing.T) {
	testCases := []struct {
		n    uint64
		size int
	}{
		{n: 0, size: 1},
		{n: 255, size: 1},
		{n: 54453, size: 2},
		{n: 1 << 23, size: 3},
		{n: 1<<32 - 1, size: 4},
		{n: 1<<64 - 1, size: 8},
	}

	for _, tC := range testCases {
		buff := make([]byte, tC.size)
		if err := splitio.EncodeUint(buff, tC.n); err != nil {
			t.Fatalf("encode error: %v", err)
		}

		n, err := splitio.DecodeUint(buff)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		td.Cmp(t, n, tC.n)
	}
}

func TestUintBadWidths(t *testing.T) {
	if _, err := splitio.DecodeUint(nil); err == nil {
		t.Error("decoding an empty buffer should fail")
	}
	if _, err := splitio.DecodeUint(make([]byte, 9)); err == nil {
		t.Error("decoding a 9 byte buffer should fail")
	}
	if err := splitio.EncodeUint(nil, 1); err == nil {
		t.Error("encoding into an empty buffer should fail")
	}
}
