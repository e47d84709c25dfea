package switching

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/moov-io/iso8583/prefix"
)

// binaryLengthPrefixers encode variable field lengths as raw binary counts:
// one byte for L and LL fields, two big-endian bytes for LLL and LLLL fields.
var binaryLengthPrefixers = prefix.Prefixers{
	Fixed: &fixedLengthPrefixer{},
	L:     &binaryLengthPrefixer{digits: 1},
	LL:    &binaryLengthPrefixer{digits: 2},
	LLL:   &binaryLengthPrefixer{digits: 3},
	LLLL:  &binaryLengthPrefixer{digits: 4},
}

type binaryLengthPrefixer struct {
	digits int
}

func (p *binaryLengthPrefixer) width() int {
	if p.digits <= 2 {
		return 1
	}
	return 2
}

func (p *binaryLengthPrefixer) EncodeLength(maxLen, dataLen int) ([]byte, error) {
	if dataLen > maxLen {
		return nil, fmt.Errorf("field length: %d is larger than maximum: %d", dataLen, maxLen)
	}

	if p.width() == 1 {
		if dataLen > 0xFF {
			return nil, fmt.Errorf("field length: %d does not fit in one byte", dataLen)
		}
		return []byte{byte(dataLen)}, nil
	}

	length := make([]byte, 2)
	binary.BigEndian.PutUint16(length, uint16(dataLen))
	return length, nil
}

func (p *binaryLengthPrefixer) DecodeLength(maxLen int, data []byte) (int, int, error) {
	width := p.width()
	if len(data) < width {
		return 0, 0, fmt.Errorf("not enough data to decode length: have %d bytes, need %d", len(data), width)
	}

	var dataLen int
	if width == 1 {
		dataLen = int(data[0])
	} else {
		dataLen = int(binary.BigEndian.Uint16(data))
	}

	if dataLen > maxLen {
		return 0, 0, fmt.Errorf("data length: %d is larger than maximum: %d", dataLen, maxLen)
	}
	return dataLen, width, nil
}

func (p *binaryLengthPrefixer) Inspect() string {
	return "Binary." + strings.Repeat("L", p.digits)
}

type fixedLengthPrefixer struct{}

func (p *fixedLengthPrefixer) EncodeLength(fixLen, dataLen int) ([]byte, error) {
	if dataLen != fixLen {
		return nil, fmt.Errorf("field length: %d should be fixed: %d", dataLen, fixLen)
	}
	return []byte{}, nil
}

func (p *fixedLengthPrefixer) DecodeLength(fixLen int, _ []byte) (int, int, error) {
	return fixLen, 0, nil
}

func (p *fixedLengthPrefixer) Inspect() string {
	return "Binary.Fixed"
}
