package switching

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/moov-io/iso8583"
	"github.com/moov-io/iso8583/network"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
)

// balanceBlockLength is the size of one additional amount block in field 54:
// account type (2), amount type (2), currency (3), sign (1), amount (12)
const balanceBlockLength = 20

// writeFrame prefixes payload with its length as two big-endian bytes
func writeFrame(payload []byte) ([]byte, error) {
	header := network.NewBinary2BytesHeader()
	if err := header.SetLength(len(payload)); err != nil {
		return nil, fmt.Errorf("frame of %d bytes cannot be sent: %w", len(payload), err)
	}

	var buf bytes.Buffer
	buf.Grow(2 + len(payload))
	if _, err := header.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write frame header: %w", err)
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

// readFrame reads one length-prefixed payload from r
func readFrame(r io.Reader) ([]byte, error) {
	raw := make([]byte, 2)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	header := network.NewBinary2BytesHeader()
	if _, err := header.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to decode frame header: %w", err)
	}

	payload := make([]byte, header.Length())
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read frame of %d bytes: %w", len(payload), err)
	}
	return payload, nil
}

// padRight right-pads s with spaces up to width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// fieldString returns the value of a set field, or "" when the field is absent
func fieldString(msg *iso8583.Message, id int) string {
	f, ok := msg.GetFields()[id]
	if !ok {
		return ""
	}
	value, err := f.String()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// describeFields renders the set fields of msg for debug logs. The PAN is masked.
func describeFields(msg *iso8583.Message) map[string]any {
	fields := msg.GetFields()
	ids := make([]int, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	described := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == 1 {
			continue
		}
		value := fieldString(msg, id)
		if id == 2 {
			value = maskPAN(value)
		}
		described = append(described, strconv.Itoa(id)+"="+value)
	}
	return map[string]any{"fields": strings.Join(described, " ")}
}

// maskPAN keeps the first six and last four digits of an account number
func maskPAN(pan string) string {
	if len(pan) <= 10 {
		return strings.Repeat("*", len(pan))
	}
	return pan[:6] + strings.Repeat("*", len(pan)-10) + pan[len(pan)-4:]
}

// parseBalance reads the first additional amount block of field 54.
// Missing or unreadable balances yield "".
func parseBalance(field string) string {
	if len(field) < balanceBlockLength {
		return ""
	}

	amount, err := entity.FromMinorUnits(field[8:balanceBlockLength])
	if err != nil {
		return ""
	}
	if field[7] == 'D' {
		amount = amount.Neg()
	}
	return entity.FormatAmount(amount)
}

// malformed wraps a decoding failure of a switch answer
func malformed(sw entity.Switch, err error) error {
	return fmt.Errorf("%w from %s: %v", errs.ErrMalformedResponse, sw, err)
}
