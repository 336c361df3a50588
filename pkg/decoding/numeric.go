package decoding

import (
	"encoding/hex"
	"net/netip"
	"strconv"
	"strings"
)

// lineParser carries the position of the line being decoded so helpers can
// report failures without threading op/line through every call.
type lineParser struct {
	op   string
	line int
}

func (p lineParser) fail(column, token string, err error) error {
	return &DecodeError{Op: p.op, Line: p.line, Column: column, Token: token, Err: err}
}

func (p lineParser) decimal(column, token string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(token, 10, bits)
	if err != nil {
		return 0, p.fail(column, token, ErrMalformedNumber)
	}
	return v, nil
}

func (p lineParser) hex(column, token string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(token, 16, bits)
	if err != nil {
		return 0, p.fail(column, token, ErrMalformedNumber)
	}
	return v, nil
}

// decimals parses every token as a decimal uint64. Zero tokens yield nil.
func (p lineParser) decimals(column string, tokens []string) ([]uint64, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	out := make([]uint64, len(tokens))
	for i, tok := range tokens {
		v, err := p.decimal(column, tok, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// reverseBytes reverses b in place. The kernel prints socket addresses as
// native-endian 32-bit words, so each word is byte-reversed to get network order.
func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// decodeAddress decodes an 8-digit (IPv4) or 32-digit (IPv6) hex address.
func decodeAddress(s string) (netip.Addr, bool) {
	if len(s) != 8 && len(s) != 32 {
		return netip.Addr{}, false
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return netip.Addr{}, false
	}
	for i := 0; i < len(raw); i += 4 {
		reverseBytes(raw[i : i+4])
	}
	addr, ok := netip.AddrFromSlice(raw)
	return addr, ok
}

// encodeAddress is the inverse of decodeAddress.
func encodeAddress(a netip.Addr) string {
	raw := a.AsSlice()
	for i := 0; i+4 <= len(raw); i += 4 {
		reverseBytes(raw[i : i+4])
	}
	return strings.ToUpper(hex.EncodeToString(raw))
}

// splitLines splits report text into lines, dropping a trailing carriage return.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
