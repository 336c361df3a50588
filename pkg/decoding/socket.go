package decoding

import (
	"fmt"
	"net/netip"
	"strings"
)

// ConnectionState is the TCP state code printed in the "st" column.
type ConnectionState uint8

const (
	Established ConnectionState = iota + 1
	SynSent
	SynRecv
	FinWait1
	FinWait2
	TimeWait
	Close
	CloseWait
	LastAck
	Listen
	Closing
)

var stateNames = [...]string{
	Established: "ESTABLISHED",
	SynSent:     "SYN_SENT",
	SynRecv:     "SYN_RECV",
	FinWait1:    "FIN_WAIT1",
	FinWait2:    "FIN_WAIT2",
	TimeWait:    "TIME_WAIT",
	Close:       "CLOSE",
	CloseWait:   "CLOSE_WAIT",
	LastAck:     "LAST_ACK",
	Listen:      "LISTEN",
	Closing:     "CLOSING",
}

// ParseConnectionState converts a raw state code, rejecting codes outside 1-11.
func ParseConnectionState(code uint8) (ConnectionState, error) {
	s := ConnectionState(code)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidState, code)
	}
	return s, nil
}

// Valid reports whether s is one of the kernel's TCP states.
func (s ConnectionState) Valid() bool {
	return s >= Established && s <= Closing
}

func (s ConnectionState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
	return stateNames[s]
}

// ConnectionStates lists all valid states in code order.
func ConnectionStates() []ConnectionState {
	out := make([]ConnectionState, 0, Closing)
	for s := Established; s <= Closing; s++ {
		out = append(out, s)
	}
	return out
}

// TimerKind is the "tr" half of the timer column.
type TimerKind uint8

const (
	TimerOff TimerKind = iota
	TimerRetransmit
	TimerKeepalive
	TimerTimeWait
	TimerProbe
)

// Timer is the socket timer: inactive, or active with an expiry in jiffies.
type Timer struct {
	Kind   TimerKind
	Expiry uint64
}

// InactiveTimer returns the timer of a socket with nothing pending.
func InactiveTimer() Timer {
	return Timer{}
}

// ActiveTimer returns a pending timer of the given kind.
func ActiveTimer(kind TimerKind, expiry uint64) Timer {
	return Timer{Kind: kind, Expiry: expiry}
}

// Active reports whether a timer is pending.
func (t Timer) Active() bool {
	return t.Kind != TimerOff
}

func (t Timer) String() string {
	if !t.Active() {
		return "off"
	}
	return fmt.Sprintf("on(%d):%d", t.Kind, t.Expiry)
}

// SocketRecord is one data row of /proc/net/{tcp,udp,tcp6,udp6}.
type SocketRecord struct {
	Slot          uint64
	LocalAddress  netip.Addr
	LocalPort     uint16
	RemoteAddress netip.Addr
	RemotePort    uint16
	State         ConnectionState
	TxQueue       uint64
	RxQueue       uint64
	Timer         Timer
	UID           uint32
	Inode         uint64
}

// LocalEndpoint returns the local address and port.
func (s SocketRecord) LocalEndpoint() netip.AddrPort {
	return netip.AddrPortFrom(s.LocalAddress, s.LocalPort)
}

// RemoteEndpoint returns the remote address and port.
func (s SocketRecord) RemoteEndpoint() netip.AddrPort {
	return netip.AddrPortFrom(s.RemoteAddress, s.RemotePort)
}

const socketColumns = 10

// DecodeSocketTable decodes a socket table. The first line is the header and
// is always skipped; blank lines are ignored. The first malformed row aborts
// the whole table and no records are returned.
func DecodeSocketTable(text string) ([]SocketRecord, error) {
	lines := splitLines(text)
	if len(lines) <= 1 {
		return nil, nil
	}

	records := make([]SocketRecord, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := decodeSocketRow(lineParser{op: OpSocketTable, line: i + 1}, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeSocketRow decodes a single data row of a socket table.
func DecodeSocketRow(line string) (SocketRecord, error) {
	return decodeSocketRow(lineParser{op: OpSocketTable}, line)
}

var socketColumnNames = [socketColumns]string{
	"sl", "local_address", "rem_address", "st", "tx_queue:rx_queue",
	"tr:tm->when", "retrnsmt", "uid", "timeout", "inode",
}

func decodeSocketRow(p lineParser, line string) (SocketRecord, error) {
	var rec SocketRecord

	cols := strings.Fields(line)
	if len(cols) < socketColumns {
		return rec, p.fail(socketColumnNames[len(cols)], "", ErrMissingColumn)
	}

	slot, _, ok := strings.Cut(cols[0], ":")
	if !ok {
		return rec, p.fail("sl", cols[0], ErrMalformedNumber)
	}
	var err error
	if rec.Slot, err = p.decimal("sl", slot, 64); err != nil {
		return rec, err
	}

	if rec.LocalAddress, rec.LocalPort, err = p.endpoint("local_address", cols[1]); err != nil {
		return rec, err
	}
	if rec.RemoteAddress, rec.RemotePort, err = p.endpoint("rem_address", cols[2]); err != nil {
		return rec, err
	}

	code, err := p.hex("st", cols[3], 8)
	if err != nil {
		return rec, err
	}
	if rec.State, err = ParseConnectionState(uint8(code)); err != nil {
		return rec, p.fail("st", cols[3], ErrInvalidState)
	}

	tx, rx, err := p.hexPair("tx_queue:rx_queue", cols[4])
	if err != nil {
		return rec, err
	}
	rec.TxQueue, rec.RxQueue = tx, rx

	if rec.Timer, err = p.timer(cols[5]); err != nil {
		return rec, err
	}

	uid, err := p.decimal("uid", cols[7], 32)
	if err != nil {
		return rec, err
	}
	rec.UID = uint32(uid)

	if rec.Inode, err = p.decimal("inode", cols[9], 64); err != nil {
		return rec, err
	}

	return rec, nil
}

// endpoint decodes "<hex-addr>:<hex-port>". The port is not byte-reversed.
func (p lineParser) endpoint(column, token string) (netip.Addr, uint16, error) {
	host, port, ok := strings.Cut(token, ":")
	if !ok {
		return netip.Addr{}, 0, p.fail(column, token, ErrMalformedAddress)
	}
	addr, ok := decodeAddress(host)
	if !ok {
		return netip.Addr{}, 0, p.fail(column, token, ErrMalformedAddress)
	}
	v, err := p.hex(column, port, 16)
	if err != nil {
		return netip.Addr{}, 0, err
	}
	return addr, uint16(v), nil
}

func (p lineParser) hexPair(column, token string) (uint64, uint64, error) {
	a, b, ok := strings.Cut(token, ":")
	if !ok {
		return 0, 0, p.fail(column, token, ErrMissingColumn)
	}
	x, err := p.hex(column, a, 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := p.hex(column, b, 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// timer decodes "<decimal-kind>:<hex-expiry>".
func (p lineParser) timer(token string) (Timer, error) {
	kind, expiry, ok := strings.Cut(token, ":")
	if !ok {
		return Timer{}, p.fail("tr:tm->when", token, ErrMissingColumn)
	}
	k, err := p.decimal("tr", kind, 8)
	if err != nil {
		return Timer{}, err
	}
	if k == 0 {
		return InactiveTimer(), nil
	}
	v, err := p.hex("tm->when", expiry, 64)
	if err != nil {
		return Timer{}, err
	}
	return ActiveTimer(TimerKind(k), v), nil
}

const socketHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode"

// FormatSocketTable renders records in the layout of /proc/net/tcp,
// header line included. Retransmit and timeout columns are written as zero.
func FormatSocketTable(records []SocketRecord) string {
	var b strings.Builder
	b.WriteString(socketHeader)
	b.WriteByte('\n')
	for _, r := range records {
		fmt.Fprintf(&b, "%4d: %s:%04X %s:%04X %02X %08X:%08X %02d:%08X %08X %5d %8d %d\n",
			r.Slot,
			encodeAddress(r.LocalAddress), r.LocalPort,
			encodeAddress(r.RemoteAddress), r.RemotePort,
			uint8(r.State),
			r.TxQueue, r.RxQueue,
			r.Timer.Kind, r.Timer.Expiry,
			0, r.UID, 0, r.Inode)
	}
	return b.String()
}
