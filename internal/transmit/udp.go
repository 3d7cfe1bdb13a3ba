package transmit

import (
	"context"
	"fmt"
	"net"

	"github.com/nutbridge-io/nutbridge/internal/reading"
)

// UDPTransmitter sends each reading as exactly one UDP datagram. Packet
// loss is acceptable; the next cycle emits a fresh reading.
type UDPTransmitter struct {
	addr string
	conn net.Conn
}

var _ Transmitter = (*UDPTransmitter)(nil)

// NewUDP resolves the receiver address and opens the datagram socket.
// An unresolvable address is a configuration error and fails construction.
func NewUDP(addr string) (*UDPTransmitter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp receiver %s: %w", addr, err)
	}
	return &UDPTransmitter{addr: addr, conn: conn}, nil
}

func (t *UDPTransmitter) Send(_ context.Context, r *reading.UpsReading) error {
	payload, err := r.Encode()
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}

	if _, err := t.conn.Write(payload); err != nil {
		return fmt.Errorf("send udp datagram to %s: %w", t.addr, err)
	}
	return nil
}

func (t *UDPTransmitter) Close() error {
	return t.conn.Close()
}
