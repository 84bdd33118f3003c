package domain

import (
	"encoding/binary"
	"fmt"
)

// DatagramSize is the fixed size of a command datagram in bytes.
const DatagramSize = 6

// Datagram is one command frame: three big-endian uint16 fields in order
// sequence, left, right, with no padding.
type Datagram struct {
	Sequence uint16
	Left     uint16
	Right    uint16
}

// NewDatagram tags cmd with sequence number seq.
func NewDatagram(seq uint16, cmd MotorCommand) Datagram {
	return Datagram{Sequence: seq, Left: cmd.Left, Right: cmd.Right}
}

// Command returns the setpoints carried by d.
func (d Datagram) Command() MotorCommand {
	return MotorCommand{Left: d.Left, Right: d.Right}
}

// AppendBinary appends the encoded datagram to b.
func (d Datagram) AppendBinary(b []byte) []byte {
	b = binary.BigEndian.AppendUint16(b, d.Sequence)
	b = binary.BigEndian.AppendUint16(b, d.Left)
	return binary.BigEndian.AppendUint16(b, d.Right)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (d Datagram) MarshalBinary() ([]byte, error) {
	return d.AppendBinary(make([]byte, 0, DatagramSize)), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Datagram) UnmarshalBinary(b []byte) error {
	switch {
	case len(b) < DatagramSize:
		return fmt.Errorf("%w: %d bytes", ErrShortDatagram, len(b))
	case len(b) > DatagramSize:
		return fmt.Errorf("%w: %d bytes", ErrLongDatagram, len(b))
	}
	d.Sequence = binary.BigEndian.Uint16(b[0:2])
	d.Left = binary.BigEndian.Uint16(b[2:4])
	d.Right = binary.BigEndian.Uint16(b[4:6])
	return nil
}

// DecodeDatagram decodes exactly DatagramSize bytes.
func DecodeDatagram(b []byte) (Datagram, error) {
	var d Datagram
	err := d.UnmarshalBinary(b)
	return d, err
}
