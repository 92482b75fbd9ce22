package layershell

import "encoding/binary"

// message accumulates the arguments of one request in wire format.
type message struct {
	args []byte
}

func (m *message) putUint32(v uint32) {
	m.args = binary.NativeEndian.AppendUint32(m.args, v)
}

func (m *message) putInt32(v int32) {
	m.putUint32(uint32(v))
}

// putString writes a length-prefixed, NUL-terminated string padded to 32 bits.
func (m *message) putString(s string) {
	m.putUint32(uint32(len(s) + 1))
	m.args = append(m.args, s...)
	m.args = append(m.args, 0)
	for len(m.args)%4 != 0 {
		m.args = append(m.args, 0)
	}
}

// encode prepends the header for a request from sender with the given opcode.
func (m *message) encode(sender uint32, opcode uint16) []byte {
	size := 8 + len(m.args)
	out := make([]byte, 0, size)
	out = binary.NativeEndian.AppendUint32(out, sender)
	out = binary.NativeEndian.AppendUint32(out, uint32(size)<<16|uint32(opcode))
	return append(out, m.args...)
}

func readUint32(data []byte, off int) (uint32, bool) {
	if off+4 > len(data) {
		return 0, false
	}
	return binary.NativeEndian.Uint32(data[off : off+4]), true
}
