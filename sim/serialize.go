package sim

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eMDVIState\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + imageCRC(4) + dataCRC(4)
	stateBodySize   = 10 // pattern(1) + output(1) + frame(4) + line(4)
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SerializeSize returns the total size in bytes needed for a save state.
func SerializeSize() int {
	return stateHeaderSize + stateBodySize
}

// SerializeSize returns the total size in bytes needed for a save state.
func (m *Monitor) SerializeSize() int {
	return SerializeSize()
}

// Serialize records the selected pattern, the signal state and the scan
// position. The scan position is informational: a restored monitor always
// restarts output at the top of a frame.
func (m *Monitor) Serialize() ([]byte, error) {
	data := make([]byte, m.SerializeSize())

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], m.crc)

	st := m.ctrl.Machine().State()
	body := data[stateHeaderSize:]
	body[0] = uint8(m.pattern)
	body[1] = boolByte(m.output)
	binary.LittleEndian.PutUint32(body[2:6], st.Frame)
	binary.LittleEndian.PutUint32(body[6:10], uint32(st.Line))

	binary.LittleEndian.PutUint32(data[18:22], crc32.ChecksumIEEE(body))
	return data, nil
}

// Deserialize restores the pattern and signal state.
func (m *Monitor) Deserialize(data []byte) error {
	if err := m.VerifyState(data); err != nil {
		return err
	}
	body := data[stateHeaderSize:]
	if int(body[0]) >= len(m.patterns) {
		return errors.New("save state pattern out of range")
	}
	m.pattern = int(body[0])
	m.drawPattern()

	// Restart so the restored signal begins on a frame boundary.
	m.SetOutput(false)
	m.SetOutput(body[1] != 0)
	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (m *Monitor) VerifyState(data []byte) error {
	if len(data) < m.SerializeSize() {
		return errors.New("save state too short")
	}
	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}
	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}
	if binary.LittleEndian.Uint32(data[14:18]) != m.crc {
		return errors.New("save state is for a different image")
	}
	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	if crc32.ChecksumIEEE(data[stateHeaderSize:m.SerializeSize()]) != expectedCRC {
		return errors.New("save state data is corrupted")
	}
	return nil
}
