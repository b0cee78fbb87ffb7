// Package persist reads and writes the device record: a fixed-size binary
// image holding the device state bytes and every palette slot, guarded by a
// CRC-32 over the payload. The image layout is stable across versions so a
// node can be flashed and rebooted without migrations.
package persist

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/lednode/lednode/internal/palette"
)

// RecordSize is the exact on-disk size of the record image:
// a 4-byte checksum, 4 state bytes and 11 palette slots of 4 bytes each.
const RecordSize = 4 + 4 + palette.SlotCount*4

// ErrCorrupt is returned when the stored image fails the checksum or has the
// wrong size.
var ErrCorrupt = errors.New("device record corrupt")

// Record is the decoded form of the persisted image. Mode and the index
// bytes are stored for layout stability; the runtime ignores them at boot
// and always starts off with zero indices.
type Record struct {
	Mode        uint8
	ColorIndex  uint8
	EffectIndex uint8
	Count       uint8
	Slots       [palette.SlotCount]palette.Entry
}

// Encode serializes the record and stamps the checksum.
func Encode(r Record) []byte {
	buf := make([]byte, RecordSize)
	buf[4] = r.Mode
	buf[5] = r.ColorIndex
	buf[6] = r.EffectIndex
	buf[7] = r.Count

	off := 8
	for _, slot := range r.Slots {
		buf[off] = slot.R
		buf[off+1] = slot.G
		buf[off+2] = slot.B
		buf[off+3] = slot.Brightness
		off += 4
	}

	binary.LittleEndian.PutUint32(buf[0:4], checksum(buf))
	return buf
}

// Decode parses and verifies a record image.
func Decode(data []byte) (Record, error) {
	if len(data) != RecordSize {
		return Record{}, ErrCorrupt
	}
	if binary.LittleEndian.Uint32(data[0:4]) != checksum(data) {
		return Record{}, ErrCorrupt
	}

	r := Record{
		Mode:        data[4],
		ColorIndex:  data[5],
		EffectIndex: data[6],
		Count:       data[7],
	}
	off := 8
	for i := range r.Slots {
		r.Slots[i] = palette.Entry{
			R:          data[off],
			G:          data[off+1],
			B:          data[off+2],
			Brightness: data[off+3],
		}
		off += 4
	}
	return r, nil
}

// checksum covers every byte of the image except the checksum field itself.
func checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data[4:])
}
