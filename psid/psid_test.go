package psid_test

import (
	"bytes"
	"testing"

	"github.com/beachviking/resid-core/psid"
	"github.com/beevik/go6502/cpu"
)

// flatMemory is a minimal cpu.Memory implementation for exercising
// PSIDHeader.LoadData without pulling in the cmd/sidplay memory type.
type flatMemory struct {
	b [64 * 1024]byte
}

func (m *flatMemory) LoadByte(addr uint16) byte { return m.b[addr] }

func (m *flatMemory) LoadBytes(addr uint16, b []byte) { copy(b, m.b[addr:]) }

func (m *flatMemory) LoadAddress(addr uint16) uint16 {
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

func (m *flatMemory) StoreByte(addr uint16, v byte) { m.b[addr] = v }

func (m *flatMemory) StoreBytes(addr uint16, b []byte) { copy(m.b[addr:], b) }

func (m *flatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v)
	m.b[addr+1] = byte(v >> 8)
}

func buildPSID(loadAddr, initAddr, playAddr uint16, songs, start uint16, data []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("PSID")
	writeU16(buf, 2)            // version
	writeU16(buf, 0x7c)         // data offset (v2 header size)
	writeU16(buf, loadAddr)     // load address
	writeU16(buf, initAddr)     // init address
	writeU16(buf, playAddr)     // play address
	writeU16(buf, songs)        // songs
	writeU16(buf, start)        // start song
	writeU32(buf, 0)            // speed
	buf.Write(make([]byte, 32)) // name
	buf.Write(make([]byte, 32)) // author
	buf.Write(make([]byte, 32)) // released
	buf.Write(make([]byte, 0x7c-binHeaderLen))
	buf.Write(data)
	return buf.Bytes()
}

const binHeaderLen = 4 + 2 + 2 + 2 + 2 + 2 + 2 + 2 + 4 + 32 + 32 + 32

func writeU16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func writeU32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func TestLoadHeaderRejectsBadMagic(t *testing.T) {
	// Long enough for the whole fixed-size header, so the error comes from
	// the magic ID check rather than a short read.
	bad := bytes.NewReader(append([]byte("NOPE"), make([]byte, 0x7c)...))
	h := psid.NewPSID()
	if err := h.LoadHeader(bad); err == nil {
		t.Fatal("expected error for invalid magic ID")
	}
}

func TestLoadHeaderAndData(t *testing.T) {
	data := []byte{0xa9, 0x00, 0x60} // LDA #$00 ; RTS
	raw := buildPSID(0xc000, 0xc000, 0xc003, 1, 1, data)

	r := bytes.NewReader(raw)
	h := psid.NewPSID()
	if err := h.LoadHeader(r); err != nil {
		t.Fatalf("LoadHeader: %v", err)
	}

	if h.LoadAddress != 0xc000 {
		t.Errorf("LoadAddress = %#x, want %#x", h.LoadAddress, 0xc000)
	}
	if h.Songs != 1 || h.StartSong != 1 {
		t.Errorf("Songs/StartSong = %d/%d, want 1/1", h.Songs, h.StartSong)
	}

	mem := &flatMemory{}
	c := cpu.NewCPU(cpu.NMOS, mem)
	if err := h.LoadData(c, r); err != nil {
		t.Fatalf("LoadData: %v", err)
	}

	for i, want := range data {
		if got := mem.LoadByte(h.LoadAddress + uint16(i)); got != want {
			t.Errorf("mem[%#x] = %#x, want %#x", h.LoadAddress+uint16(i), got, want)
		}
	}
}
