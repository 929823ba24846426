// Package psid loads PSID-format C64 SID tune files: the header describing
// load/init/play addresses and song metadata, followed by the raw 6502
// program and data to drop into memory.
package psid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/go6502/cpu"
)

type PSIDHeader struct {
	MagicID     [4]byte
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Speed       uint32
	Name        [32]byte
	Author      [32]byte
	Released    [32]byte
}

func NewPSID() *PSIDHeader {
	return &PSIDHeader{}
}

func (psid *PSIDHeader) String() string {
	return fmt.Sprintf(
		"MagicID:  %s\nVersion:  %X\nDataOffset:  0x%X\nLoadAddress: 0x%X\n"+
			"InitAddress: 0x%X\nPlayAddress: 0x%X\nSongs: %d\nStartsong: %d\n"+
			"Speed: 0x%X\nName: %s\nAuthor: %s\nCopyright: %s\n",
		psid.MagicID, psid.Version, psid.DataOffset, psid.LoadAddress,
		psid.InitAddress, psid.PlayAddress, psid.Songs, psid.StartSong,
		psid.Speed, psid.Name, psid.Author, psid.Released,
	)
}

// LoadHeader parses the fixed-size PSID header from the start of file and
// seeks file to the start of the program data that follows it.
func (psid *PSIDHeader) LoadHeader(file io.ReadSeeker) error {
	if err := binary.Read(file, binary.BigEndian, psid); err != nil {
		return fmt.Errorf("psid: reading header: %w", err)
	}

	if binary.BigEndian.Uint32(psid.MagicID[:]) != 0x50534944 {
		return errors.New("psid: not a valid PSID file")
	}

	if _, err := file.Seek(int64(psid.DataOffset), io.SeekStart); err != nil {
		return fmt.Errorf("psid: seeking to data offset: %w", err)
	}

	if psid.LoadAddress == 0 {
		lo, err := readByte(file)
		if err != nil {
			return fmt.Errorf("psid: reading embedded load address: %w", err)
		}
		hi, err := readByte(file)
		if err != nil {
			return fmt.Errorf("psid: reading embedded load address: %w", err)
		}
		psid.LoadAddress = uint16(lo) | uint16(hi)<<8
	}

	return nil
}

// LoadData copies the tune's program bytes from file, positioned just past
// the header, into cpu's memory starting at LoadAddress.
func (psid *PSIDHeader) LoadData(cpu *cpu.CPU, file io.ReadSeeker) error {
	loadPos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("psid: locating data start: %w", err)
	}
	loadEnd, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("psid: locating data end: %w", err)
	}
	loadSize := uint16(loadEnd) - uint16(loadPos)

	if _, err := file.Seek(loadPos, io.SeekStart); err != nil {
		return fmt.Errorf("psid: rewinding to data start: %w", err)
	}

	if int(loadSize)+int(psid.LoadAddress) >= 0x10000-1 {
		return errors.New("psid: tune data continues past end of C64 memory")
	}

	memPos := psid.LoadAddress

	for {
		b, err := readByte(file)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("psid: reading tune data: %w", err)
		}
		cpu.Mem.StoreByte(memPos, b)
		memPos++
	}

	return nil
}

func readByte(r io.Reader) (byte, error) {
	var res byte
	err := binary.Read(r, binary.LittleEndian, &res)
	return res, err
}
