package srs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// GUIDLength is the length of a client GUID on the wire.
const GUIDLength = 22

const (
	headerLength    = 6
	frequencyLength = 10
	trailerLength   = 4 + 8 + 1 + 2*GUIDLength
	maxPacketLength = math.MaxUint16
)

// Frequency is one frequency a voice packet is transmitted on.
type Frequency struct {
	Freq       float64
	Modulation Modulation
	Encryption uint8
}

// VoicePacket is a single UDP voice datagram.
//
// Layout, little-endian:
//
//	u16 packet length | u16 audio length | u16 frequencies length (bytes)
//	audio | (f64 freq, u8 modulation, u8 encryption)...
//	u32 unit id | u64 packet id | u8 hop count
//	transmission guid (22 bytes) | original guid (22 bytes)
type VoicePacket struct {
	Audio            []byte
	Frequencies      []Frequency
	UnitID           uint32
	PacketID         uint64
	HopCount         uint8
	TransmissionGUID string
	OriginalGUID     string
}

// PacketError reports a voice packet that cannot be encoded or decoded.
type PacketError struct {
	Reason string
	Length int
}

func (e *PacketError) Error() string {
	return fmt.Sprintf("invalid voice packet (%d bytes): %s", e.Length, e.Reason)
}

var _ error = (*PacketError)(nil)

func (p *VoicePacket) MarshalBinary() ([]byte, error) {
	freqLen := len(p.Frequencies) * frequencyLength
	total := headerLength + len(p.Audio) + freqLen + trailerLength
	if total > maxPacketLength {
		return nil, &PacketError{Reason: "packet too large", Length: total}
	}
	if len(p.TransmissionGUID) != GUIDLength || len(p.OriginalGUID) != GUIDLength {
		return nil, &PacketError{Reason: "guid must be 22 bytes", Length: total}
	}

	b := make([]byte, 0, total)
	b = binary.LittleEndian.AppendUint16(b, uint16(total))
	b = binary.LittleEndian.AppendUint16(b, uint16(len(p.Audio)))
	b = binary.LittleEndian.AppendUint16(b, uint16(freqLen))
	b = append(b, p.Audio...)
	for _, f := range p.Frequencies {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f.Freq))
		b = append(b, byte(f.Modulation), f.Encryption)
	}
	b = binary.LittleEndian.AppendUint32(b, p.UnitID)
	b = binary.LittleEndian.AppendUint64(b, p.PacketID)
	b = append(b, p.HopCount)
	b = append(b, p.TransmissionGUID...)
	b = append(b, p.OriginalGUID...)
	return b, nil
}

// UnmarshalBinary decodes b into p. The audio is copied, so b may be reused.
func (p *VoicePacket) UnmarshalBinary(b []byte) error {
	if len(b) < headerLength+trailerLength {
		return &PacketError{Reason: "shorter than header", Length: len(b)}
	}

	total := int(binary.LittleEndian.Uint16(b[0:2]))
	audioLen := int(binary.LittleEndian.Uint16(b[2:4]))
	freqLen := int(binary.LittleEndian.Uint16(b[4:6]))

	if total != len(b) {
		return &PacketError{Reason: fmt.Sprintf("length field says %d", total), Length: len(b)}
	}
	if freqLen%frequencyLength != 0 {
		return &PacketError{Reason: "frequency section is not a whole number of entries", Length: len(b)}
	}
	if headerLength+audioLen+freqLen+trailerLength != total {
		return &PacketError{Reason: "section lengths do not add up", Length: len(b)}
	}

	rest := b[headerLength:]
	p.Audio = bytes.Clone(rest[:audioLen])
	rest = rest[audioLen:]

	p.Frequencies = make([]Frequency, 0, freqLen/frequencyLength)
	for range freqLen / frequencyLength {
		p.Frequencies = append(p.Frequencies, Frequency{
			Freq:       math.Float64frombits(binary.LittleEndian.Uint64(rest[0:8])),
			Modulation: Modulation(rest[8]),
			Encryption: rest[9],
		})
		rest = rest[frequencyLength:]
	}

	p.UnitID = binary.LittleEndian.Uint32(rest[0:4])
	p.PacketID = binary.LittleEndian.Uint64(rest[4:12])
	p.HopCount = rest[12]
	p.TransmissionGUID = string(rest[13 : 13+GUIDLength])
	p.OriginalGUID = string(rest[13+GUIDLength : 13+2*GUIDLength])
	return nil
}
