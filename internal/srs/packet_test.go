package srs_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/glizzus/radio-station/internal/srs"
	"github.com/google/go-cmp/cmp"
)

const (
	testGUID  = "AAAAAAAAAAAAAAAAAAAAAA"
	otherGUID = "BBBBBBBBBBBBBBBBBBBBBB"
)

func TestVoicePacketRoundTrip(t *testing.T) {
	want := srs.VoicePacket{
		Audio: []byte{0xfc, 0xff, 0xfe, 0x01},
		Frequencies: []srs.Frequency{
			{Freq: 251000000, Modulation: srs.ModulationAM},
			{Freq: 30000000, Modulation: srs.ModulationFM, Encryption: 3},
		},
		UnitID:           100000001,
		PacketID:         42,
		HopCount:         1,
		TransmissionGUID: testGUID,
		OriginalGUID:     otherGUID,
	}

	b, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary returned error: %v", err)
	}
	if len(b) != 6+4+20+57 {
		t.Errorf("encoded length = %d; want %d", len(b), 6+4+20+57)
	}

	var got srs.VoicePacket
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary returned error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("packet mismatch (-want +got):\n%s", diff)
	}
}

func TestVoicePacketLayout(t *testing.T) {
	pkt := srs.VoicePacket{
		Audio:            []byte("ab"),
		Frequencies:      []srs.Frequency{{Freq: 1, Modulation: srs.ModulationFM, Encryption: 7}},
		UnitID:           0x01020304,
		PacketID:         5,
		TransmissionGUID: testGUID,
		OriginalGUID:     otherGUID,
	}
	b, err := pkt.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary returned error: %v", err)
	}

	want := []byte{
		75, 0, // total
		2, 0, // audio
		10, 0, // frequencies
		'a', 'b',
		0, 0, 0, 0, 0, 0, 0xf0, 0x3f, 1, 7, // 1.0, FM, encryption
		4, 3, 2, 1, // unit id
		5, 0, 0, 0, 0, 0, 0, 0, // packet id
		0, // hop count
	}
	want = append(want, testGUID...)
	want = append(want, otherGUID...)

	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestVoicePacketMarshalErrors(t *testing.T) {
	tc := []struct {
		name string
		pkt  srs.VoicePacket
	}{
		{
			name: "short guid",
			pkt:  srs.VoicePacket{TransmissionGUID: "short", OriginalGUID: otherGUID},
		},
		{
			name: "too large",
			pkt: srs.VoicePacket{
				Audio:            make([]byte, 70000),
				TransmissionGUID: testGUID,
				OriginalGUID:     testGUID,
			},
		},
	}

	for _, test := range tc {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.pkt.MarshalBinary()
			var pktErr *srs.PacketError
			if !errors.As(err, &pktErr) {
				t.Errorf("MarshalBinary error = %v; want *srs.PacketError", err)
			}
		})
	}
}

func TestVoicePacketUnmarshalErrors(t *testing.T) {
	valid, err := (&srs.VoicePacket{
		Audio:            []byte("frame"),
		Frequencies:      []srs.Frequency{{Freq: 251000000}},
		TransmissionGUID: testGUID,
		OriginalGUID:     testGUID,
	}).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary returned error: %v", err)
	}

	corrupt := func(i int, v byte) []byte {
		b := append([]byte(nil), valid...)
		b[i] = v
		return b
	}

	tc := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "guid ping", input: []byte(testGUID)},
		{name: "truncated", input: valid[:len(valid)-1]},
		{name: "wrong total", input: corrupt(0, valid[0]+1)},
		{name: "wrong audio length", input: corrupt(2, 9)},
		{name: "partial frequency", input: corrupt(4, 9)},
		{name: "padding", input: append(append([]byte(nil), valid...), strings.Repeat("x", 3)...)},
	}

	for _, test := range tc {
		t.Run(test.name, func(t *testing.T) {
			var pkt srs.VoicePacket
			err := pkt.UnmarshalBinary(test.input)
			var pktErr *srs.PacketError
			if !errors.As(err, &pktErr) {
				t.Errorf("UnmarshalBinary error = %v; want *srs.PacketError", err)
			}
		})
	}
}
