// Package subunit implements the subunit v2 binary test-result protocol.
// One packet encodes one test-status transition; the framing is bit-exact
// with the reference implementation so that existing stream filters and
// CI aggregators can validate the checksum.
package subunit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"time"
)

// Signature is the first byte of every subunit v2 packet.
const Signature byte = 0xb3

// Packet statuses defined by the protocol. Only a subset is produced by
// this tool, but all codes are accepted for completeness.
const (
	StatusExists     = "exists"
	StatusInProgress = "inprogress"
	StatusSuccess    = "success"
	StatusUxSuccess  = "uxsuccess"
	StatusSkip       = "skip"
	StatusFail       = "fail"
	StatusXFail      = "xfail"
)

// statusCodes maps a status to its 3-bit wire code (low bits of the flag
// field). Zero is "undefined" and is used when no status is set.
var statusCodes = map[string]uint16{
	"":               0x0,
	StatusExists:     0x1,
	StatusInProgress: 0x2,
	StatusSuccess:    0x3,
	StatusUxSuccess:  0x4,
	StatusSkip:       0x5,
	StatusFail:       0x6,
	StatusXFail:      0x7,
}

// Flag bits of the 16-bit big-endian flag field. The high nibble carries
// the protocol version (2).
const (
	flagVersion2    uint16 = 0x2000
	flagTestID      uint16 = 0x0800
	flagRouteCode   uint16 = 0x0400
	flagTimestamp   uint16 = 0x0200
	flagTags        uint16 = 0x0080
	flagMimeType    uint16 = 0x0040
	flagFileContent uint16 = 0x0010
)

// maxPacketLength is the protocol's hard cap on total packet size. The
// length field is at most 3 bytes, so a packet can never exceed 4MiB-1.
const maxPacketLength = 1<<22 - 1

// Packet is one self-contained unit of the subunit v2 stream. Optional
// fields are considered absent when left at their zero value. FileName,
// FileContent and MimeType describe a single attachment and must be set
// together or not at all.
type Packet struct {
	Status      string
	TestID      string
	Timestamp   time.Time
	FileName    string
	FileContent []byte
	MimeType    string
	RouteCode   string
	Tags        []string
}

// Write serializes the packet in canonical wire form:
// signature, flags, total length, present fields in field order
// (timestamp, test id, tags, mime type, file content, route code) and a
// trailing CRC32 over everything before it.
func (p *Packet) Write(w io.Writer) error {
	status, ok := statusCodes[p.Status]
	if !ok {
		return fmt.Errorf("unknown packet status %q", p.Status)
	}
	hasAttachment := p.FileName != "" || len(p.FileContent) > 0 || p.MimeType != ""
	if hasAttachment && (p.FileName == "" || len(p.FileContent) == 0 || p.MimeType == "") {
		return fmt.Errorf("attachment fields must be set together (file name %q, %d content bytes, mime type %q)",
			p.FileName, len(p.FileContent), p.MimeType)
	}

	flags := flagVersion2 | status
	var payload bytes.Buffer

	if !p.Timestamp.IsZero() {
		flags |= flagTimestamp
		var secs [4]byte
		binary.BigEndian.PutUint32(secs[:], uint32(p.Timestamp.Unix()))
		payload.Write(secs[:])
		if err := writeNumber(&payload, uint32(p.Timestamp.Nanosecond())); err != nil {
			return err
		}
	}
	if p.TestID != "" {
		flags |= flagTestID
		if err := writeString(&payload, p.TestID); err != nil {
			return err
		}
	}
	if len(p.Tags) > 0 {
		flags |= flagTags
		if err := writeNumber(&payload, uint32(len(p.Tags))); err != nil {
			return err
		}
		for _, tag := range p.Tags {
			if err := writeString(&payload, tag); err != nil {
				return err
			}
		}
	}
	if p.MimeType != "" {
		flags |= flagMimeType
		if err := writeString(&payload, p.MimeType); err != nil {
			return err
		}
	}
	if hasAttachment {
		flags |= flagFileContent
		if err := writeString(&payload, p.FileName); err != nil {
			return err
		}
		if err := writeNumber(&payload, uint32(len(p.FileContent))); err != nil {
			return err
		}
		payload.Write(p.FileContent)
	}
	if p.RouteCode != "" {
		flags |= flagRouteCode
		if err := writeString(&payload, p.RouteCode); err != nil {
			return err
		}
	}

	// The length field counts the whole packet including itself and the
	// CRC, so its own width depends on the value it encodes.
	base := 1 + 2 + payload.Len() + 4
	var lengthWidth int
	switch {
	case base+1 < 1<<6:
		lengthWidth = 1
	case base+2 < 1<<14:
		lengthWidth = 2
	case base+3 <= maxPacketLength:
		lengthWidth = 3
	default:
		return fmt.Errorf("packet length %d exceeds protocol maximum %d", base+3, maxPacketLength)
	}

	packet := bytes.NewBuffer(make([]byte, 0, base+lengthWidth))
	packet.WriteByte(Signature)
	var flagBytes [2]byte
	binary.BigEndian.PutUint16(flagBytes[:], flags)
	packet.Write(flagBytes[:])
	if err := writeNumber(packet, uint32(base+lengthWidth)); err != nil {
		return err
	}
	packet.Write(payload.Bytes())

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(packet.Bytes()))
	packet.Write(crc[:])

	_, err := w.Write(packet.Bytes())
	return err
}

// writeNumber encodes v as a subunit variable-length number: big-endian
// with a 2-bit width prefix, 1/2/3/4 bytes for values below
// 2^6/2^14/2^22/2^30.
func writeNumber(b *bytes.Buffer, v uint32) error {
	switch {
	case v < 1<<6:
		b.WriteByte(byte(v))
	case v < 1<<14:
		b.WriteByte(byte(v>>8) | 0x40)
		b.WriteByte(byte(v))
	case v < 1<<22:
		b.WriteByte(byte(v>>16) | 0x80)
		b.WriteByte(byte(v >> 8))
		b.WriteByte(byte(v))
	case v < 1<<30:
		b.WriteByte(byte(v>>24) | 0xc0)
		b.WriteByte(byte(v >> 16))
		b.WriteByte(byte(v >> 8))
		b.WriteByte(byte(v))
	default:
		return fmt.Errorf("number %d out of range for variable-length encoding", v)
	}
	return nil
}

// writeString encodes s as a length-prefixed UTF-8 string.
func writeString(b *bytes.Buffer, s string) error {
	if err := writeNumber(b, uint32(len(s))); err != nil {
		return err
	}
	b.WriteString(s)
	return nil
}
