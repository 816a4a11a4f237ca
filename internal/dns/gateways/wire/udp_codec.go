// Package wire provides encoding and decoding of DNS messages for UDP
// transport, per the RFC 1035 wire format.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/nvale/rr-cache/internal/dns/common/log"
	"github.com/nvale/rr-cache/internal/dns/domain"
)

// udpCodec implements DNSCodec for standard DNS over UDP messages.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec creates a codec for standard UDP DNS messages.
func NewUDPCodec(logger log.Logger) *udpCodec {
	return &udpCodec{logger: logger}
}

// EncodeQuery serializes a Question into a standard recursive query.
func (c *udpCodec) EncodeQuery(q domain.Question) ([]byte, error) {
	var buf bytes.Buffer

	// Header
	_ = binary.Write(&buf, binary.BigEndian, q.ID)
	_ = binary.Write(&buf, binary.BigEndian, uint16(0x0100)) // Flags: standard query, RD=1
	_ = binary.Write(&buf, binary.BigEndian, uint16(1))      // QDCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // ANCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // NSCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // ARCOUNT

	// Question
	name, err := encodeDomainName(q.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	_ = binary.Write(&buf, binary.BigEndian, uint16(q.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(q.Class))

	return buf.Bytes(), nil
}

// DecodeQuery parses a DNS query message from data.
func (c *udpCodec) DecodeQuery(data []byte) (domain.Question, error) {
	if len(data) < 12 {
		return domain.Question{}, errors.New("query too short")
	}
	id := binary.BigEndian.Uint16(data[0:2])
	qdCount := binary.BigEndian.Uint16(data[4:6])
	if qdCount != 1 {
		return domain.Question{}, errors.New("expected exactly one question")
	}

	name, offset, err := decodeName(data, 12)
	if err != nil {
		return domain.Question{}, err
	}
	if offset+4 > len(data) {
		return domain.Question{}, errors.New("truncated question")
	}
	qtype := binary.BigEndian.Uint16(data[offset : offset+2])
	qclass := binary.BigEndian.Uint16(data[offset+2 : offset+4])

	return domain.Question{
		ID:    id,
		Name:  name,
		Type:  domain.RRType(qtype),
		Class: domain.RRClass(qclass),
	}, nil
}

// EncodeResponse serializes a DNSResponse answering the given question.
// The question section is echoed back and answer names matching the QNAME
// are compressed with a pointer to it.
func (c *udpCodec) EncodeResponse(q domain.Question, resp domain.DNSResponse) ([]byte, error) {
	var buf bytes.Buffer

	answerCount := len(resp.Answers)
	if answerCount > 65535 {
		return nil, fmt.Errorf("too many answer records: %d (max 65535)", answerCount)
	}

	flags := uint16(0x8180) | uint16(resp.RCode) // QR=1, RD=1, RA=1
	_ = binary.Write(&buf, binary.BigEndian, resp.ID)
	_ = binary.Write(&buf, binary.BigEndian, flags)
	_ = binary.Write(&buf, binary.BigEndian, uint16(1)) // QDCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(answerCount))
	_ = binary.Write(&buf, binary.BigEndian, uint16(0)) // NSCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0)) // ARCOUNT

	// Question echo
	qname, err := encodeDomainName(q.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(qname)
	_ = binary.Write(&buf, binary.BigEndian, uint16(q.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(q.Class))
	const qnameOffset = 12 // QNAME always starts right after the 12-byte header

	canonicalQName := strings.ToLower(strings.TrimSuffix(q.Name, "."))
	for _, rr := range resp.Answers {
		if strings.ToLower(strings.TrimSuffix(rr.Name, ".")) == canonicalQName {
			// compression pointer back to the QNAME we just wrote
			buf.Write([]byte{0xC0 | byte(qnameOffset>>8), byte(qnameOffset & 0xFF)})
		} else {
			name, err := encodeDomainName(rr.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
		}
		_ = binary.Write(&buf, binary.BigEndian, uint16(rr.Type))
		_ = binary.Write(&buf, binary.BigEndian, uint16(rr.Class))
		_ = binary.Write(&buf, binary.BigEndian, rr.TTL)

		dataLen := len(rr.Data)
		if dataLen > 65535 {
			return nil, fmt.Errorf("resource record data too large: %d bytes (max 65535)", dataLen)
		}
		_ = binary.Write(&buf, binary.BigEndian, uint16(dataLen))
		buf.Write(rr.Data)
	}

	c.logger.Debug(map[string]any{
		"id":      resp.ID,
		"rcode":   resp.RCode.String(),
		"answers": answerCount,
		"size":    buf.Len(),
	}, "Encoded DNS response")

	return buf.Bytes(), nil
}

// DecodeResponse parses a raw DNS response into a DNSResponse, validating
// the message ID and keeping record TTLs exactly as received.
func (c *udpCodec) DecodeResponse(data []byte, expectedID uint16) (domain.DNSResponse, error) {
	if len(data) < 12 {
		return domain.DNSResponse{}, errors.New("response too short")
	}
	id := binary.BigEndian.Uint16(data[0:2])
	if id != expectedID {
		return domain.DNSResponse{}, fmt.Errorf("ID mismatch: expected %d, got %d", expectedID, id)
	}

	flags := binary.BigEndian.Uint16(data[2:4])
	rcode := domain.RCode(flags & 0x000F)

	qdCount := binary.BigEndian.Uint16(data[4:6])
	anCount := binary.BigEndian.Uint16(data[6:8])
	nsCount := binary.BigEndian.Uint16(data[8:10])
	arCount := binary.BigEndian.Uint16(data[10:12])

	offset := 12
	for i := 0; i < int(qdCount); i++ {
		_, newOffset, err := decodeName(data, offset)
		if err != nil {
			return domain.DNSResponse{}, fmt.Errorf("bad question name: %w", err)
		}
		offset = newOffset + 4 // QTYPE + QCLASS
	}

	answers, offset, err := c.parseSection(data, offset, int(anCount))
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("answer section: %w", err)
	}
	authority, offset, err := c.parseSection(data, offset, int(nsCount))
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("authority section: %w", err)
	}
	additional, _, err := c.parseSection(data, offset, int(arCount))
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("additional section: %w", err)
	}

	return domain.DNSResponse{
		ID:         id,
		RCode:      rcode,
		Answers:    answers,
		Authority:  authority,
		Additional: additional,
	}, nil
}

// parseSection extracts count resource records starting at offset.
func (c *udpCodec) parseSection(data []byte, offset, count int) ([]domain.ResourceRecord, int, error) {
	var records []domain.ResourceRecord
	for i := 0; i < count; i++ {
		rr, newOffset, err := parseResourceRecord(data, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rr)
		offset = newOffset
	}
	return records, offset, nil
}

// parseResourceRecord extracts a single resource record from response data.
func parseResourceRecord(data []byte, offset int) (domain.ResourceRecord, int, error) {
	name, newOffset, err := decodeName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("failed to decode record name: %w", err)
	}
	offset = newOffset

	if offset+10 > len(data) {
		return domain.ResourceRecord{}, 0, errors.New("truncated record header")
	}
	typ := binary.BigEndian.Uint16(data[offset : offset+2])
	class := binary.BigEndian.Uint16(data[offset+2 : offset+4])
	ttl := binary.BigEndian.Uint32(data[offset+4 : offset+8])
	rdLen := int(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
	offset += 10

	if offset+rdLen > len(data) {
		return domain.ResourceRecord{}, 0, errors.New("truncated rdata")
	}
	rdata := make([]byte, rdLen)
	copy(rdata, data[offset:offset+rdLen])
	offset += rdLen

	rr, err := domain.NewResourceRecord(name, domain.RRType(typ), domain.RRClass(class), ttl, rdata)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("invalid resource record: %w", err)
	}
	return rr, offset, nil
}

// decodeName decodes a domain name from a DNS message at the given offset,
// handling label compression as defined in RFC 1035 §4.1.4.
func decodeName(data []byte, offset int) (string, int, error) {
	var labels []string
	for {
		if offset >= len(data) {
			return "", 0, errors.New("offset out of bounds")
		}
		length := int(data[offset])
		if length == 0 {
			offset++
			break
		}
		if length&0xC0 == 0xC0 {
			if offset+1 >= len(data) {
				return "", 0, errors.New("compression pointer out of bounds")
			}
			ptr := int(binary.BigEndian.Uint16(data[offset:offset+2]) & 0x3FFF)
			if ptr >= offset {
				return "", 0, errors.New("forward compression pointer")
			}
			suffix, _, err := decodeName(data, ptr)
			if err != nil {
				return "", 0, err
			}
			labels = append(labels, suffix)
			offset += 2
			return strings.Join(labels, "."), offset, nil
		}
		offset++
		if offset+length > len(data) {
			return "", 0, errors.New("label length out of bounds")
		}
		labels = append(labels, string(data[offset:offset+length]))
		offset += length
	}
	return strings.Join(labels, "."), offset, nil
}

// encodeDomainName encodes a domain name into DNS wire format without compression.
func encodeDomainName(name string) ([]byte, error) {
	var buf bytes.Buffer
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		buf.WriteByte(0)
		return buf.Bytes(), nil
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		if len(label) > 0 {
			buf.WriteByte(byte(len(label)))
			buf.WriteString(label)
		}
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

var _ DNSCodec = (*udpCodec)(nil)
