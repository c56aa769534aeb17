package smpp34

import (
	"bytes"
	"fmt"
	"io"
)

// PDU is a mutable SMPP command value: the command header plus its
// mandatory parameters and any TLVs, stored by name against the
// schema registered for the header's command id (spec.md §9's
// "map of named values" option).
type PDU struct {
	Header Header

	fields       map[string]interface{} // string (c_octet_string/octet_string) or uint64 (integer)
	tlvs         map[string][]byte      // by declared TLV name
	extras       []rawTLV               // unrecognized incoming TLVs, preserved but unnamed
	destinations []DestAddress          // SUBMIT_MULTI dest_address list
}

type rawTLV struct {
	Tag   uint16
	Value []byte
}

// Destination flag values for a SUBMIT_MULTI dest_address entry
// (SMPP 3.4 §4.5.1).
const (
	DestFlagSMEAddress       uint8 = 0x01
	DestFlagDistributionList uint8 = 0x02
)

// DestAddress is one entry of a SUBMIT_MULTI destination list: either
// an SME address (Flag == DestFlagSMEAddress) or a distribution list
// name (Flag == DestFlagDistributionList).
type DestAddress struct {
	Flag            uint8
	DestAddrTon     uint8
	DestAddrNpi     uint8
	DestinationAddr string
	DLName          string
}

// NewPDU constructs an empty PDU for commandID with the given status
// and sequence number. Mandatory fields default to their zero value
// (empty string / 0) until set.
func NewPDU(commandID, status, sequenceNumber uint32) (*PDU, error) {
	if _, ok := lookupSchema(commandID); !ok {
		return nil, &EncodingError{Param: "command_id", Reason: fmt.Sprintf("unregistered command id 0x%08x", commandID)}
	}
	return &PDU{
		Header: Header{ID: commandID, Status: status, SequenceNumber: sequenceNumber},
		fields: map[string]interface{}{},
		tlvs:   map[string][]byte{},
	}, nil
}

// CommandID returns the PDU's command id.
func (p *PDU) CommandID() uint32 { return p.Header.ID }

// SetString sets a c_octet_string or octet_string mandatory field.
func (p *PDU) SetString(name, value string) { p.fields[name] = value }

// SetUint sets an integer mandatory field.
func (p *PDU) SetUint(name string, value uint64) { p.fields[name] = value }

// SetBytes sets an octet_string mandatory field from raw bytes.
func (p *PDU) SetBytes(name string, value []byte) { p.fields[name] = string(value) }

// GetString returns a c_octet_string / octet_string field's value.
func (p *PDU) GetString(name string) string {
	if v, ok := p.fields[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetBytes returns an octet_string field's value as raw bytes.
func (p *PDU) GetBytes(name string) []byte { return []byte(p.GetString(name)) }

// GetUint returns an integer field's value.
func (p *PDU) GetUint(name string) uint64 {
	if v, ok := p.fields[name]; ok {
		if n, ok := v.(uint64); ok {
			return n
		}
	}
	return 0
}

// SetDestinations sets the SUBMIT_MULTI destination list. The sibling
// number_of_dests field is derived from its length at Encode time.
func (p *PDU) SetDestinations(dests []DestAddress) { p.destinations = dests }

// GetDestinations returns the SUBMIT_MULTI destination list set on
// encode, or decoded from the wire.
func (p *PDU) GetDestinations() []DestAddress { return p.destinations }

// SetTLVBytes sets a recognized TLV by name. Returns an
// *EncodingError if name is not a TLV registered for this PDU's
// command id.
func (p *PDU) SetTLVBytes(name string, value []byte) error {
	s, _ := lookupSchema(p.Header.ID)
	if s == nil {
		return &EncodingError{Param: name, Reason: "command has no schema"}
	}
	if _, ok := s.tlvByName[name]; !ok {
		return &EncodingError{Param: name, Reason: "not a recognized TLV for this command"}
	}
	p.tlvs[name] = value
	return nil
}

// SetTLVUint sets a recognized integer-valued TLV by name.
func (p *PDU) SetTLVUint(name string, value uint64) error {
	s, _ := lookupSchema(p.Header.ID)
	if s == nil {
		return &EncodingError{Param: name, Reason: "command has no schema"}
	}
	decl, ok := s.tlvByName[name]
	if !ok || decl.Kind != ParamInteger {
		return &EncodingError{Param: name, Reason: "not a recognized integer TLV for this command"}
	}
	b, err := encodeInteger(value, decl.Size)
	if err != nil {
		return &EncodingError{Param: name, Reason: err.Error()}
	}
	p.tlvs[name] = b
	return nil
}

// GetTLVBytes returns a named TLV's raw value and whether it was set
// (on encode) or present in the decoded frame.
func (p *PDU) GetTLVBytes(name string) ([]byte, bool) {
	v, ok := p.tlvs[name]
	return v, ok
}

// GetTLVUint returns a named integer TLV's value.
func (p *PDU) GetTLVUint(name string) (uint64, bool) {
	v, ok := p.tlvs[name]
	if !ok {
		return 0, false
	}
	return decodeInteger(v), true
}

// ExtraTLVCount returns the number of unrecognized TLVs carried by a
// decoded PDU (tags not in the registry for this command id).
func (p *PDU) ExtraTLVCount() int { return len(p.extras) }

// Encode serializes the PDU to its full wire frame, header included.
func (p *PDU) Encode() ([]byte, error) {
	s, ok := lookupSchema(p.Header.ID)
	if !ok {
		return nil, &EncodingError{Param: "command_id", Reason: "unregistered command id"}
	}

	// A ParamOctetStringLen/ParamDestAddressList field's sibling count
	// field is declared earlier in s.Mandatory and so is serialized
	// before this field's own turn comes; resolve every such count up
	// front so the integer field sees the real value instead of
	// whatever was last passed to SetUint (typically nothing, i.e. 0).
	for _, decl := range s.Mandatory {
		switch decl.Kind {
		case ParamOctetStringLen:
			p.fields[decl.LenField] = uint64(len(p.GetBytes(decl.Name)))
		case ParamDestAddressList:
			p.fields[decl.LenField] = uint64(len(p.destinations))
		}
	}

	var body bytes.Buffer
	for _, decl := range s.Mandatory {
		if decl.CondOn != "" && p.GetUint(decl.CondOn) == 0 {
			continue
		}
		switch decl.Kind {
		case ParamCOctetString:
			v := p.GetString(decl.Name)
			if len(v)+1 > decl.Size {
				return nil, &EncodingError{Param: decl.Name, Reason: fmt.Sprintf("exceeds max length %d including NUL terminator", decl.Size)}
			}
			body.WriteString(v)
			body.WriteByte(0x00)
		case ParamOctetStringFixed:
			v := p.GetBytes(decl.Name)
			if len(v) != decl.Size {
				return nil, &EncodingError{Param: decl.Name, Reason: fmt.Sprintf("must be exactly %d bytes, got %d", decl.Size, len(v))}
			}
			body.Write(v)
		case ParamOctetStringLen:
			body.Write(p.GetBytes(decl.Name))
		case ParamInteger:
			b, err := encodeInteger(p.GetUint(decl.Name), decl.Size)
			if err != nil {
				return nil, &EncodingError{Param: decl.Name, Reason: err.Error()}
			}
			body.Write(b)
		case ParamDestAddressList:
			for i, d := range p.destinations {
				if err := writeDestAddress(&body, d); err != nil {
					return nil, &EncodingError{Param: fmt.Sprintf("%s[%d]", decl.Name, i), Reason: err.Error()}
				}
			}
		}
	}

	for name, value := range p.tlvs {
		decl := s.tlvByName[name]
		if decl == nil {
			return nil, &EncodingError{Param: name, Reason: "not a recognized TLV for this command"}
		}
		if decl.Kind == ParamOctetStringFixed && decl.Size > 0 && len(value) != decl.Size {
			// fixed-size octet TLVs must match declared size exactly
			return nil, &EncodingError{Param: name, Reason: fmt.Sprintf("must be exactly %d bytes, got %d", decl.Size, len(value))}
		}
		if decl.Kind == ParamCOctetString && len(value) > decl.Size {
			return nil, &EncodingError{Param: name, Reason: fmt.Sprintf("exceeds max length %d including NUL terminator", decl.Size)}
		}
		body.Write(packUi16(decl.Tag))
		body.Write(packUi16(uint16(len(value))))
		body.Write(value)
	}

	total := HeaderLen + body.Len()
	p.Header.Length = uint32(total)
	out := p.Header.Bytes()
	out = append(out, body.Bytes()...)
	return out, nil
}

// Decode parses a complete frame (header + body) into a PDU.
func Decode(data []byte) (*PDU, error) {
	if len(data) < HeaderLen {
		return nil, &CommandError{Err: fmt.Errorf("frame shorter than header (%d bytes)", len(data))}
	}
	h := ParseHeader(data)
	if int(h.Length) != len(data) {
		return nil, &CommandError{CommandID: h.ID, SequenceNumber: h.SequenceNumber, Err: fmt.Errorf("command_length %d does not match frame size %d", h.Length, len(data))}
	}
	s, ok := lookupSchema(h.ID)
	if !ok {
		return nil, &CommandError{CommandID: h.ID, SequenceNumber: h.SequenceNumber, Err: fmt.Errorf("unknown command id 0x%08x", h.ID)}
	}

	p := &PDU{Header: h, fields: map[string]interface{}{}, tlvs: map[string][]byte{}}
	r := bytes.NewBuffer(data[HeaderLen:])

	for _, decl := range s.Mandatory {
		if decl.CondOn != "" && p.GetUint(decl.CondOn) == 0 {
			continue
		}
		switch decl.Kind {
		case ParamCOctetString:
			raw, err := r.ReadBytes(0x00)
			if err != nil {
				return nil, decodeErr(h, decl.Name, "premature end of body reading c_octet_string")
			}
			if len(raw) > decl.Size {
				return nil, decodeErr(h, decl.Name, fmt.Sprintf("exceeds max length %d including NUL terminator", decl.Size))
			}
			p.fields[decl.Name] = string(raw[:len(raw)-1])
		case ParamOctetStringFixed:
			buf := make([]byte, decl.Size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, decodeErr(h, decl.Name, "premature end of body reading fixed octet_string")
			}
			p.fields[decl.Name] = string(buf)
		case ParamOctetStringLen:
			n := p.GetUint(decl.LenField)
			buf := make([]byte, n)
			if n > 0 {
				if _, err := io.ReadFull(r, buf); err != nil {
					return nil, decodeErr(h, decl.Name, "premature end of body reading length-delimited octet_string")
				}
			}
			p.fields[decl.Name] = string(buf)
		case ParamInteger:
			buf := make([]byte, decl.Size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, decodeErr(h, decl.Name, "premature end of body reading integer")
			}
			p.fields[decl.Name] = decodeInteger(buf)
		case ParamDestAddressList:
			n := p.GetUint(decl.LenField)
			dests := make([]DestAddress, 0, n)
			for i := uint64(0); i < n; i++ {
				d, err := readDestAddress(r)
				if err != nil {
					return nil, decodeErr(h, fmt.Sprintf("%s[%d]", decl.Name, i), err.Error())
				}
				dests = append(dests, d)
			}
			p.destinations = dests
		}
	}

	for r.Len() > 0 {
		if r.Len() < 4 {
			return nil, decodeErr(h, "tlv", "truncated TLV header")
		}
		tagLen := make([]byte, 4)
		io.ReadFull(r, tagLen)
		tag := unpackUi16(tagLen[0:2])
		l := unpackUi16(tagLen[2:4])
		val := make([]byte, l)
		if _, err := io.ReadFull(r, val); err != nil {
			return nil, decodeErr(h, "tlv", fmt.Sprintf("tag 0x%04x declares length %d past end of body", tag, l))
		}
		if decl, ok := s.tlvByTag[tag]; ok {
			p.tlvs[decl.Name] = val
		} else {
			p.extras = append(p.extras, rawTLV{Tag: tag, Value: val})
		}
	}

	return p, nil
}

func decodeErr(h Header, param, reason string) error {
	return &CommandError{CommandID: h.ID, SequenceNumber: h.SequenceNumber, Err: fmt.Errorf("%s: %s", param, reason)}
}

// destAddrMaxLen is the max length, including NUL terminator, of a
// SUBMIT_MULTI dest_address entry's destination_addr or dl_name
// (SMPP 3.4 §4.5.1).
const destAddrMaxLen = 21

func writeDestAddress(body *bytes.Buffer, d DestAddress) error {
	body.WriteByte(d.Flag)
	switch d.Flag {
	case DestFlagSMEAddress:
		body.WriteByte(d.DestAddrTon)
		body.WriteByte(d.DestAddrNpi)
		if len(d.DestinationAddr)+1 > destAddrMaxLen {
			return fmt.Errorf("destination_addr exceeds max length %d including NUL terminator", destAddrMaxLen)
		}
		body.WriteString(d.DestinationAddr)
		body.WriteByte(0x00)
	case DestFlagDistributionList:
		if len(d.DLName)+1 > destAddrMaxLen {
			return fmt.Errorf("dl_name exceeds max length %d including NUL terminator", destAddrMaxLen)
		}
		body.WriteString(d.DLName)
		body.WriteByte(0x00)
	default:
		return fmt.Errorf("unknown dest_flag 0x%02x", d.Flag)
	}
	return nil
}

func readDestAddress(r *bytes.Buffer) (DestAddress, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return DestAddress{}, fmt.Errorf("premature end of body reading dest_flag")
	}
	d := DestAddress{Flag: flag}
	switch flag {
	case DestFlagSMEAddress:
		ton, err := r.ReadByte()
		if err != nil {
			return DestAddress{}, fmt.Errorf("premature end of body reading dest_addr_ton")
		}
		npi, err := r.ReadByte()
		if err != nil {
			return DestAddress{}, fmt.Errorf("premature end of body reading dest_addr_npi")
		}
		raw, err := r.ReadBytes(0x00)
		if err != nil {
			return DestAddress{}, fmt.Errorf("premature end of body reading destination_addr")
		}
		if len(raw) > destAddrMaxLen {
			return DestAddress{}, fmt.Errorf("destination_addr exceeds max length %d including NUL terminator", destAddrMaxLen)
		}
		d.DestAddrTon = ton
		d.DestAddrNpi = npi
		d.DestinationAddr = string(raw[:len(raw)-1])
	case DestFlagDistributionList:
		raw, err := r.ReadBytes(0x00)
		if err != nil {
			return DestAddress{}, fmt.Errorf("premature end of body reading dl_name")
		}
		if len(raw) > destAddrMaxLen {
			return DestAddress{}, fmt.Errorf("dl_name exceeds max length %d including NUL terminator", destAddrMaxLen)
		}
		d.DLName = string(raw[:len(raw)-1])
	default:
		return DestAddress{}, fmt.Errorf("unknown dest_flag 0x%02x", flag)
	}
	return d, nil
}

func encodeInteger(v uint64, size int) ([]byte, error) {
	switch size {
	case 1:
		if v > 0xFF {
			return nil, fmt.Errorf("value %d out of range for 1-byte integer", v)
		}
		return []byte{byte(v)}, nil
	case 2:
		if v > 0xFFFF {
			return nil, fmt.Errorf("value %d out of range for 2-byte integer", v)
		}
		return packUi16(uint16(v)), nil
	case 4:
		if v > 0xFFFFFFFF {
			return nil, fmt.Errorf("value %d out of range for 4-byte integer", v)
		}
		return packUi32(uint32(v)), nil
	default:
		return nil, fmt.Errorf("unsupported integer size %d", size)
	}
}

func decodeInteger(b []byte) uint64 {
	var n uint64
	for _, by := range b {
		n = n<<8 | uint64(by)
	}
	return n
}
