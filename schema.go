package smpp34

import (
	"fmt"
	"sync"
)

// ParamKind identifies how a mandatory parameter or TLV value is laid
// out on the wire (spec.md §3).
type ParamKind int

const (
	ParamCOctetString     ParamKind = iota // NUL-terminated, bounded length incl. terminator
	ParamOctetStringFixed                  // fixed-size octet string
	ParamOctetStringLen                    // octet string whose length is a sibling integer field
	ParamInteger                           // 1/2/4-byte big-endian unsigned integer
	ParamDestAddressList                   // SUBMIT_MULTI dest_address list, count is a sibling integer field
)

// paramDecl declares one mandatory parameter of a command, in the
// fixed order the schema lists them.
type paramDecl struct {
	Name     string
	Kind     ParamKind
	Size     int    // c_octet_string: max length incl NUL; octet_string fixed: exact length; integer: 1/2/4
	LenField string // for ParamOctetStringLen: name of the sibling length-field parameter
	CondOn   string // if non-empty: this param is present only if the named sibling integer is non-zero
}

// tlvDecl declares one recognized optional (TLV) parameter for a
// command, registered via DefineOptionalParam (spec.md §4.1).
type tlvDecl struct {
	Tag  uint16
	Name string
	Kind ParamKind // ParamInteger, ParamCOctetString (Size is the max incl. NUL), or ParamOctetStringFixed (0 size == unbounded, bounded by TLV length prefix)
	Size int
}

func (d tlvDecl) equivalent(o tlvDecl) bool {
	return d.Name == o.Name && d.Kind == o.Kind && d.Size == o.Size
}

// commandSchema is the static descriptor for one SMPP command id.
type commandSchema struct {
	ID        uint32
	Name      string
	RespID    uint32 // 0 if this command has no paired response
	Mandatory []paramDecl
	tlvByTag  map[uint16]*tlvDecl
	tlvByName map[string]*tlvDecl
}

func newCommandSchema(id uint32, name string, respID uint32, mandatory []paramDecl) *commandSchema {
	return &commandSchema{
		ID:        id,
		Name:      name,
		RespID:    respID,
		Mandatory: mandatory,
		tlvByTag:  map[uint16]*tlvDecl{},
		tlvByName: map[string]*tlvDecl{},
	}
}

var (
	registryMu sync.Mutex
	registry   = map[uint32]*commandSchema{}
)

func lookupSchema(commandID uint32) (*commandSchema, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	s, ok := registry[commandID]
	return s, ok
}

// DefineOptionalParam appends a recognized TLV to the registry for a
// given command type (spec.md §4.1). Idempotent only when invoked
// with an identical definition; redefining an existing
// (commandID, tag) with a different name, kind, or size fails with a
// *RegistrationError. Definitions are process-wide and cannot be
// removed. Call only during process startup, before any PDU of the
// affected command type is encoded or decoded (spec.md §5, §9).
func DefineOptionalParam(commandID uint32, valueKind ParamKind, tag uint16, name string, size int) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	return defineOptionalParamLocked(commandID, tlvDecl{Tag: tag, Name: name, Kind: valueKind, Size: size})
}

func defineOptionalParamLocked(commandID uint32, d tlvDecl) error {
	s, ok := registry[commandID]
	if !ok {
		return &RegistrationError{CommandID: commandID, Tag: d.Tag, Reason: "unknown command id"}
	}
	if existing, ok := s.tlvByTag[d.Tag]; ok {
		if existing.equivalent(d) {
			return nil
		}
		return &RegistrationError{CommandID: commandID, Tag: d.Tag, Reason: fmt.Sprintf("conflicts with existing definition %q", existing.Name)}
	}
	if existing, ok := s.tlvByName[d.Name]; ok && existing.Tag != d.Tag {
		return &RegistrationError{CommandID: commandID, Tag: d.Tag, Reason: fmt.Sprintf("name %q already bound to tag 0x%04x", d.Name, existing.Tag)}
	}
	decl := d
	s.tlvByTag[d.Tag] = &decl
	s.tlvByName[d.Name] = &decl
	return nil
}

// Parameter name constants, used both as field map keys and as the
// vocabulary accepted by paramDecl.Name / tlvDecl.Name.
const (
	pSystemID              = "system_id"
	pPassword              = "password"
	pSystemType            = "system_type"
	pInterfaceVersion      = "interface_version"
	pAddrTon               = "addr_ton"
	pAddrNpi               = "addr_npi"
	pAddressRange          = "address_range"
	pServiceType           = "service_type"
	pSourceAddrTon         = "source_addr_ton"
	pSourceAddrNpi         = "source_addr_npi"
	pSourceAddr            = "source_addr"
	pDestAddrTon           = "dest_addr_ton"
	pDestAddrNpi           = "dest_addr_npi"
	pDestinationAddr       = "destination_addr"
	pEsmClass              = "esm_class"
	pProtocolID            = "protocol_id"
	pPriorityFlag          = "priority_flag"
	pScheduleDeliveryTime  = "schedule_delivery_time"
	pValidityPeriod        = "validity_period"
	pRegisteredDelivery    = "registered_delivery"
	pReplaceIfPresentFlag  = "replace_if_present_flag"
	pDataCoding            = "data_coding"
	pSmDefaultMsgID        = "sm_default_msg_id"
	pSmLength              = "sm_length"
	pShortMessage          = "short_message"
	pMessageID             = "message_id"
	pFinalDate             = "final_date"
	pMessageState          = "message_state"
	pErrorCode             = "error_code"
	pNumberOfDests         = "number_of_dests"
	pDestFlag              = "dest_flag"
	pDestAddresses         = "dest_addresses"
)

func init() {
	registerBindSchemas()
	registerSessionSchemas()
	registerSubmitDeliverSchemas()
	registerDataSmSchema()
	registerQueryCancelReplaceSchemas()
	registerSubmitMultiSchema()
	registerStandardTLVs()
}

func registerBindSchemas() {
	bindParams := []paramDecl{
		{Name: pSystemID, Kind: ParamCOctetString, Size: 16},
		{Name: pPassword, Kind: ParamCOctetString, Size: 9},
		{Name: pSystemType, Kind: ParamCOctetString, Size: 13},
		{Name: pInterfaceVersion, Kind: ParamInteger, Size: 1},
		{Name: pAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pAddressRange, Kind: ParamCOctetString, Size: 41},
	}
	bindRespParams := []paramDecl{
		{Name: pSystemID, Kind: ParamCOctetString, Size: 16},
	}
	for _, pair := range []struct {
		req, resp uint32
		name      string
	}{
		{BIND_TRANSMITTER, BIND_TRANSMITTER_RESP, "bind_transmitter"},
		{BIND_RECEIVER, BIND_RECEIVER_RESP, "bind_receiver"},
		{BIND_TRANSCEIVER, BIND_TRANSCEIVER_RESP, "bind_transceiver"},
	} {
		registry[pair.req] = newCommandSchema(pair.req, pair.name, pair.resp, bindParams)
		registry[pair.resp] = newCommandSchema(pair.resp, pair.name+"_resp", 0, bindRespParams)
	}
}

func registerSessionSchemas() {
	registry[UNBIND] = newCommandSchema(UNBIND, "unbind", UNBIND_RESP, nil)
	registry[UNBIND_RESP] = newCommandSchema(UNBIND_RESP, "unbind_resp", 0, nil)
	registry[ENQUIRE_LINK] = newCommandSchema(ENQUIRE_LINK, "enquire_link", ENQUIRE_LINK_RESP, nil)
	registry[ENQUIRE_LINK_RESP] = newCommandSchema(ENQUIRE_LINK_RESP, "enquire_link_resp", 0, nil)
	registry[GENERIC_NACK] = newCommandSchema(GENERIC_NACK, "generic_nack", 0, nil)
	registry[OUTBIND] = newCommandSchema(OUTBIND, "outbind", 0, []paramDecl{
		{Name: pSystemID, Kind: ParamCOctetString, Size: 16},
		{Name: pPassword, Kind: ParamCOctetString, Size: 9},
	})
}

func submitDeliverParams() []paramDecl {
	return []paramDecl{
		{Name: pServiceType, Kind: ParamCOctetString, Size: 6},
		{Name: pSourceAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pDestAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pDestAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pDestinationAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pEsmClass, Kind: ParamInteger, Size: 1},
		{Name: pProtocolID, Kind: ParamInteger, Size: 1},
		{Name: pPriorityFlag, Kind: ParamInteger, Size: 1},
		{Name: pScheduleDeliveryTime, Kind: ParamCOctetString, Size: 17},
		{Name: pValidityPeriod, Kind: ParamCOctetString, Size: 17},
		{Name: pRegisteredDelivery, Kind: ParamInteger, Size: 1},
		{Name: pReplaceIfPresentFlag, Kind: ParamInteger, Size: 1},
		{Name: pDataCoding, Kind: ParamInteger, Size: 1},
		{Name: pSmDefaultMsgID, Kind: ParamInteger, Size: 1},
		{Name: pSmLength, Kind: ParamInteger, Size: 1},
		{Name: pShortMessage, Kind: ParamOctetStringLen, LenField: pSmLength},
	}
}

func registerSubmitDeliverSchemas() {
	registry[SUBMIT_SM] = newCommandSchema(SUBMIT_SM, "submit_sm", SUBMIT_SM_RESP, submitDeliverParams())
	registry[SUBMIT_SM_RESP] = newCommandSchema(SUBMIT_SM_RESP, "submit_sm_resp", 0, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
	})
	registry[DELIVER_SM] = newCommandSchema(DELIVER_SM, "deliver_sm", DELIVER_SM_RESP, submitDeliverParams())
	registry[DELIVER_SM_RESP] = newCommandSchema(DELIVER_SM_RESP, "deliver_sm_resp", 0, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
	})
}

func registerDataSmSchema() {
	params := []paramDecl{
		{Name: pServiceType, Kind: ParamCOctetString, Size: 6},
		{Name: pSourceAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pDestAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pDestAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pDestinationAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pEsmClass, Kind: ParamInteger, Size: 1},
		{Name: pRegisteredDelivery, Kind: ParamInteger, Size: 1},
		{Name: pDataCoding, Kind: ParamInteger, Size: 1},
	}
	registry[DATA_SM] = newCommandSchema(DATA_SM, "data_sm", DATA_SM_RESP, params)
	registry[DATA_SM_RESP] = newCommandSchema(DATA_SM_RESP, "data_sm_resp", 0, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
	})
}

func registerQueryCancelReplaceSchemas() {
	registry[QUERY_SM] = newCommandSchema(QUERY_SM, "query_sm", QUERY_SM_RESP, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
		{Name: pSourceAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddr, Kind: ParamCOctetString, Size: 21},
	})
	registry[QUERY_SM_RESP] = newCommandSchema(QUERY_SM_RESP, "query_sm_resp", 0, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
		{Name: pFinalDate, Kind: ParamCOctetString, Size: 17},
		{Name: pMessageState, Kind: ParamInteger, Size: 1},
		{Name: pErrorCode, Kind: ParamInteger, Size: 1},
	})

	registry[CANCEL_SM] = newCommandSchema(CANCEL_SM, "cancel_sm", CANCEL_SM_RESP, []paramDecl{
		{Name: pServiceType, Kind: ParamCOctetString, Size: 6},
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
		{Name: pSourceAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pDestAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pDestAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pDestinationAddr, Kind: ParamCOctetString, Size: 21},
	})
	registry[CANCEL_SM_RESP] = newCommandSchema(CANCEL_SM_RESP, "cancel_sm_resp", 0, nil)

	registry[REPLACE_SM] = newCommandSchema(REPLACE_SM, "replace_sm", REPLACE_SM_RESP, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
		{Name: pSourceAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pScheduleDeliveryTime, Kind: ParamCOctetString, Size: 17},
		{Name: pValidityPeriod, Kind: ParamCOctetString, Size: 17},
		{Name: pRegisteredDelivery, Kind: ParamInteger, Size: 1},
		{Name: pSmDefaultMsgID, Kind: ParamInteger, Size: 1},
		{Name: pSmLength, Kind: ParamInteger, Size: 1},
		{Name: pShortMessage, Kind: ParamOctetStringLen, LenField: pSmLength},
	})
	registry[REPLACE_SM_RESP] = newCommandSchema(REPLACE_SM_RESP, "replace_sm_resp", 0, nil)
}

// registerSubmitMultiSchema is a supplemented command (SPEC_FULL.md §9):
// SUBMIT_MULTI exercises a variable-count destination list ahead of
// the short message, which none of the spec.md-named commands do. The
// list itself (SMPP 3.4 §4.5.1: number_of_dests repetitions of
// dest_flag + either an SME address or a distribution list name) is
// a ParamDestAddressList field, not a plain mandatory param, because
// its entries are variant records rather than a single scalar value.
func registerSubmitMultiSchema() {
	registry[SUBMIT_MULTI] = newCommandSchema(SUBMIT_MULTI, "submit_multi", SUBMIT_MULTI_RESP, []paramDecl{
		{Name: pServiceType, Kind: ParamCOctetString, Size: 6},
		{Name: pSourceAddrTon, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddrNpi, Kind: ParamInteger, Size: 1},
		{Name: pSourceAddr, Kind: ParamCOctetString, Size: 21},
		{Name: pNumberOfDests, Kind: ParamInteger, Size: 1},
		{Name: pDestAddresses, Kind: ParamDestAddressList, LenField: pNumberOfDests},
		{Name: pEsmClass, Kind: ParamInteger, Size: 1},
		{Name: pProtocolID, Kind: ParamInteger, Size: 1},
		{Name: pPriorityFlag, Kind: ParamInteger, Size: 1},
		{Name: pScheduleDeliveryTime, Kind: ParamCOctetString, Size: 17},
		{Name: pValidityPeriod, Kind: ParamCOctetString, Size: 17},
		{Name: pRegisteredDelivery, Kind: ParamInteger, Size: 1},
		{Name: pReplaceIfPresentFlag, Kind: ParamInteger, Size: 1},
		{Name: pDataCoding, Kind: ParamInteger, Size: 1},
		{Name: pSmDefaultMsgID, Kind: ParamInteger, Size: 1},
		{Name: pSmLength, Kind: ParamInteger, Size: 1},
		{Name: pShortMessage, Kind: ParamOctetStringLen, LenField: pSmLength},
	})
	registry[SUBMIT_MULTI_RESP] = newCommandSchema(SUBMIT_MULTI_RESP, "submit_multi_resp", 0, []paramDecl{
		{Name: pMessageID, Kind: ParamCOctetString, Size: 65},
	})
}

// registerStandardTLVs registers the SMPP 3.4 optional parameters a
// real ESME client exercises most often, via the same
// DefineOptionalParam path a vendor extension would use.
func registerStandardTLVs() {
	must := func(commandID uint32, d tlvDecl) {
		if err := defineOptionalParamLocked(commandID, d); err != nil {
			panic(err)
		}
	}
	for _, id := range []uint32{BIND_TRANSMITTER_RESP, BIND_RECEIVER_RESP, BIND_TRANSCEIVER_RESP} {
		must(id, tlvDecl{Tag: 0x0210, Name: "sc_interface_version", Kind: ParamInteger, Size: 1})
	}
	for _, id := range []uint32{SUBMIT_SM, DELIVER_SM, DATA_SM} {
		must(id, tlvDecl{Tag: 0x0204, Name: "user_message_reference", Kind: ParamInteger, Size: 2})
		must(id, tlvDecl{Tag: 0x020A, Name: "source_port", Kind: ParamInteger, Size: 2})
		must(id, tlvDecl{Tag: 0x020B, Name: "destination_port", Kind: ParamInteger, Size: 2})
		must(id, tlvDecl{Tag: 0x020C, Name: "sar_msg_ref_num", Kind: ParamInteger, Size: 2})
		must(id, tlvDecl{Tag: 0x020E, Name: "sar_total_segments", Kind: ParamInteger, Size: 1})
		must(id, tlvDecl{Tag: 0x020F, Name: "sar_segment_seqnum", Kind: ParamInteger, Size: 1})
		must(id, tlvDecl{Tag: 0x0424, Name: "message_payload", Kind: ParamOctetStringFixed, Size: 0})
	}
	must(SUBMIT_SM, tlvDecl{Tag: 0x0201, Name: "privacy_indicator", Kind: ParamInteger, Size: 1})
	must(SUBMIT_SM, tlvDecl{Tag: 0x0426, Name: "more_messages_to_send", Kind: ParamInteger, Size: 1})
	must(DELIVER_SM, tlvDecl{Tag: 0x001E, Name: "receipted_message_id", Kind: ParamCOctetString, Size: 65})
	must(DELIVER_SM, tlvDecl{Tag: 0x0427, Name: "message_state", Kind: ParamInteger, Size: 1})
}
