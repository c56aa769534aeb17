package smpp34

// SubmitSMRequest carries the SUBMIT_SM mandatory parameters
// (spec.md §6, SMPP 3.4 §4.4.1).
type SubmitSMRequest struct {
	ServiceType           string
	SourceAddrTon         uint8
	SourceAddrNpi         uint8
	SourceAddr            string
	DestAddrTon           uint8
	DestAddrNpi           uint8
	DestinationAddr       string
	EsmClass              uint8
	ProtocolID            uint8
	PriorityFlag          uint8
	ScheduleDeliveryTime  string
	ValidityPeriod        string
	RegisteredDelivery    uint8
	ReplaceIfPresentFlag  uint8
	DataCoding            uint8
	SmDefaultMsgID        uint8
	ShortMessage          []byte
}

func (r SubmitSMRequest) apply(p *PDU) {
	p.SetString(pServiceType, r.ServiceType)
	p.SetUint(pSourceAddrTon, uint64(r.SourceAddrTon))
	p.SetUint(pSourceAddrNpi, uint64(r.SourceAddrNpi))
	p.SetString(pSourceAddr, r.SourceAddr)
	p.SetUint(pDestAddrTon, uint64(r.DestAddrTon))
	p.SetUint(pDestAddrNpi, uint64(r.DestAddrNpi))
	p.SetString(pDestinationAddr, r.DestinationAddr)
	p.SetUint(pEsmClass, uint64(r.EsmClass))
	p.SetUint(pProtocolID, uint64(r.ProtocolID))
	p.SetUint(pPriorityFlag, uint64(r.PriorityFlag))
	p.SetString(pScheduleDeliveryTime, r.ScheduleDeliveryTime)
	p.SetString(pValidityPeriod, r.ValidityPeriod)
	p.SetUint(pRegisteredDelivery, uint64(r.RegisteredDelivery))
	p.SetUint(pReplaceIfPresentFlag, uint64(r.ReplaceIfPresentFlag))
	p.SetUint(pDataCoding, uint64(r.DataCoding))
	p.SetUint(pSmDefaultMsgID, uint64(r.SmDefaultMsgID))
	p.SetBytes(pShortMessage, r.ShortMessage)
}

// submitLike builds, dispatches the "about to send" callback for, and
// writes a PDU for one of the submit/deliver-shaped commands, in a
// state that requireState has already validated.
func (s *Session) submitLike(commandID uint32, apply func(*PDU), seqOverride []uint32) (uint32, error) {
	seq := s.allocSeq(seqOverride)
	p, err := NewPDU(commandID, ESME_ROK, seq)
	if err != nil {
		return 0, err
	}
	apply(p)
	if cb := s.callbacks[commandID]; cb != nil {
		if _, err := cb(p); err != nil {
			return 0, err
		}
	}
	if err := s.send(p); err != nil {
		return 0, err
	}
	return seq, nil
}

// SubmitSM submits a short message. Requires StateBoundTx or
// StateBoundTrx.
func (s *Session) SubmitSM(req SubmitSMRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("submit_sm", StateBoundTx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(SUBMIT_SM, req.apply, seq)
}

// DeliverSM sends a DELIVER_SM PDU (normally emitted by an SMSC, kept
// here so a test harness or a peer-to-peer deployment can originate
// one). Requires StateBoundRx or StateBoundTrx.
func (s *Session) DeliverSM(req SubmitSMRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("deliver_sm", StateBoundRx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(DELIVER_SM, req.apply, seq)
}

// QuerySMRequest carries the QUERY_SM mandatory parameters.
type QuerySMRequest struct {
	MessageID     string
	SourceAddrTon uint8
	SourceAddrNpi uint8
	SourceAddr    string
}

func (r QuerySMRequest) apply(p *PDU) {
	p.SetString(pMessageID, r.MessageID)
	p.SetUint(pSourceAddrTon, uint64(r.SourceAddrTon))
	p.SetUint(pSourceAddrNpi, uint64(r.SourceAddrNpi))
	p.SetString(pSourceAddr, r.SourceAddr)
}

// QuerySM queries the state of a previously submitted message.
// Requires StateBoundTx or StateBoundTrx.
func (s *Session) QuerySM(req QuerySMRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("query_sm", StateBoundTx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(QUERY_SM, req.apply, seq)
}

// CancelSMRequest carries the CANCEL_SM mandatory parameters.
type CancelSMRequest struct {
	ServiceType     string
	MessageID       string
	SourceAddrTon   uint8
	SourceAddrNpi   uint8
	SourceAddr      string
	DestAddrTon     uint8
	DestAddrNpi     uint8
	DestinationAddr string
}

func (r CancelSMRequest) apply(p *PDU) {
	p.SetString(pServiceType, r.ServiceType)
	p.SetString(pMessageID, r.MessageID)
	p.SetUint(pSourceAddrTon, uint64(r.SourceAddrTon))
	p.SetUint(pSourceAddrNpi, uint64(r.SourceAddrNpi))
	p.SetString(pSourceAddr, r.SourceAddr)
	p.SetUint(pDestAddrTon, uint64(r.DestAddrTon))
	p.SetUint(pDestAddrNpi, uint64(r.DestAddrNpi))
	p.SetString(pDestinationAddr, r.DestinationAddr)
}

// CancelSM cancels a previously submitted message. Requires
// StateBoundTx or StateBoundTrx.
func (s *Session) CancelSM(req CancelSMRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("cancel_sm", StateBoundTx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(CANCEL_SM, req.apply, seq)
}

// ReplaceSMRequest carries the REPLACE_SM mandatory parameters.
type ReplaceSMRequest struct {
	MessageID            string
	SourceAddrTon        uint8
	SourceAddrNpi        uint8
	SourceAddr           string
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   uint8
	SmDefaultMsgID       uint8
	ShortMessage         []byte
}

func (r ReplaceSMRequest) apply(p *PDU) {
	p.SetString(pMessageID, r.MessageID)
	p.SetUint(pSourceAddrTon, uint64(r.SourceAddrTon))
	p.SetUint(pSourceAddrNpi, uint64(r.SourceAddrNpi))
	p.SetString(pSourceAddr, r.SourceAddr)
	p.SetString(pScheduleDeliveryTime, r.ScheduleDeliveryTime)
	p.SetString(pValidityPeriod, r.ValidityPeriod)
	p.SetUint(pRegisteredDelivery, uint64(r.RegisteredDelivery))
	p.SetUint(pSmDefaultMsgID, uint64(r.SmDefaultMsgID))
	p.SetBytes(pShortMessage, r.ShortMessage)
}

// ReplaceSM replaces a previously submitted message. Requires
// StateBoundTx or StateBoundTrx.
func (s *Session) ReplaceSM(req ReplaceSMRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("replace_sm", StateBoundTx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(REPLACE_SM, req.apply, seq)
}

// DataSMRequest carries the DATA_SM mandatory parameters. The short
// message, if any, is carried in the message_payload TLV rather than
// short_message (SMPP 3.4 §4.7.1).
type DataSMRequest struct {
	ServiceType        string
	SourceAddrTon      uint8
	SourceAddrNpi      uint8
	SourceAddr         string
	DestAddrTon        uint8
	DestAddrNpi        uint8
	DestinationAddr    string
	EsmClass           uint8
	RegisteredDelivery uint8
	DataCoding         uint8
	MessagePayload     []byte
}

func (r DataSMRequest) apply(p *PDU) {
	p.SetString(pServiceType, r.ServiceType)
	p.SetUint(pSourceAddrTon, uint64(r.SourceAddrTon))
	p.SetUint(pSourceAddrNpi, uint64(r.SourceAddrNpi))
	p.SetString(pSourceAddr, r.SourceAddr)
	p.SetUint(pDestAddrTon, uint64(r.DestAddrTon))
	p.SetUint(pDestAddrNpi, uint64(r.DestAddrNpi))
	p.SetString(pDestinationAddr, r.DestinationAddr)
	p.SetUint(pEsmClass, uint64(r.EsmClass))
	p.SetUint(pRegisteredDelivery, uint64(r.RegisteredDelivery))
	p.SetUint(pDataCoding, uint64(r.DataCoding))
	if len(r.MessagePayload) > 0 {
		p.SetTLVBytes("message_payload", r.MessagePayload)
	}
}

// DataSM transmits data via DATA_SM. Requires StateBoundTx,
// StateBoundRx, or StateBoundTrx: DATA_SM is legal in every bound
// state (SMPP 3.4 §4.7).
func (s *Session) DataSM(req DataSMRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("data_sm", StateBoundTx, StateBoundRx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(DATA_SM, req.apply, seq)
}

// SubmitMultiRequest carries the SUBMIT_MULTI mandatory parameters,
// including its repeated destination list (SPEC_FULL.md §9, SMPP 3.4
// §4.5.1).
type SubmitMultiRequest struct {
	ServiceType          string
	SourceAddrTon        uint8
	SourceAddrNpi        uint8
	SourceAddr           string
	Destinations         []DestAddress
	EsmClass             uint8
	ProtocolID           uint8
	PriorityFlag         uint8
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   uint8
	ReplaceIfPresentFlag uint8
	DataCoding           uint8
	SmDefaultMsgID       uint8
	ShortMessage         []byte
}

func (r SubmitMultiRequest) apply(p *PDU) {
	p.SetString(pServiceType, r.ServiceType)
	p.SetUint(pSourceAddrTon, uint64(r.SourceAddrTon))
	p.SetUint(pSourceAddrNpi, uint64(r.SourceAddrNpi))
	p.SetString(pSourceAddr, r.SourceAddr)
	p.SetDestinations(r.Destinations)
	p.SetUint(pEsmClass, uint64(r.EsmClass))
	p.SetUint(pProtocolID, uint64(r.ProtocolID))
	p.SetUint(pPriorityFlag, uint64(r.PriorityFlag))
	p.SetString(pScheduleDeliveryTime, r.ScheduleDeliveryTime)
	p.SetString(pValidityPeriod, r.ValidityPeriod)
	p.SetUint(pRegisteredDelivery, uint64(r.RegisteredDelivery))
	p.SetUint(pReplaceIfPresentFlag, uint64(r.ReplaceIfPresentFlag))
	p.SetUint(pDataCoding, uint64(r.DataCoding))
	p.SetUint(pSmDefaultMsgID, uint64(r.SmDefaultMsgID))
	p.SetBytes(pShortMessage, r.ShortMessage)
}

// SubmitMulti submits a short message to multiple destinations in one
// PDU. Requires StateBoundTx or StateBoundTrx.
func (s *Session) SubmitMulti(req SubmitMultiRequest, seq ...uint32) (uint32, error) {
	if err := s.requireState("submit_multi", StateBoundTx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(SUBMIT_MULTI, req.apply, seq)
}

// EnquireLink sends a keep-alive. Legal in any bound state.
func (s *Session) EnquireLink(seq ...uint32) (uint32, error) {
	if err := s.requireState("enquire_link", StateBoundTx, StateBoundRx, StateBoundTrx); err != nil {
		return 0, err
	}
	return s.submitLike(ENQUIRE_LINK, func(*PDU) {}, seq)
}
