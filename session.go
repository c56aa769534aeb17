package smpp34

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// BindState is the session's position in the bind lifecycle
// (spec.md §3).
type BindState int

const (
	StateClosed BindState = iota
	StateUnbound
	StateBoundTx
	StateBoundRx
	StateBoundTrx
	StateUnbinding
)

func (st BindState) String() string {
	switch st {
	case StateClosed:
		return "closed"
	case StateUnbound:
		return "unbound"
	case StateBoundTx:
		return "bound_tx"
	case StateBoundRx:
		return "bound_rx"
	case StateBoundTrx:
		return "bound_trx"
	case StateUnbinding:
		return "unbinding"
	default:
		return "unknown"
	}
}

// Handler processes one PDU. For a received PDU it runs on the
// engine's read thread; for an outgoing PDU ("about to send") it runs
// on the caller's thread. The returned status overrides ESME_ROK in
// an auto-generated response; a non-nil error aborts the send or
// propagates out of ReadOnePDU without the engine swallowing it
// (spec.md §4.2).
type Handler func(p *PDU) (status uint32, err error)

// Config configures a new Session (spec.md §6).
type Config struct {
	Host             string
	Port             uint16
	SystemType       string
	InterfaceVersion uint8
	Sequencer        Sequencer
	Callbacks        map[uint32]Handler
	Wildcard         Handler
	RateLimiter      *rate.Limiter
	Logger           logrus.FieldLogger
	DialTimeout      time.Duration
}

// Session owns one TCP connection to an SMSC and drives the SMPP 3.4
// bind/unbind lifecycle over it (spec.md §3, §4.2). A Session is not
// safe for concurrent use: the typical pattern is one goroutine
// sending commands and one calling Listen, serialized by the
// session's internal write mutex; callers must still serialize their
// own state-changing calls (spec.md §5).
type Session struct {
	host             string
	port             uint16
	systemType       string
	interfaceVersion uint8
	seq              Sequencer
	callbacks        map[uint32]Handler
	wildcard         Handler
	limiter          *rate.Limiter
	log              logrus.FieldLogger
	dialTimeout      time.Duration

	mu     sync.Mutex
	state  BindState
	stream Stream

	writeMu sync.Mutex
}

// NewSession constructs a Session in state StateClosed. Call Connect
// before any bind operation.
func NewSession(cfg Config) *Session {
	seq := cfg.Sequencer
	if seq == nil {
		seq = NewSequencer()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 30 * time.Second
	}
	callbacks := cfg.Callbacks
	if callbacks == nil {
		callbacks = map[uint32]Handler{}
	}
	interfaceVersion := cfg.InterfaceVersion
	if interfaceVersion == 0 {
		interfaceVersion = 0x34
	}
	return &Session{
		host:             cfg.Host,
		port:             cfg.Port,
		systemType:       cfg.SystemType,
		interfaceVersion: interfaceVersion,
		seq:              seq,
		callbacks:        callbacks,
		wildcard:         cfg.Wildcard,
		limiter:          cfg.RateLimiter,
		log:              logger,
		dialTimeout:      dialTimeout,
		state:            StateClosed,
	}
}

// State returns the session's current bind state.
func (s *Session) State() BindState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st BindState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) requireState(op string, allowed ...BindState) error {
	cur := s.State()
	for _, a := range allowed {
		if cur == a {
			return nil
		}
	}
	return &StateError{Op: op, State: cur}
}

// Connect opens the TCP connection and transitions StateClosed to
// StateUnbound.
func (s *Session) Connect() error {
	if err := s.requireState("connect", StateClosed); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	stream, err := DialTCP("tcp", addr, s.dialTimeout)
	if err != nil {
		return &ConnectionError{Op: "connect", Err: err}
	}
	s.mu.Lock()
	s.stream = stream
	s.state = StateUnbound
	s.mu.Unlock()
	s.log.WithField("addr", addr).Info("smpp34: connected")
	return nil
}

// attachStream injects a pre-connected Stream (used by tests to avoid
// a real socket) and marks the session unbound.
func (s *Session) attachStream(stream Stream) {
	s.mu.Lock()
	s.stream = stream
	s.state = StateUnbound
	s.mu.Unlock()
}

type bindOptions struct {
	addrTon, addrNpi uint8
	addressRange     string
}

// BindOption customizes an optional bind parameter.
type BindOption func(*bindOptions)

func WithAddrTon(t uint8) BindOption { return func(o *bindOptions) { o.addrTon = t } }
func WithAddrNpi(n uint8) BindOption { return func(o *bindOptions) { o.addrNpi = n } }
func WithAddressRange(r string) BindOption {
	return func(o *bindOptions) { o.addressRange = r }
}

func (s *Session) bind(commandID uint32, bound BindState, systemID, password string, opts ...BindOption) error {
	if err := s.requireState(registeredName(commandID), StateUnbound); err != nil {
		return err
	}
	o := bindOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	seq := s.seq.NextSequence()
	p, err := NewPDU(commandID, ESME_ROK, seq)
	if err != nil {
		return err
	}
	p.SetString(pSystemID, systemID)
	p.SetString(pPassword, password)
	p.SetString(pSystemType, s.systemType)
	p.SetUint(pInterfaceVersion, uint64(s.interfaceVersion))
	p.SetUint(pAddrTon, uint64(o.addrTon))
	p.SetUint(pAddrNpi, uint64(o.addrNpi))
	p.SetString(pAddressRange, o.addressRange)

	if err := s.send(p); err != nil {
		return err
	}
	resp, err := s.readFrame()
	if err != nil {
		return err
	}
	respID, _ := ResponseID(commandID)
	if resp.CommandID() != respID || resp.Header.SequenceNumber != seq {
		return &CommandError{CommandID: resp.CommandID(), SequenceNumber: resp.Header.SequenceNumber, Err: fmt.Errorf("unexpected response to bind")}
	}
	if resp.Header.Status != ESME_ROK {
		return &CommandError{CommandID: respID, Status: resp.Header.Status, SequenceNumber: seq}
	}
	s.setState(bound)
	s.log.WithFields(logrus.Fields{"system_id": systemID, "state": bound.String()}).Info("smpp34: bound")
	return nil
}

// BindTransmitter binds in the transmitter role.
func (s *Session) BindTransmitter(systemID, password string, opts ...BindOption) error {
	return s.bind(BIND_TRANSMITTER, StateBoundTx, systemID, password, opts...)
}

// BindReceiver binds in the receiver role.
func (s *Session) BindReceiver(systemID, password string, opts ...BindOption) error {
	return s.bind(BIND_RECEIVER, StateBoundRx, systemID, password, opts...)
}

// BindTransceiver binds in the transceiver role.
func (s *Session) BindTransceiver(systemID, password string, opts ...BindOption) error {
	return s.bind(BIND_TRANSCEIVER, StateBoundTrx, systemID, password, opts...)
}

// Unbind writes an UNBIND PDU. It does not close the socket; the
// engine expects to subsequently receive UNBIND_RESP, at which point
// ReadOnePDU returns false after calling Disconnect (spec.md §4.2).
func (s *Session) Unbind() error {
	if err := s.requireState("unbind", StateBoundTx, StateBoundRx, StateBoundTrx); err != nil {
		return err
	}
	seq := s.seq.NextSequence()
	p, err := NewPDU(UNBIND, ESME_ROK, seq)
	if err != nil {
		return err
	}
	if err := s.send(p); err != nil {
		return err
	}
	s.setState(StateUnbinding)
	return nil
}

// Disconnect closes the socket and transitions to StateClosed. Safe
// to call in any state; idempotent.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.state = StateClosed
	s.mu.Unlock()
	if stream == nil {
		return nil
	}
	if err := stream.Close(); err != nil {
		return &ConnectionError{Op: "disconnect", Err: err}
	}
	s.log.Info("smpp34: disconnected")
	return nil
}

func (s *Session) allocSeq(override []uint32) uint32 {
	if len(override) > 0 && override[0] != 0 {
		return override[0]
	}
	return s.seq.NextSequence()
}

// send rate-limits (if configured), encodes, and writes one PDU
// frame. A write failure transitions the session to StateClosed.
func (s *Session) send(p *PDU) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(context.Background()); err != nil {
			return &ConnectionError{Op: "rate limit wait", Err: err}
		}
	}
	b, err := p.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil {
		return &StateError{Op: "send", State: s.State()}
	}
	s.writeMu.Lock()
	_, err = stream.Write(b)
	s.writeMu.Unlock()
	if err != nil {
		s.Disconnect()
		return &ConnectionError{Op: "write", Err: err}
	}
	s.log.WithFields(logrus.Fields{"command_id": fmt.Sprintf("0x%08x", p.CommandID()), "sequence_number": p.Header.SequenceNumber}).Debug("smpp34: sent pdu")
	return nil
}

// readFrame performs the two-read framed receive: 4 bytes of
// command_length, then the remainder (spec.md §4.1 frame_length).
func (s *Session) readFrame() (*PDU, error) {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil {
		return nil, &StateError{Op: "read", State: s.State()}
	}
	first4, err := stream.ReadExact(4)
	if err != nil {
		s.Disconnect()
		return nil, &ConnectionError{Op: "read header", Err: err}
	}
	length := FrameLength(first4)
	if length < HeaderLen {
		return nil, &CommandError{Err: fmt.Errorf("command_length %d below minimum header size", length)}
	}
	rest, err := stream.ReadExact(int(length) - 4)
	if err != nil {
		s.Disconnect()
		return nil, &ConnectionError{Op: "read body", Err: err}
	}
	full := make([]byte, 0, length)
	full = append(full, first4...)
	full = append(full, rest...)
	return Decode(full)
}

// ReadOnePDU performs one framed read, dispatches the PDU to its
// registered handler (or the wildcard), and, if the PDU is a request
// with a registered response, writes the minimal auto response once
// the handler returns. It returns false once the received PDU is
// UNBIND or UNBIND_RESP, after calling Disconnect (spec.md §4.2).
func (s *Session) ReadOnePDU() (bool, error) {
	p, err := s.readFrame()
	if err != nil {
		return false, err
	}
	s.log.WithFields(logrus.Fields{"command_id": fmt.Sprintf("0x%08x", p.CommandID()), "sequence_number": p.Header.SequenceNumber}).Debug("smpp34: received pdu")

	handler := s.callbacks[p.CommandID()]
	if handler == nil {
		handler = s.wildcard
	}
	status := ESME_ROK
	if handler != nil {
		st, err := handler(p)
		if err != nil {
			return false, err
		}
		if st != 0 {
			status = st
		}
	}

	if respID, ok := ResponseID(p.CommandID()); ok {
		resp, err := NewPDU(respID, status, p.Header.SequenceNumber)
		if err != nil {
			return false, err
		}
		if err := s.send(resp); err != nil {
			return false, err
		}
	}

	if p.CommandID() == UNBIND || p.CommandID() == UNBIND_RESP {
		s.Disconnect()
		return false, nil
	}
	return true, nil
}

// Listen calls ReadOnePDU until it returns false or an error.
func (s *Session) Listen() error {
	for {
		ok, err := s.ReadOnePDU()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func registeredName(commandID uint32) string {
	if s, ok := lookupSchema(commandID); ok {
		return s.Name
	}
	return fmt.Sprintf("0x%08x", commandID)
}
