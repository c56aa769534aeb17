package smpp34

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSMSC drives the server side of a bind -> submit -> unbind
// exchange, mirroring what a real SMSC would send back, then returns
// once it has answered UNBIND.
func fakeSMSC(conn net.Conn) error {
	for {
		first4 := make([]byte, 4)
		if _, err := io.ReadFull(conn, first4); err != nil {
			return err
		}
		length := FrameLength(first4)
		rest := make([]byte, length-4)
		if _, err := io.ReadFull(conn, rest); err != nil {
			return err
		}
		full := append(append([]byte{}, first4...), rest...)
		p, err := Decode(full)
		if err != nil {
			return err
		}

		switch p.CommandID() {
		case BIND_TRANSCEIVER:
			resp, _ := NewPDU(BIND_TRANSCEIVER_RESP, ESME_ROK, p.Header.SequenceNumber)
			resp.SetString(pSystemID, "smsc-sim")
			b, _ := resp.Encode()
			if _, err := conn.Write(b); err != nil {
				return err
			}
		case SUBMIT_SM:
			resp, _ := NewPDU(SUBMIT_SM_RESP, ESME_ROK, p.Header.SequenceNumber)
			resp.SetString(pMessageID, "1")
			b, _ := resp.Encode()
			if _, err := conn.Write(b); err != nil {
				return err
			}
		case UNBIND:
			resp, _ := NewPDU(UNBIND_RESP, ESME_ROK, p.Header.SequenceNumber)
			b, _ := resp.Encode()
			if _, err := conn.Write(b); err != nil {
				return err
			}
			return nil
		default:
			return nil
		}
	}
}

// Full lifecycle scenario (spec.md §8): bind_transceiver, submit_sm,
// unbind, then ReadOnePDU returns false once UNBIND_RESP arrives.
func TestSessionBindSubmitUnbindLifecycle(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	s := NewSession(Config{Host: "ignored", Port: 0})
	s.attachStream(&tcpStream{conn: clientConn})
	require.Equal(t, StateUnbound, s.State())

	serverDone := make(chan error, 1)
	go func() { serverDone <- fakeSMSC(serverConn) }()

	require.NoError(t, s.BindTransceiver("sysid", "pass"))
	require.Equal(t, StateBoundTrx, s.State())

	seq, err := s.SubmitSM(SubmitSMRequest{
		SourceAddr:      "1000",
		DestinationAddr: "2000",
		ShortMessage:    []byte("hi"),
	})
	require.NoError(t, err)
	require.NotZero(t, seq)

	// The SUBMIT_SM_RESP is an ordinary response: ReadOnePDU keeps going.
	ok, err := s.ReadOnePDU()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StateBoundTrx, s.State())

	require.NoError(t, s.Unbind())
	require.Equal(t, StateUnbinding, s.State())

	ok, err = s.ReadOnePDU()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, StateClosed, s.State())

	require.NoError(t, <-serverDone)
}

func TestSessionRejectsBindFromWrongState(t *testing.T) {
	s := NewSession(Config{})
	err := s.BindTransmitter("sysid", "pass")
	require.Error(t, err)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	require.Equal(t, StateClosed, stateErr.State)
}

func TestSessionSubmitRequiresBoundState(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	s := NewSession(Config{})
	s.attachStream(&tcpStream{conn: clientConn})

	_, err := s.SubmitSM(SubmitSMRequest{SourceAddr: "1", DestinationAddr: "2"})
	require.Error(t, err)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestSessionDisconnectIsIdempotent(t *testing.T) {
	s := NewSession(Config{})
	require.NoError(t, s.Disconnect())
	require.NoError(t, s.Disconnect())
	require.Equal(t, StateClosed, s.State())
}
