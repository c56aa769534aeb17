// Package smpp34 implements an SMPP 3.4 client in the External Short
// Message Entity (ESME) role: PDU codec, bind/session state machine,
// and GSM short-message encoding.
package smpp34

// Command ids, SMPP 3.4 section 5.1.2.1. Response ids are the request
// id with the high bit (0x80000000) set.
const (
	GENERIC_NACK          uint32 = 0x80000000
	BIND_RECEIVER         uint32 = 0x00000001
	BIND_RECEIVER_RESP    uint32 = 0x80000001
	BIND_TRANSMITTER      uint32 = 0x00000002
	BIND_TRANSMITTER_RESP uint32 = 0x80000002
	QUERY_SM              uint32 = 0x00000003
	QUERY_SM_RESP         uint32 = 0x80000003
	SUBMIT_SM             uint32 = 0x00000004
	SUBMIT_SM_RESP        uint32 = 0x80000004
	DELIVER_SM            uint32 = 0x00000005
	DELIVER_SM_RESP       uint32 = 0x80000005
	UNBIND                uint32 = 0x00000006
	UNBIND_RESP           uint32 = 0x80000006
	REPLACE_SM            uint32 = 0x00000007
	REPLACE_SM_RESP       uint32 = 0x80000007
	CANCEL_SM             uint32 = 0x00000008
	CANCEL_SM_RESP        uint32 = 0x80000008
	BIND_TRANSCEIVER      uint32 = 0x00000009
	BIND_TRANSCEIVER_RESP uint32 = 0x80000009
	OUTBIND               uint32 = 0x0000000B
	ENQUIRE_LINK          uint32 = 0x00000015
	ENQUIRE_LINK_RESP     uint32 = 0x80000015
	SUBMIT_MULTI          uint32 = 0x00000021
	SUBMIT_MULTI_RESP     uint32 = 0x80000021
	DATA_SM               uint32 = 0x00000103
	DATA_SM_RESP          uint32 = 0x80000103
)

// Status codes, SMPP 3.4 section 5.1.3.
const (
	ESME_ROK         uint32 = 0x00000000 // No Error
	ESME_RINVMSGLEN  uint32 = 0x00000001
	ESME_RINVCMDLEN  uint32 = 0x00000002
	ESME_RINVCMDID   uint32 = 0x00000003
	ESME_RINVBNDSTS  uint32 = 0x00000004
	ESME_RALYBND     uint32 = 0x00000005
	ESME_RINVPRTFLG  uint32 = 0x00000006
	ESME_RINVREGDLVFLG uint32 = 0x00000007
	ESME_RSYSERR     uint32 = 0x00000008
	ESME_RINVSRCADR  uint32 = 0x0000000A
	ESME_RINVDSTADR  uint32 = 0x0000000B
	ESME_RINVMSGID   uint32 = 0x0000000C
	ESME_RBINDFAIL   uint32 = 0x0000000D
	ESME_RINVPASWD   uint32 = 0x0000000E
	ESME_RINVSYSID   uint32 = 0x0000000F
	ESME_RCANCELFAIL uint32 = 0x00000011
	ESME_RREPLACEFAIL uint32 = 0x00000013
	ESME_RMSGQFUL    uint32 = 0x00000014
	ESME_RINVSERTYP  uint32 = 0x00000015
	ESME_RINVNUMDESTS uint32 = 0x00000033
	ESME_RINVDLNAME  uint32 = 0x00000034
	ESME_RINVDESTFLAG uint32 = 0x00000040
	ESME_RINVSUBREP  uint32 = 0x00000042
	ESME_RINVESMCLASS uint32 = 0x00000043
	ESME_RCNTSUBDL   uint32 = 0x00000044
	ESME_RSUBMITFAIL uint32 = 0x00000045
	ESME_RINVSRCTON  uint32 = 0x00000048
	ESME_RINVSRCNPI  uint32 = 0x00000049
	ESME_RINVDSTTON  uint32 = 0x00000050
	ESME_RINVDSTNPI  uint32 = 0x00000051
	ESME_RINVSYSTYP  uint32 = 0x00000053
	ESME_RINVREPFLAG uint32 = 0x00000054
	ESME_RINVNUMMSGS uint32 = 0x00000055
	ESME_RTHROTTLED  uint32 = 0x00000058
	ESME_RINVSCHED   uint32 = 0x00000061
	ESME_RINVEXPIRY  uint32 = 0x00000062
	ESME_RINVDFTMSGID uint32 = 0x00000063
	ESME_RX_T_APPN   uint32 = 0x00000064
	ESME_RX_P_APPN   uint32 = 0x00000065
	ESME_RX_R_APPN   uint32 = 0x00000066
	ESME_RQUERYFAIL  uint32 = 0x00000067
	ESME_RINVOPTPARSTREAM uint32 = 0x000000C0
	ESME_ROPTPARNOTALLWD uint32 = 0x000000C1
	ESME_RINVPARLEN  uint32 = 0x000000C2
	ESME_RMISSINGOPTPARAM uint32 = 0x000000C3
	ESME_RINVOPTPARAMVAL uint32 = 0x000000C4
	ESME_RDELIVERYFAILURE uint32 = 0x000000FE
	ESME_RUNKNOWNERR uint32 = 0x000000FF
)

// Data coding scheme values, SMPP 3.4 section 5.2.19.
const (
	DATA_CODING_DEFAULT uint8 = 0x00
	DATA_CODING_IA5     uint8 = 0x01
	DATA_CODING_BINARY8 uint8 = 0x02
	DATA_CODING_LATIN1  uint8 = 0x03
	DATA_CODING_JIS     uint8 = 0x05
	DATA_CODING_CYRILLIC uint8 = 0x06
	DATA_CODING_LATIN_HEBREW uint8 = 0x07
	DATA_CODING_UCS2    uint8 = 0x08
	DATA_CODING_PICTOGRAM uint8 = 0x09
	DATA_CODING_ISO2022JP uint8 = 0x0A
	DATA_CODING_KANJI    uint8 = 0x0D
	DATA_CODING_KSC5601  uint8 = 0x0E
)

// ESM class bits relevant to the short-message layer.
const (
	ESM_CLASS_DEFAULT          uint8 = 0x00
	ESM_CLASS_UDHI             uint8 = 0x40
	ESM_CLASS_DELIVERY_RECEIPT uint8 = 0x04
)

// Type-of-number / numbering-plan-indicator values. The session
// engine's zero defaults for these fields equal TON_UNKNOWN and
// NPI_UNKNOWN.
const (
	TON_UNKNOWN uint8 = 0x00
	TON_INTERNATIONAL uint8 = 0x01
	NPI_UNKNOWN uint8 = 0x00
	NPI_ISDN    uint8 = 0x01
)

// IsResponse reports whether a command id is a response (high bit set).
func IsResponse(commandID uint32) bool {
	return commandID&0x80000000 != 0
}

// ResponseID returns the _RESP command id paired with a request id,
// and false if this command id is already a response or is OUTBIND,
// the one unpaired request this package defines.
func ResponseID(commandID uint32) (uint32, bool) {
	if IsResponse(commandID) {
		return 0, false
	}
	if commandID == OUTBIND {
		return 0, false
	}
	return commandID | 0x80000000, true
}
