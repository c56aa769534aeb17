package sm

import "regexp"

// DeliveryReceipt holds the fields an SMSC embeds in a DELIVER_SM's
// short message body when esm_class indicates a delivery receipt
// (SMPP 3.4 §5.2.25, Appendix B). Supplemented beyond spec.md's
// distillation (SPEC_FULL.md §9): real ESME clients need this to
// reconcile submit_sm responses with final delivery state.
type DeliveryReceipt struct {
	MessageID  string
	Sub        string
	Delivered  string
	SubmitDate string
	DoneDate   string
	Stat       string
	ErrorCode  string
	Text       string
}

var receiptPattern = regexp.MustCompile(
	`id:(\S+) sub:(\S+) dlvrd:(\S+) submit date:(\d+) done date:(\d+) stat:(\S+) err:(\S+) text:(.*)`,
)

// ParseDeliveryReceipt extracts a DeliveryReceipt from a DELIVER_SM
// short message body. Returns false if body does not match the
// well-known receipt format.
func ParseDeliveryReceipt(body []byte) (DeliveryReceipt, bool) {
	m := receiptPattern.FindStringSubmatch(string(body))
	if m == nil {
		return DeliveryReceipt{}, false
	}
	return DeliveryReceipt{
		MessageID:  m[1],
		Sub:        m[2],
		Delivered:  m[3],
		SubmitDate: m[4],
		DoneDate:   m[5],
		Stat:       m[6],
		ErrorCode:  m[7],
		Text:       m[8],
	}, true
}
