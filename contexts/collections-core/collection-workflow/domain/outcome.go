package domain

// OutcomeCode is the closed set of contact outcomes an agent can record.
type OutcomeCode string

const (
	OutcomePromiseToPay   OutcomeCode = "promise_to_pay"
	OutcomePaidClaim      OutcomeCode = "paid_claim"
	OutcomeRefuseToPay    OutcomeCode = "refuse_to_pay"
	OutcomeNoAnswer       OutcomeCode = "no_answer"
	OutcomeWrongNumber    OutcomeCode = "wrong_number"
	OutcomeNotContactable OutcomeCode = "not_contactable"
	OutcomeDispute        OutcomeCode = "dispute"
)

func ValidOutcome(code OutcomeCode) bool {
	switch code {
	case OutcomePromiseToPay, OutcomePaidClaim, OutcomeRefuseToPay,
		OutcomeNoAnswer, OutcomeWrongNumber, OutcomeNotContactable, OutcomeDispute:
		return true
	default:
		return false
	}
}

// RequiresDialerRemoval reports outcomes after which the installment must
// leave the predictive dialer queue.
func RequiresDialerRemoval(code OutcomeCode) bool {
	switch code {
	case OutcomeRefuseToPay, OutcomePaidClaim, OutcomeDispute:
		return true
	default:
		return false
	}
}
