package checkout

// Phase enumerates the checkout orchestration states. The submission flow is
// BUILDING_SUMMARY → READY → SUBMITTING_ORDER → INITIATING_PAYMENT →
// REDIRECTING → DONE; failures in the two network phases re-enter READY.
// EMPTY and LOAD_FAILED are terminal for the session (a reload starts over).
type Phase string

const (
	PhaseBuildingSummary   Phase = "BUILDING_SUMMARY"
	PhaseEmpty             Phase = "EMPTY"
	PhaseLoadFailed        Phase = "LOAD_FAILED"
	PhaseReady             Phase = "READY"
	PhaseSubmittingOrder   Phase = "SUBMITTING_ORDER"
	PhaseInitiatingPayment Phase = "INITIATING_PAYMENT"
	PhaseRedirecting       Phase = "REDIRECTING"
	PhaseDone              Phase = "DONE"
)

// IsTerminal reports whether no further transition is possible.
func (p Phase) IsTerminal() bool {
	return p == PhaseEmpty || p == PhaseLoadFailed || p == PhaseDone
}

func (p Phase) String() string {
	return string(p)
}
