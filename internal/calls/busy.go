package calls

import "strings"

// IsBusySignal reports whether a SIP bridging error indicates the far end
// is busy or rejected the call. The backend embeds the SIP status in the
// error text, so this is a substring match on the "Busy Here" reason
// phrase and its status code 486. Kept as a single predicate so the
// heuristic can be swapped without touching orchestration logic.
func IsBusySignal(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Busy Here") || strings.Contains(msg, "486")
}
