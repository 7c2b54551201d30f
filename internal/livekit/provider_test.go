package livekit

import (
	"testing"

	"github.com/livekit/protocol/livekit"
)

func TestEgressStatus_Terminal(t *testing.T) {
	for _, s := range []EgressStatus{EgressStatusComplete, EgressStatusFailed, EgressStatusLimitReached} {
		if !s.Terminal() {
			t.Fatalf("expected %q to be terminal", s)
		}
	}
	if EgressStatusActive.Terminal() {
		t.Fatalf("expected active to be non-terminal")
	}
}

func TestMapEgressStatus(t *testing.T) {
	cases := []struct {
		in   livekit.EgressStatus
		want EgressStatus
	}{
		{livekit.EgressStatus_EGRESS_STARTING, EgressStatusActive},
		{livekit.EgressStatus_EGRESS_ACTIVE, EgressStatusActive},
		{livekit.EgressStatus_EGRESS_ENDING, EgressStatusActive},
		{livekit.EgressStatus_EGRESS_COMPLETE, EgressStatusComplete},
		{livekit.EgressStatus_EGRESS_FAILED, EgressStatusFailed},
		{livekit.EgressStatus_EGRESS_ABORTED, EgressStatusFailed},
		{livekit.EgressStatus_EGRESS_LIMIT_REACHED, EgressStatusLimitReached},
	}
	for _, tc := range cases {
		if got := mapEgressStatus(tc.in); got != tc.want {
			t.Fatalf("mapEgressStatus(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
