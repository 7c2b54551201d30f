package calls

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsBusySignal(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("twirp error: SIP status 486 Busy Here"), true},
		{errors.New("Busy Here"), true},
		{errors.New("status 486"), true},
		{fmt.Errorf("wrapped: %w", errors.New("486 Busy Here")), true},
		{errors.New("twirp error: trunk unreachable"), false},
		{errors.New("487 Request Terminated"), false},
	}
	for _, tc := range cases {
		if got := IsBusySignal(tc.err); got != tc.want {
			t.Fatalf("IsBusySignal(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
