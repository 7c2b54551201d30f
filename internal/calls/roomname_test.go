package calls

import (
	"strings"
	"testing"
)

func TestNewRoomName_PrefixAndLength(t *testing.T) {
	name := NewRoomName()
	if !strings.HasPrefix(name, RoomNamePrefix) {
		t.Fatalf("expected prefix %q, got %q", RoomNamePrefix, name)
	}
	suffix := strings.TrimPrefix(name, RoomNamePrefix)
	if len(suffix) != 32 {
		t.Fatalf("expected 32 hex chars of suffix, got %d (%q)", len(suffix), suffix)
	}
	if strings.ContainsAny(suffix, "-_") {
		t.Fatalf("suffix must be plain hex, got %q", suffix)
	}
}

func TestNewRoomName_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		name := NewRoomName()
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate room name after %d generations: %q", i, name)
		}
		seen[name] = struct{}{}
	}
}
