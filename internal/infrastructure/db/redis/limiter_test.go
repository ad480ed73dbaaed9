package redis

import (
	"strings"
	"testing"
	"time"
)

func TestLoginLimiterKeyHidesIP(t *testing.T) {
	l := NewLoginLimiter(nil, 5, 15*time.Minute)

	key := l.key("alice", "203.0.113.7")
	if !strings.HasPrefix(key, failureKeyPrefix+":alice:") {
		t.Fatalf("key = %q", key)
	}
	if strings.Contains(key, "203.0.113.7") {
		t.Fatal("raw IP must not appear in the key")
	}
}

func TestLoginLimiterKeyIsStable(t *testing.T) {
	l := NewLoginLimiter(nil, 5, 15*time.Minute)

	a := l.key("alice", "203.0.113.7")
	if b := l.key("alice", "203.0.113.7"); b != a {
		t.Fatalf("key not deterministic: %q vs %q", a, b)
	}
	if c := l.key("alice", "203.0.113.8"); c == a {
		t.Fatal("different IPs must map to different keys")
	}
}
