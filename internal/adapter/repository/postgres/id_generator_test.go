package postgres

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGenerator(t *testing.T) {
	g := NewULIDGenerator()

	prev := g.Generate()
	if _, err := ulid.ParseStrict(prev); err != nil {
		t.Fatalf("invalid ulid %q: %v", prev, err)
	}

	for i := 0; i < 100; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("ids not monotonic: %s then %s", prev, next)
		}
		prev = next
	}
}
