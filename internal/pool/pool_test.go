package pool

import (
	"testing"

	"github.com/aeromatch/internal/obtypes"
)

func TestAllocateAndDeallocate(t *testing.T) {
	p := New(16)

	o1 := p.Allocate()
	if o1 == nil {
		t.Fatal("expected non-nil order")
	}
	if got := p.AllocatedCount(); got != 1 {
		t.Errorf("allocated count = %d, want 1", got)
	}

	o2 := p.Allocate()
	if o1 == o2 {
		t.Error("expected distinct slots")
	}
	if got := p.AllocatedCount(); got != 2 {
		t.Errorf("allocated count = %d, want 2", got)
	}

	p.Deallocate(o1)
	if got := p.AllocatedCount(); got != 1 {
		t.Errorf("allocated count = %d, want 1", got)
	}

	p.Deallocate(o2)
	if got := p.AllocatedCount(); got != 0 {
		t.Errorf("allocated count = %d, want 0", got)
	}
}

func TestReusesDeallocatedMemory(t *testing.T) {
	p := New(16)

	o1 := p.Allocate()
	p.Deallocate(o1)

	o2 := p.Allocate()
	if o1 != o2 {
		t.Error("expected the freed slot to be reused")
	}
}

func TestAllocateReturnsZeroedOrder(t *testing.T) {
	p := New(4)

	o1 := p.Allocate()
	o1.ID = 42
	o1.Quantity = 100
	p.Deallocate(o1)

	o2 := p.Allocate()
	if o2.ID != 0 || o2.Quantity != 0 {
		t.Errorf("reused slot not zeroed: %+v", o2)
	}
}

func TestGrowsWhenExhausted(t *testing.T) {
	p := New(4)
	if got := p.Capacity(); got != 4 {
		t.Fatalf("capacity = %d, want 4", got)
	}

	for i := 0; i < 4; i++ {
		p.Allocate()
	}
	if got := p.AllocatedCount(); got != 4 {
		t.Fatalf("allocated count = %d, want 4", got)
	}

	extra := p.Allocate()
	if extra == nil {
		t.Fatal("expected non-nil order after growth")
	}
	if got := p.Capacity(); got != 8 {
		t.Errorf("capacity = %d, want 8", got)
	}
	if got := p.AllocatedCount(); got != 5 {
		t.Errorf("allocated count = %d, want 5", got)
	}
}

func TestHighVolumeAllocateDeallocate(t *testing.T) {
	p := New(DefaultBlockSize)

	const n = 10000
	held := make([]*obtypes.Order, 0, n)
	for i := 0; i < n; i++ {
		held = append(held, p.Allocate())
	}
	if got := p.AllocatedCount(); got != n {
		t.Fatalf("allocated count = %d, want %d", got, n)
	}

	for _, o := range held {
		p.Deallocate(o)
	}
	if got := p.AllocatedCount(); got != 0 {
		t.Errorf("allocated count = %d, want 0", got)
	}
}
