package mshr

import "testing"

func TestGetOrCreateCoalesces(t *testing.T) {
	tbl := New()
	e1, created1 := tbl.GetOrCreate(0x1000)
	if !created1 {
		t.Fatal("first GetOrCreate should report created")
	}
	e1.Waiters = append(e1.Waiters, 3)
	e1.Issued = true

	e2, created2 := tbl.GetOrCreate(0x1000)
	if created2 {
		t.Fatal("second GetOrCreate for same address should not report created")
	}
	if e2 != e1 {
		t.Fatal("GetOrCreate should return the same entry for the same address")
	}
	e2.Waiters = append(e2.Waiters, 7)
	if len(e1.Waiters) != 2 {
		t.Fatalf("Waiters = %v, want 2 entries", e1.Waiters)
	}
}

func TestTakeRemovesEntry(t *testing.T) {
	tbl := New()
	tbl.GetOrCreate(0x2000)
	if tbl.Outstanding() != 1 {
		t.Fatalf("Outstanding() = %d, want 1", tbl.Outstanding())
	}
	e, ok := tbl.Take(0x2000)
	if !ok || e.Addr != 0x2000 {
		t.Fatalf("Take() = %v, %v, want entry for 0x2000", e, ok)
	}
	if tbl.Outstanding() != 0 {
		t.Fatalf("Outstanding() after Take = %d, want 0", tbl.Outstanding())
	}
	if _, ok := tbl.Take(0x2000); ok {
		t.Fatal("Take() on missing address should report false")
	}
}

func TestDistinctAddressesGetDistinctEntries(t *testing.T) {
	tbl := New()
	tbl.GetOrCreate(1)
	tbl.GetOrCreate(2)
	tbl.GetOrCreate(3)
	if tbl.Outstanding() != 3 {
		t.Fatalf("Outstanding() = %d, want 3", tbl.Outstanding())
	}
}
