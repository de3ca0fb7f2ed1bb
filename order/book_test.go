package order

import "testing"

func TestBook_WorkingBySymbol(t *testing.T) {
	b := NewBook()
	b.Set(Order{ID: "1", Symbol: "ES", Side: SideBuy, Quantity: 1})
	b.Set(Order{ID: "2", Symbol: "NQ", Side: SideSell, Quantity: 2})
	b.Set(Order{ID: "3", Symbol: "ES", Side: SideSell, Quantity: 3})

	if n := b.NumWorking("ES"); n != 2 {
		t.Errorf("NumWorking(ES) = %d, want 2", n)
	}
	if n := b.NumWorking("NQ"); n != 1 {
		t.Errorf("NumWorking(NQ) = %d, want 1", n)
	}
	if n := b.NumWorking("CL"); n != 0 {
		t.Errorf("NumWorking(CL) = %d, want 0", n)
	}

	es := b.Working("ES")
	if len(es) != 2 || es[0].ID != "1" || es[1].ID != "3" {
		t.Errorf("Working(ES) not in submission order: %+v", es)
	}
}

func TestBook_Remove(t *testing.T) {
	b := NewBook()
	b.Set(Order{ID: "1", Symbol: "ES"})
	b.Set(Order{ID: "2", Symbol: "ES"})

	b.Remove("1")
	if _, ok := b.Get("1"); ok {
		t.Error("Order 1 still present after Remove")
	}
	if n := b.NumWorking("ES"); n != 1 {
		t.Errorf("NumWorking(ES) = %d, want 1", n)
	}

	// Removing an unknown id is a no-op.
	b.Remove("missing")
	if n := b.NumWorking("ES"); n != 1 {
		t.Errorf("NumWorking(ES) after no-op remove = %d, want 1", n)
	}
}
