package entropy

import "testing"

func TestCountingCode(t *testing.T) {
	c := NewCounting(4)
	c.Code(0, 0)
	c.Code(0, 0)
	c.Code(0, 1)
	c.Code(3, 1)

	if zero, one := c.Counts(0); zero != 2 || one != 1 {
		t.Fatalf("Counts(0) = (%d, %d), want (2, 1)", zero, one)
	}
	if zero, one := c.Counts(3); zero != 0 || one != 1 {
		t.Fatalf("Counts(3) = (%d, %d), want (0, 1)", zero, one)
	}
	if zero, one := c.Counts(1); zero != 0 || one != 0 {
		t.Fatalf("Counts(1) = (%d, %d), want (0, 0)", zero, one)
	}
}

func TestCountingCodeReturnsZeroSize(t *testing.T) {
	c := NewCounting(1)
	if size := c.Code(0, 1); size != 0 {
		t.Fatalf("Code returned %d, want 0", size)
	}
}

func TestCountingReset(t *testing.T) {
	c := NewCounting(2)
	c.Code(0, 1)
	c.Code(1, 0)
	c.Reset()
	for i := 0; i < c.NumContexts(); i++ {
		zero, one := c.Counts(int32(i))
		if zero != 0 || one != 0 {
			t.Fatalf("Counts(%d) = (%d, %d) after Reset, want (0, 0)", i, zero, one)
		}
	}
}

func TestCountingEncodeNumberRoundTripsThroughCode(t *testing.T) {
	c := NewCounting(64)
	c.EncodeNumber(0, 13)
	// 13 needs two continuation bits before the stop bit, so the context
	// at offset 2*2+2=6 should have recorded the stop (a zero).
	if zero, one := c.Counts(6); zero != 1 || one != 0 {
		t.Fatalf("stop-bit context got (%d, %d), want (1, 0)", zero, one)
	}
}

func TestMerge(t *testing.T) {
	old := NewCounting(1)
	for i := 0; i < 12; i++ {
		old.Code(0, 0)
	}
	for i := 0; i < 4; i++ {
		old.Code(0, 1)
	}

	n := NewCounting(1)
	n.Code(0, 1)
	n.Code(0, 1)

	merged := Merge(old, n)
	zero, one := merged.Counts(0)
	if zero != (12*3+0)/4 {
		t.Fatalf("merged zero count = %d, want %d", zero, (12*3+0)/4)
	}
	if one != (4*3+2)/4 {
		t.Fatalf("merged one count = %d, want %d", one, (4*3+2)/4)
	}
}

func TestMergePanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Merge did not panic on mismatched context counts")
		}
	}()
	Merge(NewCounting(1), NewCounting(2))
}
