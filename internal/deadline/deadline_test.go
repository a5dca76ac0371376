package deadline

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestController_FiresOnce(t *testing.T) {
	var fired atomic.Int32
	c := New(20*time.Millisecond, true, func() { fired.Add(1) })
	c.Arm()

	time.Sleep(100 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expected exactly 1 fire, got %d", fired.Load())
	}
	if c.State() != StateFired {
		t.Fatalf("expected StateFired, got %d", c.State())
	}
}

func TestController_CancelPreventsFire(t *testing.T) {
	var fired atomic.Int32
	c := New(20*time.Millisecond, true, func() { fired.Add(1) })
	c.Arm()
	c.Cancel()

	time.Sleep(100 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("expected no fire after cancel, got %d", fired.Load())
	}
	if c.State() != StateCancelled {
		t.Fatalf("expected StateCancelled, got %d", c.State())
	}
}

func TestController_ResetExtendsDeadline(t *testing.T) {
	var fired atomic.Int32
	c := New(60*time.Millisecond, true, func() { fired.Add(1) })
	c.Arm()

	time.Sleep(30 * time.Millisecond)
	c.Reset() // re-arm for another full 60ms from here

	time.Sleep(40 * time.Millisecond) // 70ms since Arm, but only 40ms since Reset
	if fired.Load() != 0 {
		t.Fatal("expected deadline not to have fired yet after reset")
	}

	time.Sleep(40 * time.Millisecond) // 80ms since Reset
	if fired.Load() != 1 {
		t.Fatalf("expected deadline to fire after reset window elapses, got %d", fired.Load())
	}
}

func TestController_ResetNoopWhenDisabled(t *testing.T) {
	var fired atomic.Int32
	c := New(20*time.Millisecond, false, func() { fired.Add(1) })
	c.Arm()
	c.Reset() // should be a no-op

	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expected the original timer to still fire once, got %d", fired.Load())
	}
}

func TestController_ResetAfterFireIsNoop(t *testing.T) {
	var fired atomic.Int32
	c := New(10*time.Millisecond, true, func() { fired.Add(1) })
	c.Arm()
	time.Sleep(50 * time.Millisecond)
	c.Reset()
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expected exactly one fire despite reset-after-fire, got %d", fired.Load())
	}
}
