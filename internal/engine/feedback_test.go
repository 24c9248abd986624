package engine

import (
	"testing"
	"time"
)

func TestFeedbackDispatcher_CooldownDropsRoutineMessages(t *testing.T) {
	clock := newTestClock()
	var d feedbackDispatcher

	d.offer("första", false, clock.now())
	if a := d.takePending(); a == nil || a.Text != "första" {
		t.Fatalf("first routine message not queued: %+v", a)
	}

	// Within the cooldown the speech is dropped but the text still updates.
	clock.advance(2 * time.Second)
	d.offer("andra", false, clock.now())
	if d.text != "andra" {
		t.Errorf("on-screen text = %q, want %q", d.text, "andra")
	}
	if a := d.takePending(); a != nil {
		t.Errorf("routine message inside cooldown was queued: %+v", a)
	}

	// After the cooldown routine messages pass again.
	clock.advance(3 * time.Second)
	d.offer("tredje", false, clock.now())
	if a := d.takePending(); a == nil || a.Text != "tredje" {
		t.Errorf("routine message after cooldown not queued: %+v", a)
	}
}

func TestFeedbackDispatcher_PriorityOverridesAndResetsCooldown(t *testing.T) {
	clock := newTestClock()
	var d feedbackDispatcher

	d.offer("rutin", false, clock.now())
	d.takePending()

	// Priority passes immediately, mid-cooldown.
	clock.advance(time.Second)
	d.offer("viktigt!", true, clock.now())
	a := d.takePending()
	if a == nil || !a.Priority {
		t.Fatalf("priority message not queued: %+v", a)
	}

	// The cooldown restarts from the priority message.
	clock.advance(3 * time.Second)
	d.offer("rutin igen", false, clock.now())
	if a := d.takePending(); a != nil {
		t.Errorf("routine message queued only %v after priority: %+v", 3*time.Second, a)
	}
}

func TestFeedbackDispatcher_OneSlotOutbox(t *testing.T) {
	clock := newTestClock()
	var d feedbackDispatcher

	d.offer("ett", true, clock.now())
	d.offer("två", true, clock.now())

	// The newer announcement replaces the older one.
	if a := d.takePending(); a == nil || a.Text != "två" {
		t.Errorf("pending = %+v, want the latest message", a)
	}
	if a := d.takePending(); a != nil {
		t.Errorf("second take returned %+v, want nil", a)
	}
}
