package engine

import "time"

// feedbackCooldown is the minimum gap between spoken non-priority messages.
// Priority messages always pass and reset the cooldown.
const feedbackCooldown = 4000 * time.Millisecond

// Announcement is a message queued for the speech adapter. The engine keeps
// at most one pending announcement; a newer one replaces it.
type Announcement struct {
	Text     string
	Priority bool
	At       time.Time
}

// feedbackDispatcher rate-limits spoken feedback while always keeping the
// on-screen text current.
type feedbackDispatcher struct {
	text       string
	lastSpoken time.Time
	pending    *Announcement
}

// offer submits a message. The on-screen text updates unconditionally; the
// message is queued for speech only if it is priority or the cooldown has
// elapsed.
func (d *feedbackDispatcher) offer(text string, priority bool, now time.Time) {
	d.text = text

	if !priority && !d.lastSpoken.IsZero() && now.Sub(d.lastSpoken) < feedbackCooldown {
		return
	}

	d.pending = &Announcement{Text: text, Priority: priority, At: now}
	d.lastSpoken = now
}

// takePending removes and returns the queued announcement, or nil when the
// outbox is empty.
func (d *feedbackDispatcher) takePending() *Announcement {
	a := d.pending
	d.pending = nil
	return a
}
