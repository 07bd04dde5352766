package core

// Timer represents a scheduled foreground event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps foreground timers sorted by wake time. It is not touched
// from interrupt context.
type Scheduler struct {
	head *Timer
}

// Schedule inserts t in wake-time order. Timers with equal wake times run
// in insertion order.
func (s *Scheduler) Schedule(t *Timer) {
	t.Next = nil
	if s.head == nil || timeBefore(t.WakeTime, s.head.WakeTime) {
		t.Next = s.head
		s.head = t
		return
	}

	cur := s.head
	for cur.Next != nil && !timeBefore(t.WakeTime, cur.Next.WakeTime) {
		cur = cur.Next
	}
	t.Next = cur.Next
	cur.Next = t
}

// Cancel removes t if it is scheduled.
func (s *Scheduler) Cancel(t *Timer) {
	if s.head == t {
		s.head = t.Next
		t.Next = nil
		return
	}
	for cur := s.head; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// Pending returns the number of scheduled timers.
func (s *Scheduler) Pending() int {
	n := 0
	for cur := s.head; cur != nil; cur = cur.Next {
		n++
	}
	return n
}

// Dispatch runs every timer due at now. Handlers returning SF_RESCHEDULE
// are reinserted at their (updated) WakeTime; a handler that reschedules
// itself into the past runs again in the same dispatch.
func (s *Scheduler) Dispatch(now uint32) {
	for s.head != nil && !timeBefore(now, s.head.WakeTime) {
		t := s.head
		s.head = t.Next
		t.Next = nil

		if t.Handler(t) == SF_RESCHEDULE {
			s.Schedule(t)
		}
	}
}

// timeBefore compares wrapping 32-bit tick values.
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
