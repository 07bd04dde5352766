package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a sampling event for post-mortem analysis
type TimingEvent struct {
	EventType uint8
	Clock     uint32 // foreground time at record
	Value1    uint32 // context-dependent
	Value2    uint32 // context-dependent
}

// Event type codes
const (
	EvtSamplerInit = 1 // Init armed sampling; v1=0 v2=interrupt rate
	EvtFirstStamp  = 2 // first timestamp of a pair; v1=cycles
	EvtDelta       = 3 // pair completed; v1=first stamp v2=delta
	EvtSamplerStop = 4 // Stop; v1=firings v2=pairs
	EvtFlashReady  = 5 // flash identified; v1=JEDEC id v2=status
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln; off by default so the UART does not
	// steal time from sampling.
	debugEnabled bool

	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  = true

	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns event capture on or off.
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// InitAsyncDebug starts the async debug output goroutine.
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a message for the async worker. Drops the message when
// the queue is full or the worker was never started.
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer. Safe to call from the
// sampling interrupt: no allocation, no locking.
func RecordEvent(eventType uint8, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Clock:     GetTime(),
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// RecordTaskEvent records from foreground code, where the sampling
// interrupt may otherwise preempt the ring update.
func RecordTaskEvent(eventType uint8, value1, value2 uint32) {
	state := disableInterrupts()
	RecordEvent(eventType, value1, value2)
	restoreInterrupts(state)
}

// TimingEvents returns the recorded events, oldest first.
func TimingEvents() []TimingEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func eventName(t uint8) string {
	switch t {
	case EvtSamplerInit:
		return "INIT"
	case EvtFirstStamp:
		return "STAMP"
	case EvtDelta:
		return "DELTA"
	case EvtSamplerStop:
		return "STOP"
	case EvtFlashReady:
		return "FLASH"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing writes the ring through the debug writer regardless of
// the debug gate. Call on shutdown or error.
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + eventName(evt.EventType) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := disableInterrupts()
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
	restoreInterrupts(state)
}
