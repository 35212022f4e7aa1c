package battle

// MaxLogEntries is the number of messages a battle log keeps.
const MaxLogEntries = 10

// MessageLog is a bounded ring of the most recent battle messages.
type MessageLog struct {
	entries []Message
	start   int
	size    int
}

// NewMessageLog creates a log holding at most capacity entries.
func NewMessageLog(capacity int) *MessageLog {
	if capacity < 1 {
		capacity = 1
	}
	return &MessageLog{entries: make([]Message, capacity)}
}

// Append adds a message, evicting the oldest one when full.
func (l *MessageLog) Append(m Message) {
	idx := (l.start + l.size) % len(l.entries)
	l.entries[idx] = m
	if l.size < len(l.entries) {
		l.size++
		return
	}
	l.start = (l.start + 1) % len(l.entries)
}

// Entries returns the messages oldest first.
func (l *MessageLog) Entries() []Message {
	out := make([]Message, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.entries[(l.start+i)%len(l.entries)])
	}
	return out
}

// Len returns the number of stored messages.
func (l *MessageLog) Len() int {
	return l.size
}
