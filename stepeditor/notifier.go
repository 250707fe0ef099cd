package stepeditor

import "sync"

// Notice is one buffered advisory message.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// BufferNotifier collects notices so a transport layer can drain and deliver
// them with the next response. Safe for concurrent use.
type BufferNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

// NewBufferNotifier creates an empty buffer.
func NewBufferNotifier() *BufferNotifier {
	return &BufferNotifier{}
}

// Warn buffers a warning-level notice.
func (b *BufferNotifier) Warn(message string) {
	b.append("warning", message)
}

// Error buffers an error-level notice.
func (b *BufferNotifier) Error(message string) {
	b.append("error", message)
}

func (b *BufferNotifier) append(level, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{Level: level, Message: message})
}

// Drain returns all buffered notices and clears the buffer.
func (b *BufferNotifier) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	notices := b.notices
	b.notices = nil
	return notices
}
