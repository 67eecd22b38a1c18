// Package clipboard copies match text to and reads search seeds from the
// system clipboard, keeping an internal register as fallback.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/textfinder/internal/logger"
)

// Manager handles clipboard operations
type Manager struct {
	mutex    sync.Mutex
	register string
	system   bool
}

// NewManager creates a clipboard manager. With useSystem false, or on
// platforms without clipboard support, only the internal register is used.
func NewManager(useSystem bool) *Manager {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("ClipboardManager: System clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{system: useSystem}
}

// Copy stores text in the register and the system clipboard.
func (m *Manager) Copy(text string) error {
	m.mutex.Lock()
	m.register = text
	system := m.system
	m.mutex.Unlock()

	if !system {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}
	logger.Debugf("ClipboardManager: Copied %d bytes", len(text))
	return nil
}

// Read returns the system clipboard content, or the register when the
// system clipboard is disabled or fails.
func (m *Manager) Read() (string, error) {
	m.mutex.Lock()
	register := m.register
	system := m.system
	m.mutex.Unlock()

	if !system {
		return register, nil
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		logger.Warnf("ClipboardManager: Read failed, using register: %v", err)
		return register, fmt.Errorf("read system clipboard: %w", err)
	}
	return text, nil
}
