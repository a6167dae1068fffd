package application

import (
	"sync"

	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// LanguageModelProvider enables runtime hot-swap of the language-model client.
// It holds a mutex-protected reference to the current driven.LanguageModel so
// an API key change takes effect without restarting the application.
type LanguageModelProvider struct {
	mu     sync.RWMutex
	client driven.LanguageModel
}

// NewLanguageModelProvider creates a provider with the given initial client.
// client may be nil if no API key is available at startup.
func NewLanguageModelProvider(client driven.LanguageModel) *LanguageModelProvider {
	return &LanguageModelProvider{client: client}
}

// Get returns the current client, or nil.
func (p *LanguageModelProvider) Get() driven.LanguageModel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Replace swaps the current client. Pass nil to disable the assistant.
func (p *LanguageModelProvider) Replace(client driven.LanguageModel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

// HasClient returns true if a non-nil client is currently held.
func (p *LanguageModelProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
