package router

import "sync"

// Section is one of the app's view panels.
type Section string

const (
	SectionChat        Section = "chat"
	SectionRoutine     Section = "routine"
	SectionSituations  Section = "situations"
	SectionResources   Section = "resources"
	SectionBibleSearch Section = "bible_search"
	SectionFavorites   Section = "favorites"
	SectionCommunity   Section = "community"
	SectionPricing     Section = "pricing"
)

// Router tracks which section each chat is currently looking at. Forced
// navigation (the paywall, the post-upgrade return to chat) goes through
// Navigate so the change is observable by the bot via the hook.
type Router struct {
	mu         sync.RWMutex
	sections   map[int64]Section
	onNavigate func(chatID int64, section Section)
}

func New() *Router {
	return &Router{sections: make(map[int64]Section)}
}

// OnNavigate registers a hook invoked after every navigation. The bot uses it
// to push the new section's view to the chat.
func (r *Router) OnNavigate(fn func(chatID int64, section Section)) {
	r.mu.Lock()
	r.onNavigate = fn
	r.mu.Unlock()
}

func (r *Router) Navigate(chatID int64, section Section) {
	r.mu.Lock()
	r.sections[chatID] = section
	fn := r.onNavigate
	r.mu.Unlock()

	if fn != nil {
		fn(chatID, section)
	}
}

// Current returns the chat's active section, defaulting to chat.
func (r *Router) Current(chatID int64) Section {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sections[chatID]; ok {
		return s
	}
	return SectionChat
}
