package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentDefaultsToChat(t *testing.T) {
	r := New()
	assert.Equal(t, SectionChat, r.Current(1))
}

func TestNavigateUpdatesCurrent(t *testing.T) {
	r := New()
	r.Navigate(1, SectionPricing)
	assert.Equal(t, SectionPricing, r.Current(1))
	assert.Equal(t, SectionChat, r.Current(2), "chats are independent")
}

func TestOnNavigateHook(t *testing.T) {
	r := New()

	var gotChat int64
	var gotSection Section
	r.OnNavigate(func(chatID int64, section Section) {
		gotChat = chatID
		gotSection = section
	})

	r.Navigate(7, SectionRoutine)
	assert.Equal(t, int64(7), gotChat)
	assert.Equal(t, SectionRoutine, gotSection)
}
