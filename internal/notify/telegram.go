package notify

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
)

// Telegram delivers reminders as chat messages with an attached audio cue.
type Telegram struct {
	bot *telego.Bot
}

func NewTelegram(bot *telego.Bot) *Telegram {
	return &Telegram{bot: bot}
}

func (t *Telegram) Notify(ctx context.Context, chatID int64, item routine.Item) error {
	label := "leitura"
	emoji := "📖"
	if item.Category == routine.CategoryPrayer {
		label = "oração"
		emoji = "🙏"
	}

	text := fmt.Sprintf("%s Hora de sua %s: %s\n\nLembrete espiritual agendado para as %s.",
		emoji, label, item.Title, item.Time)

	_, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// Cue sends the synthesized tone for the sound id. Fire and forget: failures
// are logged, never surfaced.
func (t *Telegram) Cue(ctx context.Context, chatID int64, sound routine.Sound) {
	wav := Synthesize(sound)
	if wav == nil {
		return
	}

	audio := tu.Audio(
		tu.ID(chatID),
		tu.File(tu.NameReader(bytes.NewReader(wav), string(sound)+".wav")),
	).WithTitle("Lembrete Bíblia Viva")

	if _, err := t.bot.SendAudio(ctx, audio); err != nil {
		log.Printf("chat %d: failed to send audio cue %s: %v", chatID, sound, err)
	}
}
