package bot

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jmhodges/clock"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"gorm.io/gorm"

	"github.com/niltonmoco5-source/The-super-bible/internal/ai"
	"github.com/niltonmoco5-source/The-super-bible/internal/favorites"
	"github.com/niltonmoco5-source/The-super-bible/internal/models"
	"github.com/niltonmoco5-source/The-super-bible/internal/payment"
	"github.com/niltonmoco5-source/The-super-bible/internal/router"
	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
	"github.com/niltonmoco5-source/The-super-bible/internal/store"
	"github.com/niltonmoco5-source/The-super-bible/internal/subscription"
)

const maxHistory = 40

type lastSearch struct {
	Query   string
	Content string
}

type Bot struct {
	Instance      *telego.Bot
	Token         string
	DB            *gorm.DB
	KV            store.KV
	AI            *ai.Client
	PaymentClient *payment.Client
	Gate          *subscription.Gate
	Router        *router.Router
	Book          *routine.Book
	Favorites     *favorites.Board
	Clk           clock.Clock
	ReturnURL     string

	UserStates map[int64]string
	StatesMu   sync.RWMutex

	histories  map[int64][]ai.Message
	searches   map[int64]lastSearch
	sessionsMu sync.Mutex
}

func NewBot(token string, db *gorm.DB, kv store.KV, aiClient *ai.Client, paymentClient *payment.Client,
	gate *subscription.Gate, rtr *router.Router, book *routine.Book, favs *favorites.Board,
	clk clock.Clock, returnURL string) (*Bot, error) {

	tgBot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		Instance:      tgBot,
		Token:         token,
		DB:            db,
		KV:            kv,
		AI:            aiClient,
		PaymentClient: paymentClient,
		Gate:          gate,
		Router:        rtr,
		Book:          book,
		Favorites:     favs,
		Clk:           clk,
		ReturnURL:     returnURL,
		UserStates:    make(map[int64]string),
		histories:     make(map[int64][]ai.Message),
		searches:      make(map[int64]lastSearch),
	}

	// Forced navigation (expired trial, post-upgrade return) must be visible
	// to the user, so every navigation pushes the section view.
	rtr.OnNavigate(func(chatID int64, section router.Section) {
		b.renderSection(context.Background(), chatID, section)
	})

	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	updates, _ := b.Instance.UpdatesViaLongPolling(ctx, nil)

	handler, _ := th.NewBotHandler(b.Instance, updates)

	// /start command
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		chatID := message.Chat.ID

		var user models.User
		if err := b.DB.FirstOrCreate(&user, models.User{TelegramID: chatID}).Error; err != nil {
			log.Printf("Failed to get/create user: %v", err)
		}
		if user.Username == "" && message.From != nil {
			user.Username = message.From.Username
			if err := b.DB.Save(&user).Error; err != nil {
				log.Printf("Failed to update username: %v", err)
			}
		}

		info := b.Gate.Initialize(ctx.Context(), chatID)

		name := ""
		if message.From != nil {
			name = message.From.FirstName
		}
		verse := b.dailyVerse(ctx.Context())

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(chatID),
			fmt.Sprintf("Olá, %s! 🙏\n\nSou o Conselheiro Bíblico Vivo.\n\n📖 %s\n\nPlano atual: %s", name, verse, tierLabel(info.Tier)),
		).WithReplyMarkup(mainMenuKeyboard()))
		return nil
	}, th.CommandEqual("start"))

	b.registerCallbacks(handler)
	b.registerMessages(handler)

	handler.Start()
}

// ensureAccess runs a gate cycle for the chat and blocks the interaction
// when the trial has expired. Evaluate already forces the pricing view; the
// paywall message is what keeps every other panel locked until an upgrade.
func (b *Bot) ensureAccess(ctx context.Context, chatID int64) bool {
	info := b.Gate.Evaluate(ctx, chatID)
	if info.Tier != subscription.TierTrial || !info.IsExpired {
		return true
	}
	b.sendPaywall(ctx, chatID)
	return false
}

func (b *Bot) sendPaywall(ctx context.Context, chatID int64) {
	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("👑 Destravar Todos os Recursos").WithCallbackData("section:pricing"),
		),
	)
	_, _ = b.Instance.SendMessage(ctx, tu.Message(
		tu.ID(chatID),
		fmt.Sprintf("🔒 A Jornada Continua...\n\nSeu período de teste de %d dias chegou ao fim. Para continuar recebendo aconselhamento espiritual e manter sua rotina, escolha o seu plano.", subscription.TrialDays),
	).WithReplyMarkup(keyboard))
}

// dailyVerse returns today's verse, generating and caching it once per day.
func (b *Bot) dailyVerse(ctx context.Context) string {
	key := store.VerseKey(b.Clk.Now().Format("2006-01-02"))

	cached, ok, err := b.KV.Get(ctx, key)
	if err != nil {
		log.Printf("failed to read verse cache: %v", err)
	}
	if ok && cached != "" {
		return cached
	}

	verse := b.AI.DailyVerse()
	if err := b.KV.Set(ctx, key, verse); err != nil {
		log.Printf("failed to cache daily verse: %v", err)
	}
	return verse
}

func (b *Bot) appendHistory(chatID int64, userText, modelText string) {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()

	h := append(b.histories[chatID],
		ai.Message{Role: "user", Text: userText},
		ai.Message{Role: "model", Text: modelText},
	)
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	b.histories[chatID] = h
}

func (b *Bot) history(chatID int64) []ai.Message {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	return append([]ai.Message(nil), b.histories[chatID]...)
}

func (b *Bot) setState(chatID int64, state string) {
	b.StatesMu.Lock()
	b.UserStates[chatID] = state
	b.StatesMu.Unlock()
}

func (b *Bot) clearState(chatID int64) {
	b.StatesMu.Lock()
	delete(b.UserStates, chatID)
	b.StatesMu.Unlock()
}

func (b *Bot) state(chatID int64) string {
	b.StatesMu.RLock()
	defer b.StatesMu.RUnlock()
	return b.UserStates[chatID]
}

func tierLabel(tier subscription.Tier) string {
	switch tier {
	case subscription.TierPro:
		return "Pro Global 👑"
	case subscription.TierBlessed:
		return "Abençoado Internacional ⭐"
	default:
		return fmt.Sprintf("Teste gratuito (%d dias)", subscription.TrialDays)
	}
}

func mainMenuKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("💬 Aconselhamento").WithCallbackData("section:chat"),
			tu.InlineKeyboardButton("🕊️ Situações").WithCallbackData("section:situations"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⏰ Minha Rotina").WithCallbackData("section:routine"),
			tu.InlineKeyboardButton("🔍 Buscar na Bíblia").WithCallbackData("section:bible_search"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⭐ Favoritos").WithCallbackData("section:favorites"),
			tu.InlineKeyboardButton("🎵 Recursos").WithCallbackData("section:resources"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🕯️ Mural de Fé").WithCallbackData("section:community"),
			tu.InlineKeyboardButton("👑 Planos").WithCallbackData("section:pricing"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🌓 Alternar tema").WithCallbackData("theme"),
		),
	)
}
