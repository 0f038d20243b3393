package bot

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"gorm.io/gorm"

	"github.com/niltonmoco5-source/The-super-bible/internal/ai"
	"github.com/niltonmoco5-source/The-super-bible/internal/models"
	"github.com/niltonmoco5-source/The-super-bible/internal/payment"
	"github.com/niltonmoco5-source/The-super-bible/internal/router"
	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
	"github.com/niltonmoco5-source/The-super-bible/internal/store"
	"github.com/niltonmoco5-source/The-super-bible/internal/subscription"
)

const (
	stateAwaitingSearch    = "AWAITING_SEARCH"
	stateAwaitingTheme     = "AWAITING_THEME"
	stateAwaitingRoutine   = "AWAITING_ROUTINE"
	stateAwaitingTestimony = "AWAITING_TESTIMONY"
)

func (b *Bot) registerCallbacks(handler *th.BotHandler) {
	// Section navigation
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID
		section := router.Section(strings.TrimPrefix(callback.Data, "section:"))

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		// The pricing panel stays reachable behind the paywall, everything
		// else is locked.
		if section != router.SectionPricing && !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		b.Router.Navigate(chatID, section)
		return nil
	}, th.CallbackDataPrefix("section:"))

	// Situation quick prompts feed straight into the counseling chat.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID
		id := strings.TrimPrefix(callback.Data, "situation:")

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		for _, s := range ai.Situations {
			if s.ID == id {
				b.Router.Navigate(chatID, router.SectionChat)
				b.chatReply(ctx.Context(), chatID, s.Prompt)
				return nil
			}
		}
		return nil
	}, th.CallbackDataPrefix("situation:"))

	// Add routine item. Registered before the "rt_" prefix handler: dispatch
	// is first-match and the prefix would swallow "rt_add".
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		b.setState(chatID, stateAwaitingRoutine)
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(chatID),
			"➕ Novo momento da rotina.\n\nEnvie no formato:\nHH:MM | Título | oração ou leitura | diário, dias úteis ou fins de semana | harpa, sino, natureza ou silencioso\n\nExemplo:\n07:00 | Oração Matinal | oração | diário | harpa",
		))
		return nil
	}, th.CallbackDataEqual("rt_add"))

	// Routine item actions
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		var err error
		switch {
		case strings.HasPrefix(callback.Data, "rt_done:"):
			_, err = b.Book.ToggleCompleted(ctx.Context(), chatID, strings.TrimPrefix(callback.Data, "rt_done:"))
		case strings.HasPrefix(callback.Data, "rt_bell:"):
			_, err = b.Book.ToggleReminder(ctx.Context(), chatID, strings.TrimPrefix(callback.Data, "rt_bell:"))
		case strings.HasPrefix(callback.Data, "rt_del:"):
			_, err = b.Book.Delete(ctx.Context(), chatID, strings.TrimPrefix(callback.Data, "rt_del:"))
		}
		if err != nil {
			log.Printf("chat %d: routine action failed: %v", chatID, err)
		}

		b.renderRoutine(ctx.Context(), chatID)
		return nil
	}, th.CallbackDataPrefix("rt_"))

	// Buy a plan: send the checkout URL. The tier is granted by the payment
	// webhook, not here.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID
		tier := subscription.Tier(strings.TrimPrefix(callback.Data, "buy:"))

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		plan, ok := payment.PlanFor(tier)
		if !ok {
			return nil
		}

		metadata := map[string]string{
			"telegram_id": strconv.FormatInt(chatID, 10),
			"tier":        string(tier),
		}

		resp, err := b.PaymentClient.CreateCheckout(plan, b.ReturnURL, metadata)
		if err != nil {
			log.Printf("chat %d: failed to create checkout: %v", chatID, err)
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), "❌ Erro ao preparar o pagamento. Tente novamente em instantes."))
			return nil
		}

		var user models.User
		if err := b.DB.FirstOrCreate(&user, models.User{TelegramID: chatID}).Error; err == nil {
			amount, _ := strconv.ParseFloat(plan.Amount, 64)
			b.DB.Create(&models.Payment{
				UserID:     user.ID,
				Amount:     amount,
				Currency:   plan.Currency,
				Tier:       string(tier),
				Status:     "pending",
				YooKassaID: resp.ID,
			})
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(chatID),
			fmt.Sprintf("💳 Conectando ao Gateway Seguro...\n\n%s — €%s/%s\n\nConclua o pagamento aqui:\n%s\n\nSeu plano será ativado automaticamente assim que o pagamento for confirmado. 🔒", plan.Name, plan.Amount, plan.Period, resp.Confirmation.ConfirmationURL),
		))
		return nil
	}, th.CallbackDataPrefix("buy:"))

	// Like a testimony
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		id, err := strconv.ParseUint(strings.TrimPrefix(callback.Data, "like:"), 10, 64)
		if err != nil {
			return nil
		}
		if err := b.DB.Model(&models.Experience{}).Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			log.Printf("chat %d: failed to like experience %d: %v", chatID, id, err)
		}

		b.renderCommunity(ctx.Context(), chatID)
		return nil
	}, th.CallbackDataPrefix("like:"))

	// Share a testimony
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		b.setState(chatID, stateAwaitingTestimony)
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(chatID),
			"🕯️ Compartilhe seu testemunho.\n\nEnvie no formato:\ncategoria | texto | referência (opcional)\n\nCategorias: fé, cura, gratidão, superação, provisão, paz, família\n\nExemplo:\ngratidão | Deus proveu em um momento difícil. | Filipenses 4:19",
		))
		return nil
	}, th.CallbackDataEqual("testimony_add"))

	// Save or remove the last search as a favorite
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		if !b.ensureAccess(ctx.Context(), chatID) {
			_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))
			return nil
		}

		b.sessionsMu.Lock()
		last, ok := b.searches[chatID]
		b.sessionsMu.Unlock()
		if !ok {
			_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID).WithText("Nada para favoritar."))
			return nil
		}

		added, err := b.Favorites.Toggle(ctx.Context(), chatID, last.Query, last.Content)
		if err != nil {
			log.Printf("chat %d: failed to toggle favorite: %v", chatID, err)
		}
		text := "⭐ Passagem salva nos favoritos!"
		if !added {
			text = "Removida dos favoritos."
		}
		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID).WithText(text))
		return nil
	}, th.CallbackDataEqual("fav_toggle"))

	// Theme preference toggle, kept as a persisted slot so other surfaces
	// (web, future clients) can share it.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		current, _, err := b.KV.Get(ctx.Context(), store.ThemeKey(chatID))
		if err != nil {
			log.Printf("chat %d: failed to read theme: %v", chatID, err)
		}
		next := "dark"
		label := "escuro 🌙"
		if current == "dark" {
			next = "light"
			label = "claro ☀️"
		}
		if err := b.KV.Set(ctx.Context(), store.ThemeKey(chatID), next); err != nil {
			log.Printf("chat %d: failed to save theme: %v", chatID, err)
		}

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID).WithText("Tema "+label))
		return nil
	}, th.CallbackDataEqual("theme"))

	// Remove a favorite by its position on the board
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		callback := update.CallbackQuery
		chatID := callback.From.ID

		_ = ctx.Bot().AnswerCallbackQuery(ctx.Context(), tu.CallbackQuery(callback.ID))

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		idx, err := strconv.Atoi(strings.TrimPrefix(callback.Data, "fav_del:"))
		if err != nil {
			return nil
		}
		passages := b.Favorites.List(ctx.Context(), chatID)
		if idx < 0 || idx >= len(passages) {
			return nil
		}
		if _, err := b.Favorites.Toggle(ctx.Context(), chatID, passages[idx].Query, passages[idx].Content); err != nil {
			log.Printf("chat %d: failed to remove favorite: %v", chatID, err)
		}

		b.renderFavorites(ctx.Context(), chatID)
		return nil
	}, th.CallbackDataPrefix("fav_del:"))
}

func (b *Bot) registerMessages(handler *th.BotHandler) {
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if message == nil {
			return nil
		}
		chatID := message.Chat.ID

		if message.Voice != nil {
			if !b.ensureAccess(ctx.Context(), chatID) {
				return nil
			}
			b.handleVoice(ctx.Context(), chatID, message.Voice)
			return nil
		}

		text := strings.TrimSpace(message.Text)
		if text == "" {
			return nil
		}
		if strings.HasPrefix(text, "/") {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), "Use o menu abaixo para navegar. 🙏").WithReplyMarkup(mainMenuKeyboard()))
			return nil
		}

		if !b.ensureAccess(ctx.Context(), chatID) {
			return nil
		}

		switch b.state(chatID) {
		case stateAwaitingSearch:
			b.clearState(chatID)
			b.handleSearch(ctx.Context(), chatID, text)
		case stateAwaitingTheme:
			b.clearState(chatID)
			result := b.AI.MediaRecommendations(text)
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), "🎵 "+result))
		case stateAwaitingRoutine:
			b.clearState(chatID)
			b.handleRoutineAdd(ctx.Context(), chatID, text)
		case stateAwaitingTestimony:
			b.clearState(chatID)
			b.handleTestimony(ctx.Context(), chatID, message, text)
		default:
			b.chatReply(ctx.Context(), chatID, text)
		}
		return nil
	}, th.AnyMessage())
}

func (b *Bot) chatReply(ctx context.Context, chatID int64, text string) {
	reply := b.AI.Chat(b.history(chatID), text)
	b.appendHistory(chatID, text, reply)
	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), reply))
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, query string) {
	result := b.AI.SearchBible(query)

	b.sessionsMu.Lock()
	b.searches[chatID] = lastSearch{Query: query, Content: result}
	b.sessionsMu.Unlock()

	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⭐ Favoritar").WithCallbackData("fav_toggle"),
			tu.InlineKeyboardButton("🔍 Nova busca").WithCallbackData("section:bible_search"),
		),
	)
	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), result).WithReplyMarkup(keyboard))
}

// handleVoice downloads the voice note and relays it to the counselor, which
// answers in the language it hears.
func (b *Bot) handleVoice(ctx context.Context, chatID int64, voice *telego.Voice) {
	file, err := b.Instance.GetFile(ctx, &telego.GetFileParams{FileID: voice.FileID})
	if err != nil {
		log.Printf("chat %d: failed to get voice file: %v", chatID, err)
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "Não consegui ouvir seu áudio. Pode tentar novamente?"))
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", b.Token, file.FilePath)
	resp, err := http.Get(url)
	if err != nil {
		log.Printf("chat %d: failed to download voice file: %v", chatID, err)
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "Não consegui ouvir seu áudio. Pode tentar novamente?"))
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("chat %d: failed to read voice file: %v", chatID, err)
		return
	}

	reply := b.AI.ChatWithAudio(base64.StdEncoding.EncodeToString(data), "audio/ogg", b.history(chatID))
	b.appendHistory(chatID, "[mensagem de voz]", reply)
	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), reply))
}

// handleRoutineAdd parses "HH:MM | Título | oração/leitura | recorrência | som".
func (b *Bot) handleRoutineAdd(ctx context.Context, chatID int64, text string) {
	parts := strings.Split(text, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "❌ Formato inválido. Exemplo:\n07:00 | Oração Matinal | oração | diário | harpa"))
		return
	}

	item := routine.Item{
		Title:          parts[1],
		Category:       routine.CategoryPrayer,
		Time:           parts[0],
		ReminderActive: true,
		Sound:          routine.SoundHarp,
		Recurrence:     routine.RecurDaily,
	}
	if len(parts) > 2 {
		item.Category = parseCategory(parts[2])
	}
	if len(parts) > 3 {
		item.Recurrence = parseRecurrence(parts[3])
	}
	if len(parts) > 4 {
		item.Sound = parseSound(parts[4])
	}

	if _, err := b.Book.Add(ctx, chatID, item); err != nil {
		log.Printf("chat %d: failed to add routine item: %v", chatID, err)
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "❌ Não consegui salvar. Confira o horário (HH:MM) e tente de novo."))
		return
	}

	b.renderRoutine(ctx, chatID)
}

func (b *Bot) handleTestimony(ctx context.Context, chatID int64, message *telego.Message, text string) {
	parts := strings.Split(text, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[1] == "" {
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "❌ Formato inválido. Exemplo:\ngratidão | Deus proveu em um momento difícil. | Filipenses 4:19"))
		return
	}

	var user models.User
	if err := b.DB.FirstOrCreate(&user, models.User{TelegramID: chatID}).Error; err != nil {
		log.Printf("chat %d: failed to resolve user for testimony: %v", chatID, err)
		return
	}

	author := "Anônimo"
	if message.From != nil && message.From.FirstName != "" {
		author = message.From.FirstName
	}

	exp := models.Experience{
		UserID:    user.ID,
		Author:    author,
		Text:      parts[1],
		Category:  parseExperienceCategory(parts[0]),
		Reference: "",
	}
	if len(parts) > 2 {
		exp.Reference = parts[2]
	}

	if err := b.DB.Create(&exp).Error; err != nil {
		log.Printf("chat %d: failed to save testimony: %v", chatID, err)
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "❌ Não consegui publicar seu testemunho agora."))
		return
	}

	b.renderCommunity(ctx, chatID)
}

func parseCategory(s string) routine.Category {
	if strings.Contains(strings.ToLower(s), "leitura") {
		return routine.CategoryReading
	}
	return routine.CategoryPrayer
}

func parseRecurrence(s string) routine.Recurrence {
	switch strings.ToLower(s) {
	case "dias úteis", "dias uteis", "weekdays":
		return routine.RecurWeekdays
	case "fins de semana", "fim de semana", "weekends":
		return routine.RecurWeekends
	default:
		return routine.RecurDaily
	}
}

func parseSound(s string) routine.Sound {
	switch strings.ToLower(s) {
	case "sino", "bell":
		return routine.SoundBell
	case "natureza", "nature":
		return routine.SoundNature
	case "silencioso", "nenhum", "none":
		return routine.SoundNone
	default:
		return routine.SoundHarp
	}
}

func parseExperienceCategory(s string) string {
	switch strings.ToLower(s) {
	case "cura", "gratidão", "superação", "provisão", "paz", "família":
		return strings.ToLower(s)
	default:
		return "fé"
	}
}
