package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/niltonmoco5-source/The-super-bible/internal/ai"
	"github.com/niltonmoco5-source/The-super-bible/internal/models"
	"github.com/niltonmoco5-source/The-super-bible/internal/payment"
	"github.com/niltonmoco5-source/The-super-bible/internal/router"
	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
)

// renderSection pushes a section's view to the chat. It runs on every
// navigation, user-driven or forced.
func (b *Bot) renderSection(ctx context.Context, chatID int64, section router.Section) {
	switch section {
	case router.SectionChat:
		_, _ = b.Instance.SendMessage(ctx, tu.Message(
			tu.ID(chatID),
			"💬 Estou aqui para te ouvir.\n\nConte-me o que está em seu coração, por texto ou áudio, e buscaremos juntos a orientação das Escrituras.",
		))
	case router.SectionSituations:
		b.renderSituations(ctx, chatID)
	case router.SectionRoutine:
		b.renderRoutine(ctx, chatID)
	case router.SectionBibleSearch:
		b.setState(chatID, stateAwaitingSearch)
		_, _ = b.Instance.SendMessage(ctx, tu.Message(
			tu.ID(chatID),
			"🔍 O que você procura?\n\nDigite uma referência (ex: João 3, Salmo 23) ou um tema (ex: amor, perdão).",
		))
	case router.SectionFavorites:
		b.renderFavorites(ctx, chatID)
	case router.SectionResources:
		b.setState(chatID, stateAwaitingTheme)
		_, _ = b.Instance.SendMessage(ctx, tu.Message(
			tu.ID(chatID),
			"🎵 Recursos para edificação.\n\nDigite um tema (ex: esperança, gratidão) e sugerirei uma música de louvor e um vídeo de estudo.",
		))
	case router.SectionCommunity:
		b.renderCommunity(ctx, chatID)
	case router.SectionPricing:
		b.renderPricing(ctx, chatID)
	}
}

func (b *Bot) renderSituations(ctx context.Context, chatID int64) {
	rows := make([][]telego.InlineKeyboardButton, 0, len(ai.Situations))
	for _, s := range ai.Situations {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("%s %s", s.Icon, s.Label)).WithCallbackData("situation:"+s.ID),
		))
	}
	keyboard := tu.InlineKeyboard(rows...)

	_, _ = b.Instance.SendMessage(ctx, tu.Message(
		tu.ID(chatID),
		"🕊️ Como você está se sentindo hoje?\n\nEscolha uma situação e levarei sua conversa ao Conselheiro.",
	).WithReplyMarkup(keyboard))
}

func (b *Bot) renderRoutine(ctx context.Context, chatID int64) {
	items := b.Book.Load(ctx, chatID)

	var sb strings.Builder
	sb.WriteString("⏰ Sua rotina espiritual:\n\n")
	rows := make([][]telego.InlineKeyboardButton, 0, len(items)+1)

	for _, it := range items {
		check := "⬜"
		if it.Completed {
			check = "✅"
		}
		bell := "🔕"
		if it.ReminderActive {
			bell = "🔔"
		}
		icon := "📖"
		if it.Category == routine.CategoryPrayer {
			icon = "🙏"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s %s — %s (%s)\n", check, it.Time, icon, it.Title, recurrenceLabel(it.Recurrence), soundLabel(it.Sound)))

		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(check+" "+it.Time).WithCallbackData("rt_done:"+it.ID),
			tu.InlineKeyboardButton(bell).WithCallbackData("rt_bell:"+it.ID),
			tu.InlineKeyboardButton("🗑").WithCallbackData("rt_del:"+it.ID),
		))
	}
	if len(items) == 0 {
		sb.WriteString("Nenhum item ainda.\n")
	}

	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("➕ Adicionar momento").WithCallbackData("rt_add"),
	))

	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), sb.String()).WithReplyMarkup(tu.InlineKeyboard(rows...)))
}

func (b *Bot) renderFavorites(ctx context.Context, chatID int64) {
	passages := b.Favorites.List(ctx, chatID)

	if len(passages) == 0 {
		_, _ = b.Instance.SendMessage(ctx, tu.Message(
			tu.ID(chatID),
			"⭐ Você ainda não tem passagens favoritas.\n\nUse a busca bíblica e toque em ⭐ para guardar uma passagem.",
		))
		return
	}

	var sb strings.Builder
	sb.WriteString("⭐ Suas passagens favoritas:\n")
	rows := make([][]telego.InlineKeyboardButton, 0, len(passages))
	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("\n%d. %s\n%s\n", i+1, p.Query, truncate(p.Content, 300)))
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("🗑 Remover %d", i+1)).WithCallbackData(fmt.Sprintf("fav_del:%d", i)),
		))
	}

	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), sb.String()).WithReplyMarkup(tu.InlineKeyboard(rows...)))
}

func (b *Bot) renderCommunity(ctx context.Context, chatID int64) {
	var experiences []models.Experience
	if err := b.DB.Order("created_at DESC").Limit(5).Find(&experiences).Error; err != nil {
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), "🕯️ O Mural de Fé está indisponível no momento."))
		return
	}

	var sb strings.Builder
	sb.WriteString("🕯️ Mural de Fé — testemunhos da comunidade:\n")
	rows := make([][]telego.InlineKeyboardButton, 0, len(experiences)+1)
	for _, exp := range experiences {
		sb.WriteString(fmt.Sprintf("\n%s %s:\n\"%s\"\n", categoryIcon(exp.Category), exp.Author, truncate(exp.Text, 400)))
		if exp.Reference != "" {
			sb.WriteString(fmt.Sprintf("📖 %s\n", exp.Reference))
		}
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("❤️ %d — %s", exp.Likes, truncate(exp.Author, 20))).WithCallbackData(fmt.Sprintf("like:%d", exp.ID)),
		))
	}
	if len(experiences) == 0 {
		sb.WriteString("\nSeja o primeiro a compartilhar um testemunho!\n")
	}

	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("➕ Compartilhar testemunho").WithCallbackData("testimony_add"),
	))

	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), sb.String()).WithReplyMarkup(tu.InlineKeyboard(rows...)))
}

func (b *Bot) renderPricing(ctx context.Context, chatID int64) {
	var sb strings.Builder
	sb.WriteString("👑 Escolha o seu plano:\n")
	rows := make([][]telego.InlineKeyboardButton, 0, len(payment.Plans))
	for _, plan := range payment.Plans {
		sb.WriteString(fmt.Sprintf("\n%s — €%s/%s\n", plan.Name, plan.Amount, plan.Period))
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("✨ Assinar %s", plan.Name)).WithCallbackData("buy:"+string(plan.Tier)),
		))
	}
	sb.WriteString("\nO pagamento é confirmado pelo gateway; seu plano ativa automaticamente após a aprovação. 🔒")

	_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), sb.String()).WithReplyMarkup(tu.InlineKeyboard(rows...)))
}

func recurrenceLabel(r routine.Recurrence) string {
	switch r {
	case routine.RecurWeekdays:
		return "dias úteis"
	case routine.RecurWeekends:
		return "fins de semana"
	default:
		return "diário"
	}
}

func soundLabel(s routine.Sound) string {
	switch s {
	case routine.SoundHarp:
		return "🎵 harpa"
	case routine.SoundBell:
		return "🔔 sino"
	case routine.SoundNature:
		return "🌿 natureza"
	default:
		return "silencioso"
	}
}

func categoryIcon(category string) string {
	switch category {
	case "cura":
		return "💗"
	case "gratidão":
		return "🤲"
	case "superação":
		return "⛰️"
	case "provisão":
		return "🌱"
	case "paz":
		return "🕊️"
	case "família":
		return "🏠"
	default: // fé
		return "☀️"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
