package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"gorm.io/gorm"

	"github.com/niltonmoco5-source/The-super-bible/internal/models"
	"github.com/niltonmoco5-source/The-super-bible/internal/subscription"
	"github.com/niltonmoco5-source/The-super-bible/internal/utils"
)

// Handler receives gateway webhooks. The upgrade is granted here, on the
// payment.succeeded event, not when the checkout URL is opened.
type Handler struct {
	DB         *gorm.DB
	Bot        *telego.Bot
	Gate       *subscription.Gate
	AllowedIPs []string
}

func NewHandler(db *gorm.DB, bot *telego.Bot, gate *subscription.Gate, allowedIPs []string) *Handler {
	return &Handler{
		DB:         db,
		Bot:        bot,
		Gate:       gate,
		AllowedIPs: allowedIPs,
	}
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if len(h.AllowedIPs) > 0 && !utils.IsAllowedIP(host, h.AllowedIPs) {
		log.Printf("Rejected webhook from %s", host)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var notification WebhookNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		log.Printf("Failed to decode webhook: %v", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if notification.Event != "payment.succeeded" {
		log.Printf("Ignored event: %s", notification.Event)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.processSuccess(r.Context(), notification.Object); err != nil {
		log.Printf("Failed to process payment success: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) processSuccess(ctx context.Context, obj WebhookObject) error {
	log.Printf("Processing payment success: %s", obj.ID)

	telegramIDStr, ok := obj.Metadata["telegram_id"]
	if !ok {
		return fmt.Errorf("metadata missing telegram_id")
	}

	telegramID, err := strconv.ParseInt(telegramIDStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram_id: %w", err)
	}

	tier := subscription.Tier(obj.Metadata["tier"])
	plan, ok := PlanFor(tier)
	if !ok {
		return fmt.Errorf("unknown tier in metadata: %q", tier)
	}

	var user models.User
	if err := h.DB.FirstOrCreate(&user, models.User{TelegramID: telegramID}).Error; err != nil {
		return fmt.Errorf("failed to find/create user: %w", err)
	}

	// Grant the entitlement and return the chat to the main view.
	h.Gate.Upgrade(ctx, telegramID, tier)

	amountVal, _ := strconv.ParseFloat(obj.Amount.Value, 64)
	record := models.Payment{
		UserID:     user.ID,
		Amount:     amountVal,
		Currency:   obj.Amount.Currency,
		Tier:       string(tier),
		Status:     "succeeded",
		YooKassaID: obj.ID,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		log.Printf("Failed to record payment: %v", err)
	}

	_, err = h.Bot.SendMessage(ctx, tu.Message(
		tu.ID(telegramID),
		fmt.Sprintf("✅ Pagamento confirmado!\n\nSeu %s está ativo. Que sua jornada continue abençoada! 🙏", plan.Name),
	))
	if err != nil {
		log.Printf("Failed to send payment confirmation to %d: %v", telegramID, err)
	}

	return nil
}
