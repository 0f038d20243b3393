package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/niltonmoco5-source/The-super-bible/internal/models"
	"github.com/niltonmoco5-source/The-super-bible/internal/subscription"
)

const subscriptionInterval = 10 * time.Minute

// SubscriptionWorker re-evaluates every chat's trial on a fixed interval,
// with one pass right at startup.
type SubscriptionWorker struct {
	DB   *gorm.DB
	Gate *subscription.Gate
}

func NewSubscriptionWorker(db *gorm.DB, gate *subscription.Gate) *SubscriptionWorker {
	return &SubscriptionWorker{DB: db, Gate: gate}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(subscriptionInterval)
	defer ticker.Stop()

	log.Println("Background subscription worker started")

	w.checkSubscriptions(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkSubscriptions(ctx)
		}
	}
}

func (w *SubscriptionWorker) checkSubscriptions(ctx context.Context) {
	log.Println("Running subscription check cycle...")

	var users []models.User
	if err := w.DB.Find(&users).Error; err != nil {
		log.Printf("Error querying users for subscription check: %v", err)
		return
	}

	for _, u := range users {
		w.Gate.Evaluate(ctx, u.TelegramID)
	}
}
