package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/niltonmoco5-source/The-super-bible/internal/models"
	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
)

const reminderInterval = 30 * time.Second

// ReminderWorker drives the routine scheduler. The tick is twice per minute
// so a reminder lands within 30s of its scheduled time; the scheduler's
// per-minute debounce keeps each minute from firing twice.
type ReminderWorker struct {
	DB        *gorm.DB
	Scheduler *routine.Scheduler
}

func NewReminderWorker(db *gorm.DB, scheduler *routine.Scheduler) *ReminderWorker {
	return &ReminderWorker{DB: db, Scheduler: scheduler}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(reminderInterval)
	defer ticker.Stop()

	log.Println("Background reminder worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scanAll(ctx)
		}
	}
}

func (w *ReminderWorker) scanAll(ctx context.Context) {
	var users []models.User
	if err := w.DB.Find(&users).Error; err != nil {
		log.Printf("Error querying users for reminder scan: %v", err)
		return
	}

	for _, u := range users {
		w.Scheduler.Scan(ctx, u.TelegramID)
	}
}
