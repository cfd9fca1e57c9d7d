// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: обновление календаря дня
// и ночная сводка отметок для хозяйки.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/features/almanac"
	"vorozheya.ru/telegram-bot/internal/features/checkin"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	almanacService *almanac.Service
	checkinService *checkin.Service
	ownerID        int64
	sendFunc       func(userID int64, text string)
	loc            *time.Location
}

// NewScheduler создаёт планировщик задач в часовом поясе лавки.
func NewScheduler(
	almanacService *almanac.Service,
	checkinService *checkin.Service,
	ownerID int64,
	sendFunc func(userID int64, text string),
	loc *time.Location,
) *Scheduler {
	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		almanacService: almanacService,
		checkinService: checkinService,
		ownerID:        ownerID,
		sendFunc:       sendFunc,
		loc:            loc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Календарь дня обновляется каждые шесть часов
	s.cron.AddFunc("0 */6 * * *", func() {
		log.Info("[CRON] Обновление календаря дня")
		s.almanacService.Refresh(ctx)
	})

	// Ночная сводка отметок за прошедший день
	s.cron.AddFunc("5 0 * * *", func() {
		log.Info("[CRON] Сводка отметок для хозяйки")
		yesterday := time.Now().In(s.loc).AddDate(0, 0, -1)
		s.sendFunc(s.ownerID, s.checkinService.DailySummary(ctx, yesterday))
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
