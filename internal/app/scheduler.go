package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// BoardLoader очередь перезагрузок доски
// Сама перезагрузка выполняется в горутине синхронизации доски
type BoardLoader interface {
	RequestLoad(filter model.SlotFilter)
}

// Scheduler периодически перезагружает доску со скользящим окном дат
// на случай потерянных уведомлений
type Scheduler struct {
	board    BoardLoader
	window   func() model.SlotFilter
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(board BoardLoader, window func() model.SlotFilter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		board:    board,
		window:   window,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background resync", zap.Duration("interval", s.interval))
	go s.runResyncTask(ctx)
}

// Stop останавливает задачу и ждёт её завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background resync")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) runResyncTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.resync()
		case <-s.stopChan:
			s.logger.Info("Resync task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Resync task cancelled")
			return
		}
	}
}

func (s *Scheduler) resync() {
	filter := s.window()
	s.board.RequestLoad(filter)
	s.logger.Debug("Periodic board resync requested", zap.Timep("from", filter.From), zap.Timep("to", filter.To))
}
