package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/metrics"
)

// Каналы pg_notify, в которые пишут триггеры миграции
const (
	ChannelSlots        = "slot_changes"
	ChannelAppointments = "appointment_changes"
)

// Listener слушает ленту изменений PostgreSQL и публикует типизированные события
type Listener struct {
	pool    *pgxpool.Pool
	hub     *Hub
	metrics *metrics.Metrics
	logger  *zap.Logger
	backoff time.Duration
}

func NewListener(pool *pgxpool.Pool, hub *Hub, m *metrics.Metrics, logger *zap.Logger) *Listener {
	return &Listener{
		pool:    pool,
		hub:     hub,
		metrics: m,
		logger:  logger,
		backoff: 2 * time.Second,
	}
}

// Run слушает до отмены контекста, переподключаясь после ошибок
// После каждого (пере)подключения публикуется ActionResync,
// чтобы потребители закрыли окно, в котором события могли потеряться
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Info("Starting realtime listener",
		zap.Strings("channels", []string{ChannelSlots, ChannelAppointments}))

	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info("Realtime listener stopped")
			return nil
		}

		l.logger.Error("Realtime listener disconnected, reconnecting",
			zap.Duration("backoff", l.backoff),
			zap.Error(err))

		select {
		case <-time.After(l.backoff):
		case <-ctx.Done():
			l.logger.Info("Realtime listener stopped")
			return nil
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if !conn.Conn().IsClosed() {
			unlistenCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if _, err := conn.Exec(unlistenCtx, "UNLISTEN *"); err != nil {
				l.logger.Warn("Failed to unlisten", zap.Error(err))
			}
			cancel()
		}
		conn.Release()
	}()

	for _, channel := range []string{ChannelSlots, ChannelAppointments} {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			return fmt.Errorf("listen %s: %w", channel, err)
		}
	}

	l.hub.Publish(ResyncEvent())
	l.metrics.ObserveEvent("", string(ActionResync))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		ev, err := DecodeEvent(n.Payload)
		if err != nil {
			l.logger.Warn("Undecodable change notification, forcing resync",
				zap.String("channel", n.Channel),
				zap.Error(err))
			l.hub.Publish(ResyncEvent())
			l.metrics.ObserveEvent("", string(ActionResync))
			continue
		}

		l.metrics.ObserveEvent(string(ev.Collection), string(ev.Action))
		l.hub.Publish(ev)
	}
}
