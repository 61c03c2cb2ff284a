package services

import (
	"context"
	"fmt"
	"time"

	"OT2Connect/internal/config"
	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"

	"github.com/rs/zerolog"
)

// RunMonitor опрашивает статус запуска до конечного состояния.
// Между опросами спит короткими срезами, чтобы запрос остановки
// был замечен в пределах одного среза, а не полного интервала.
type RunMonitor struct {
	api interfaces.RobotAPI
	log zerolog.Logger

	pollTimeout    time.Duration
	pollRetryDelay time.Duration
	pollInterval   time.Duration
	stopCheckSlice time.Duration
	pauseHeartbeat time.Duration
}

func NewRunMonitor(api interfaces.RobotAPI, cfg *config.AppConfig, log zerolog.Logger) interfaces.RunMonitor {
	rc := cfg.Run
	return &RunMonitor{
		api:            api,
		log:            log,
		pollTimeout:    time.Duration(rc.PollTimeoutMs) * time.Millisecond,
		pollRetryDelay: time.Duration(rc.PollRetryDelayMs) * time.Millisecond,
		pollInterval:   time.Duration(rc.PollIntervalMs) * time.Millisecond,
		stopCheckSlice: time.Duration(rc.StopCheckSliceMs) * time.Millisecond,
		pauseHeartbeat: time.Duration(rc.PauseHeartbeatMs) * time.Millisecond,
	}
}

// Watch блокируется до конечного статуса запуска либо запроса остановки.
// Транзиентные ошибки опроса не прерывают наблюдение: длинный физический
// запуск обязан переживать короткие сетевые сбои.
func (m *RunMonitor) Watch(ctx context.Context, session *entities.RunSession, onUpdate interfaces.UpdateFunc) {
	runID := session.RunID()

	for !session.StopRequested() {
		update, err := m.api.GetRun(ctx, runID, m.pollTimeout)
		if err != nil {
			if !session.StopRequested() {
				onUpdate(fmt.Sprintf("Monitoring error: %v", err))
			}
			m.log.Warn().Err(err).Str("run_id", runID).Msg("ошибка опроса запуска")
			if !sleepCtx(ctx, m.pollRetryDelay) {
				return
			}
			continue
		}

		session.SetStatus(update.Status)
		if update.CommandType != "" {
			onUpdate(fmt.Sprintf("Status: %s - %s", update.Status, update.CommandType))
		} else {
			onUpdate(fmt.Sprintf("Status: %s", update.Status))
		}

		// Ошибки в ответе носят информационный характер:
		// наблюдение завершает только конечный статус.
		if len(update.Errors) > 0 {
			onUpdate(fmt.Sprintf("Error detected: %s", update.Errors[0]))
		}

		if update.Status.Terminal() {
			return
		}

		// Пока взведён флаг паузы, вместо опроса раз в секунду
		// отправляется heartbeat о паузе.
		for session.Paused() && !session.StopRequested() {
			onUpdate("Run paused...")
			if !sleepCtx(ctx, m.pauseHeartbeat) {
				return
			}
		}

		if !m.sleepSliced(ctx, session) {
			return
		}
	}
}

// sleepSliced выдерживает интервал между опросами короткими срезами,
// проверяя флаг остановки на каждом срезе.
func (m *RunMonitor) sleepSliced(ctx context.Context, session *entities.RunSession) bool {
	for elapsed := time.Duration(0); elapsed < m.pollInterval; elapsed += m.stopCheckSlice {
		if session.StopRequested() {
			return false
		}
		if !sleepCtx(ctx, m.stopCheckSlice) {
			return false
		}
	}
	return true
}
