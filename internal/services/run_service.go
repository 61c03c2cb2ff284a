package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"OT2Connect/internal/config"
	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"
	"OT2Connect/internal/opentrons"

	"github.com/rs/zerolog"
)

const (
	msgStoppedByUser = "Run was stopped by user."
	msgRunSucceeded  = "Run completed successfully."
	msgRunFailed     = "Run failed."
)

// RunService выполняет последовательность жизненного цикла запуска.
// Остановка кооперативная: флаг проверяется перед каждым шагом,
// уже начатый шаг доводится до конца или таймаута.
type RunService struct {
	api      interfaces.RobotAPI
	selector interfaces.ProtocolSelector
	monitor  interfaces.RunMonitor
	log      zerolog.Logger

	requestTimeout time.Duration
	healthTimeout  time.Duration
	stopTimeout    time.Duration
}

func NewRunService(api interfaces.RobotAPI, selector interfaces.ProtocolSelector, monitor interfaces.RunMonitor, cfg *config.AppConfig, log zerolog.Logger) interfaces.RunService {
	return &RunService{
		api:            api,
		selector:       selector,
		monitor:        monitor,
		log:            log,
		requestTimeout: time.Duration(cfg.Run.RequestTimeoutMs) * time.Millisecond,
		healthTimeout:  time.Duration(cfg.Connection.HealthTimeoutMs) * time.Millisecond,
		stopTimeout:    time.Duration(cfg.Run.StopTimeoutMs) * time.Millisecond,
	}
}

// Execute последовательно выполняет upload -> create -> start -> monitor.
// Транспортные ошибки не повторяются: последовательность прерывается,
// а причина возвращается оператору завершающим сигналом.
func (s *RunService) Execute(ctx context.Context, session *entities.RunSession, volume float64, racks int, onUpdate interfaces.UpdateFunc) (bool, string) {
	onUpdate("Checking robot connection...")
	if err := s.api.Health(ctx, s.healthTimeout); err != nil {
		s.log.Error().Err(err).Msg("робот недоступен перед запуском")
		return false, "Could not connect to robot."
	}

	onUpdate(fmt.Sprintf("Setting up for %d rack(s) at %g ml...", racks, volume))
	asset, err := s.selector.Select(volume, racks)
	if err != nil {
		return false, fmt.Sprintf("No protocol available for %g ml and %d rack(s)", volume, racks)
	}

	if session.StopRequested() {
		return false, msgStoppedByUser
	}

	onUpdate("Uploading protocol...")
	protocolID, err := s.api.UploadProtocol(ctx, asset.Path, s.requestTimeout)
	if err != nil {
		s.log.Error().Err(err).Str("path", asset.Path).Msg("загрузка протокола провалена")
		if errors.Is(err, opentrons.ErrProtocolFileNotFound) {
			return false, fmt.Sprintf("Protocol not found at %s", asset.Path)
		}
		return false, fmt.Sprintf("Error: %v", err)
	}

	if session.StopRequested() {
		return false, msgStoppedByUser
	}

	onUpdate("Creating run...")
	runID, err := s.api.CreateRun(ctx, protocolID, s.requestTimeout)
	if err != nil {
		s.log.Error().Err(err).Str("protocol_id", protocolID).Msg("создание запуска провалено")
		return false, fmt.Sprintf("Error: %v", err)
	}
	session.SetRunID(runID)

	if session.StopRequested() {
		return false, msgStoppedByUser
	}

	onUpdate("Starting run...")
	if err := s.api.RunAction(ctx, runID, opentrons.ActionPlay, s.requestTimeout); err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("старт запуска провален")
		return false, fmt.Sprintf("Error: %v", err)
	}

	if session.StopRequested() {
		return false, msgStoppedByUser
	}

	onUpdate("Monitoring run...")
	s.monitor.Watch(ctx, session, onUpdate)

	if session.StopRequested() {
		return false, msgStoppedByUser
	}
	switch session.Status() {
	case entities.StatusSucceeded:
		return true, msgRunSucceeded
	case entities.StatusFailed:
		return false, msgRunFailed
	case entities.StatusStopped:
		return false, msgStoppedByUser
	default:
		return false, msgStoppedByUser
	}
}

// Pause отправляет действие pause и взводит локальный флаг паузы.
// Авторитетный статус по-прежнему приходит из опроса монитора.
func (s *RunService) Pause(ctx context.Context, session *entities.RunSession, onUpdate interfaces.UpdateFunc) {
	runID := session.RunID()
	if runID == "" {
		onUpdate("No active run to pause.")
		return
	}
	if err := s.api.RunAction(ctx, runID, opentrons.ActionPause, s.requestTimeout); err != nil {
		onUpdate(fmt.Sprintf("Error pausing: %v", err))
		return
	}
	session.SetPaused(true)
	onUpdate("Pause command sent.")
}

// Resume отправляет действие play и снимает локальный флаг паузы.
func (s *RunService) Resume(ctx context.Context, session *entities.RunSession, onUpdate interfaces.UpdateFunc) {
	runID := session.RunID()
	if runID == "" {
		onUpdate("No active run to resume.")
		return
	}
	if err := s.api.RunAction(ctx, runID, opentrons.ActionPlay, s.requestTimeout); err != nil {
		onUpdate(fmt.Sprintf("Error resuming: %v", err))
		return
	}
	session.SetPaused(false)
	onUpdate("Resume command sent.")
}

// Stop взводит флаг остановки и отправляет действие stop на отдельном
// воркере с укороченным таймаутом: запрос остановки не должен зависнуть,
// если робот занят. Таймаут самого вызова считается мягкой ошибкой —
// действие могло дойти до сервера раньше срабатывания таймаута.
func (s *RunService) Stop(ctx context.Context, session *entities.RunSession, onUpdate interfaces.UpdateFunc) {
	session.RequestStop()

	runID := session.RunID()
	if runID == "" {
		return
	}

	go func() {
		// Контекст вызывающего не используется: остановка должна уйти,
		// даже если инициатор уже завершился.
		err := s.api.RunAction(context.Background(), runID, opentrons.ActionStop, s.stopTimeout)
		switch {
		case err == nil:
			onUpdate("Stop command sent to robot")
		case errors.Is(err, context.DeadlineExceeded):
			onUpdate("Stop request timed out")
			s.log.Warn().Str("run_id", runID).Msg("таймаут запроса остановки, действие считается отправленным")
		default:
			onUpdate(fmt.Sprintf("Error sending stop: %v", err))
		}
	}()
}
