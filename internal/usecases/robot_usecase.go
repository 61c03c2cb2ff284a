package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrRunInProgress возвращается при попытке запустить второй запуск:
	// робот выполняет не более одного запуска одновременно.
	ErrRunInProgress = errors.New("запуск уже выполняется")
	// ErrNoActiveRun возвращается для pause/resume/stop без активного запуска.
	ErrNoActiveRun = errors.New("нет активного запуска")
)

// RobotUsecase связывает операторский интерфейс с сервисами робота.
// Блокирующие последовательности уходят на фоновые воркеры, а каждое
// сообщение о ходе работы веером расходится в лог, хранилище и продюсер.
type RobotUsecase struct {
	connSvc  interfaces.ConnectionService
	runSvc   interfaces.RunService
	repo     interfaces.RunStoreRepository
	producer interfaces.DataProducer
	log      zerolog.Logger

	mu      sync.Mutex
	active  *entities.RunSession
	running bool
}

func NewRobotUsecase(connSvc interfaces.ConnectionService, runSvc interfaces.RunService, repo interfaces.Repository, producer interfaces.DataProducer, log zerolog.Logger) interfaces.RobotUsecase {
	return &RobotUsecase{
		connSvc:  connSvc,
		runSvc:   runSvc,
		repo:     repo,
		producer: producer,
		log:      log,
	}
}

// Connect запускает фоновое подключение с повторными попытками.
// Ход подключения виден через ленту событий, итог — через ConnectionStatus.
func (u *RobotUsecase) Connect() (string, error) {
	sessionID := uuid.New().String()
	go func() {
		outcome := u.connSvc.ConnectWithRetries(context.Background(), u.emitFunc(sessionID))
		u.repo.SetOutcome(outcome)
		u.finish(sessionID, outcome.Success, outcome.Message)
	}()
	return sessionID, nil
}

// CheckConnection — синхронная лёгкая проверка связи.
func (u *RobotUsecase) CheckConnection(ctx context.Context) entities.ConnectionOutcome {
	outcome := entities.ConnectionOutcome{Success: true, Message: "Robot is reachable", CheckedAt: time.Now()}
	if err := u.connSvc.CheckConnection(ctx); err != nil {
		outcome.Success = false
		outcome.Message = err.Error()
	}
	u.repo.SetOutcome(outcome)
	return outcome
}

func (u *RobotUsecase) ConnectionStatus() (entities.ConnectionOutcome, bool) {
	return u.repo.Outcome()
}

// StartRun создаёт сессию запуска и выполняет полный цикл на фоновом воркере.
// Одновременно допускается не более одной активной сессии.
func (u *RobotUsecase) StartRun(volume float64, racks int) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.running {
		return "", ErrRunInProgress
	}

	session := entities.NewRunSession()
	u.active = session
	u.running = true
	u.repo.SetSnapshot(session.Snapshot())

	go func() {
		success, message := u.runSvc.Execute(context.Background(), session, volume, racks, u.emitRunFunc(session))
		u.repo.SetSnapshot(session.Snapshot())
		u.finish(session.SessionID, success, message)

		u.mu.Lock()
		u.running = false
		u.mu.Unlock()
	}()

	return session.SessionID, nil
}

func (u *RobotUsecase) Pause() error {
	session, err := u.currentSession()
	if err != nil {
		return err
	}
	u.runSvc.Pause(context.Background(), session, u.emitRunFunc(session))
	return nil
}

func (u *RobotUsecase) Resume() error {
	session, err := u.currentSession()
	if err != nil {
		return err
	}
	u.runSvc.Resume(context.Background(), session, u.emitRunFunc(session))
	return nil
}

func (u *RobotUsecase) StopRun() error {
	session, err := u.currentSession()
	if err != nil {
		return err
	}
	u.runSvc.Stop(context.Background(), session, u.emitRunFunc(session))
	return nil
}

func (u *RobotUsecase) CurrentRun() (entities.RunSnapshot, bool) {
	u.mu.Lock()
	active := u.active
	u.mu.Unlock()
	if active != nil {
		return active.Snapshot(), true
	}
	return u.repo.Snapshot()
}

func (u *RobotUsecase) Events() []entities.StatusEvent {
	return u.repo.Events()
}

func (u *RobotUsecase) currentSession() (*entities.RunSession, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active == nil {
		return nil, ErrNoActiveRun
	}
	return u.active, nil
}

// emitFunc возвращает колбэк, рассылающий сообщение во все приёмники.
func (u *RobotUsecase) emitFunc(sessionID string) interfaces.UpdateFunc {
	return func(message string) {
		u.publish(entities.StatusEvent{
			SessionID: sessionID,
			Message:   message,
			At:        time.Now(),
		})
	}
}

// emitRunFunc дополнительно обновляет снимок сессии на каждом сообщении,
// чтобы GET текущего запуска всегда отдавал свежий статус.
func (u *RobotUsecase) emitRunFunc(session *entities.RunSession) interfaces.UpdateFunc {
	return func(message string) {
		u.repo.SetSnapshot(session.Snapshot())
		u.publish(entities.StatusEvent{
			SessionID: session.SessionID,
			Message:   message,
			At:        time.Now(),
		})
	}
}

// finish рассылает завершающий сигнал (успех, сообщение).
func (u *RobotUsecase) finish(sessionID string, success bool, message string) {
	u.publish(entities.StatusEvent{
		SessionID: sessionID,
		Message:   message,
		Terminal:  true,
		Success:   success,
		At:        time.Now(),
	})
}

func (u *RobotUsecase) publish(event entities.StatusEvent) {
	u.log.Info().
		Str("session_id", event.SessionID).
		Bool("terminal", event.Terminal).
		Msg(event.Message)
	u.repo.AppendEvent(event)

	encoded, err := json.Marshal(event)
	if err != nil {
		u.log.Error().Err(err).Msg("не удалось сериализовать событие")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.producer.Produce(ctx, []byte(event.SessionID), encoded); err != nil {
		u.log.Error().Err(err).Msg("не удалось отправить событие в Kafka")
	}
}
