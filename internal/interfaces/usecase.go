package interfaces

import (
	"context"

	"OT2Connect/internal/domain/entities"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	RobotUsecase
}

// RobotUsecase определяет операции, доступные операторскому интерфейсу.
// Блокирующие последовательности выполняются на фоновых воркерах,
// результаты возвращаются через ленту событий.
type RobotUsecase interface {
	// Connect запускает фоновое подключение с повторными попытками.
	Connect() (sessionID string, err error)
	// CheckConnection — синхронная проверка /health.
	CheckConnection(ctx context.Context) entities.ConnectionOutcome
	ConnectionStatus() (entities.ConnectionOutcome, bool)

	// StartRun запускает фоновый воркер полного цикла запуска.
	StartRun(volume float64, racks int) (sessionID string, err error)
	Pause() error
	Resume() error
	StopRun() error

	CurrentRun() (entities.RunSnapshot, bool)
	Events() []entities.StatusEvent
}
