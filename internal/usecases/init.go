package usecases

import (
	"OT2Connect/internal/interfaces"

	"github.com/rs/zerolog"
)

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.RobotUsecase
}

// NewUsecases - конструктор для UseCases
func NewUsecases(connSvc interfaces.ConnectionService, runSvc interfaces.RunService, repo interfaces.Repository, producer interfaces.DataProducer, log zerolog.Logger) interfaces.Usecases {
	return &UseCases{
		RobotUsecase: NewRobotUsecase(connSvc, runSvc, repo, producer, log),
	}
}
