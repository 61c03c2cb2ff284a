package interfaces

import "OT2Connect/internal/domain/entities"

// Repository - это агрегирующий интерфейс для всех репозиториев
type Repository interface {
	RunStoreRepository
}

// RunStoreRepository определяет контракт хранилища состояния запуска и
// ленты событий. История не переживает перезапуск процесса.
type RunStoreRepository interface {
	SetSnapshot(snapshot entities.RunSnapshot)
	Snapshot() (entities.RunSnapshot, bool)
	AppendEvent(event entities.StatusEvent)
	Events() []entities.StatusEvent
	SetOutcome(outcome entities.ConnectionOutcome)
	Outcome() (entities.ConnectionOutcome, bool)
}
