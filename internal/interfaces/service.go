package interfaces

import (
	"context"

	"OT2Connect/internal/domain/entities"
)

// UpdateFunc принимает очередное текстовое сообщение о ходе операции.
type UpdateFunc func(message string)

// ConnectionService определяет контракт установления связи с роботом.
type ConnectionService interface {
	// CheckConnection — лёгкая проверка /health без обхода сервисов.
	CheckConnection(ctx context.Context) error
	// Probe выполняет полную многослойную проверку связи.
	Probe(ctx context.Context, onUpdate UpdateFunc) entities.ConnectionOutcome
	// ConnectWithRetries повторяет попытки подключения с нарастающей задержкой.
	ConnectWithRetries(ctx context.Context, onUpdate UpdateFunc) entities.ConnectionOutcome
	// LastOutcome возвращает результат последней попытки, если она была.
	LastOutcome() (entities.ConnectionOutcome, bool)
}

// ProtocolSelector определяет контракт выбора протокола по паре (объём, штативы).
type ProtocolSelector interface {
	Select(volume float64, racks int) (entities.ProtocolAsset, error)
}

// RunService определяет контракт жизненного цикла запуска.
type RunService interface {
	// Execute выполняет полную последовательность
	// upload -> create -> start -> monitor и блокируется до её завершения.
	// Возвращает завершающий сигнал (успех, сообщение).
	Execute(ctx context.Context, session *entities.RunSession, volume float64, racks int, onUpdate UpdateFunc) (bool, string)
	Pause(ctx context.Context, session *entities.RunSession, onUpdate UpdateFunc)
	Resume(ctx context.Context, session *entities.RunSession, onUpdate UpdateFunc)
	Stop(ctx context.Context, session *entities.RunSession, onUpdate UpdateFunc)
}

// RunMonitor определяет контракт цикла наблюдения за запуском.
type RunMonitor interface {
	// Watch блокируется до конечного статуса запуска или запроса остановки.
	Watch(ctx context.Context, session *entities.RunSession, onUpdate UpdateFunc)
}
