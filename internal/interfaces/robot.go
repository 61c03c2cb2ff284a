package interfaces

import (
	"context"
	"time"

	"OT2Connect/internal/domain/entities"
)

// RobotAPI определяет контракт транспортного клиента HTTP API робота.
// Реализация не хранит состояния и безопасна для конкурентного использования.
type RobotAPI interface {
	Get(ctx context.Context, path string, timeout time.Duration) (int, error)
	Health(ctx context.Context, timeout time.Duration) error
	SetLights(ctx context.Context, on bool, timeout time.Duration) error
	UploadProtocol(ctx context.Context, path string, timeout time.Duration) (string, error)
	CreateRun(ctx context.Context, protocolID string, timeout time.Duration) (string, error)
	RunAction(ctx context.Context, runID, action string, timeout time.Duration) error
	GetRun(ctx context.Context, runID string, timeout time.Duration) (*entities.RunUpdate, error)
}
