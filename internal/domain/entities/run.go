package entities

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus отражает статус запуска, сообщённый сервером робота.
// Локальная модель только зеркалирует последнее значение сервера.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusPaused    RunStatus = "paused"
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
	StatusStopped   RunStatus = "stopped"
	StatusUnknown   RunStatus = "unknown"
)

// Terminal сообщает, является ли статус конечным для запуска.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// ProtocolAsset описывает файл протокола, выбранный по паре (объём, число штативов).
type ProtocolAsset struct {
	Volume float64 `json:"Volume"`
	Racks  int     `json:"Racks"`
	Path   string  `json:"Path"`
}

// StartRunRequest определяет структуру запроса на запуск дозирования.
type StartRunRequest struct {
	Volume float64 `json:"Volume" binding:"required,gt=0"`
	Racks  int     `json:"Racks" binding:"required,gte=1"`
}

// RunUpdate содержит декодированный ответ опроса статуса запуска.
type RunUpdate struct {
	Status      RunStatus
	CommandType string
	Errors      []string
}

// RunSession — единственное разделяемое между воркерами состояние запуска.
// Флаги паузы и остановки читаются монитором на каждой итерации опроса,
// поэтому доступ ко всем полям защищён мьютексом. Флаг остановки после
// установки никогда не сбрасывается; флаг паузы может переключаться свободно.
type RunSession struct {
	SessionID string
	StartedAt time.Time

	mu            sync.RWMutex
	runID         string
	paused        bool
	stopRequested bool
	lastStatus    RunStatus
}

// NewRunSession создаёт новую сессию запуска с локальным идентификатором.
// Серверный runID появится позже, после создания запуска на роботе.
func NewRunSession() *RunSession {
	return &RunSession{
		SessionID:  uuid.New().String(),
		StartedAt:  time.Now(),
		lastStatus: StatusUnknown,
	}
}

// SetRunID сохраняет серверный идентификатор запуска. Устанавливается один раз.
func (s *RunSession) SetRunID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == "" {
		s.runID = id
	}
}

func (s *RunSession) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

func (s *RunSession) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *RunSession) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// RequestStop взводит флаг остановки. Обратной операции нет.
func (s *RunSession) RequestStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRequested = true
}

func (s *RunSession) StopRequested() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopRequested
}

func (s *RunSession) SetStatus(status RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStatus = status
}

func (s *RunSession) Status() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus
}

// Snapshot возвращает согласованный срез состояния сессии для выдачи наружу.
func (s *RunSession) Snapshot() RunSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RunSnapshot{
		SessionID:     s.SessionID,
		RunID:         s.runID,
		Status:        s.lastStatus,
		Paused:        s.paused,
		StopRequested: s.stopRequested,
		StartedAt:     s.StartedAt,
	}
}

// RunSnapshot — неизменяемый срез состояния сессии запуска.
type RunSnapshot struct {
	SessionID     string    `json:"SessionID"`
	RunID         string    `json:"RunID,omitempty"`
	Status        RunStatus `json:"Status"`
	Paused        bool      `json:"Paused"`
	StopRequested bool      `json:"StopRequested"`
	StartedAt     time.Time `json:"StartedAt"`
}
