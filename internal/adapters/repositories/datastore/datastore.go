package datastore

import (
	"sync"

	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"
)

// Лента событий ограничена по длине: при переполнении старые записи вытесняются.
const maxEvents = 256

// DataStore - потокобезопасное in-memory хранилище состояния запуска.
// История не переживает перезапуск процесса.
type DataStore struct {
	mu       sync.RWMutex
	snapshot *entities.RunSnapshot
	outcome  *entities.ConnectionOutcome
	events   []entities.StatusEvent
}

// NewDataStore создает новый экземпляр DataStore
func NewDataStore() interfaces.RunStoreRepository {
	return &DataStore{}
}

// SetSnapshot сохраняет срез состояния текущей сессии запуска.
func (ds *DataStore) SetSnapshot(snapshot entities.RunSnapshot) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.snapshot = &snapshot
}

// Snapshot извлекает срез состояния последней сессии запуска.
func (ds *DataStore) Snapshot() (entities.RunSnapshot, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.snapshot == nil {
		return entities.RunSnapshot{}, false
	}
	return *ds.snapshot, true
}

// AppendEvent добавляет сообщение в ленту событий.
func (ds *DataStore) AppendEvent(event entities.StatusEvent) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.events = append(ds.events, event)
	if len(ds.events) > maxEvents {
		ds.events = ds.events[len(ds.events)-maxEvents:]
	}
}

// Events возвращает копию ленты событий.
func (ds *DataStore) Events() []entities.StatusEvent {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	events := make([]entities.StatusEvent, len(ds.events))
	copy(events, ds.events)
	return events
}

// SetOutcome сохраняет результат последней попытки подключения.
func (ds *DataStore) SetOutcome(outcome entities.ConnectionOutcome) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.outcome = &outcome
}

// Outcome извлекает результат последней попытки подключения.
func (ds *DataStore) Outcome() (entities.ConnectionOutcome, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.outcome == nil {
		return entities.ConnectionOutcome{}, false
	}
	return *ds.outcome, true
}
