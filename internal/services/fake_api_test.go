package services

import (
	"context"
	"sync"
	"time"

	"OT2Connect/internal/config"
	"OT2Connect/internal/domain/entities"
)

// fakeRobotAPI записывает вызовы и делегирует ответы настраиваемым функциям.
type fakeRobotAPI struct {
	mu    sync.Mutex
	calls []string

	healthErr  error
	getFunc    func(path string) (int, error)
	uploadFunc func(path string) (string, error)
	createFunc func(protocolID string) (string, error)
	actionFunc func(runID, action string) error
	getRunFunc func(runID string) (*entities.RunUpdate, error)
}

func (f *fakeRobotAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRobotAPI) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]string, len(f.calls))
	copy(calls, f.calls)
	return calls
}

func (f *fakeRobotAPI) Get(ctx context.Context, path string, timeout time.Duration) (int, error) {
	f.record("get:" + path)
	if f.getFunc != nil {
		return f.getFunc(path)
	}
	return 200, nil
}

func (f *fakeRobotAPI) Health(ctx context.Context, timeout time.Duration) error {
	f.record("health")
	return f.healthErr
}

func (f *fakeRobotAPI) SetLights(ctx context.Context, on bool, timeout time.Duration) error {
	f.record("lights")
	return nil
}

func (f *fakeRobotAPI) UploadProtocol(ctx context.Context, path string, timeout time.Duration) (string, error) {
	f.record("upload:" + path)
	if f.uploadFunc != nil {
		return f.uploadFunc(path)
	}
	return "protocol-1", nil
}

func (f *fakeRobotAPI) CreateRun(ctx context.Context, protocolID string, timeout time.Duration) (string, error) {
	f.record("create:" + protocolID)
	if f.createFunc != nil {
		return f.createFunc(protocolID)
	}
	return "run-1", nil
}

func (f *fakeRobotAPI) RunAction(ctx context.Context, runID, action string, timeout time.Duration) error {
	f.record("action:" + action)
	if f.actionFunc != nil {
		return f.actionFunc(runID, action)
	}
	return nil
}

func (f *fakeRobotAPI) GetRun(ctx context.Context, runID string, timeout time.Duration) (*entities.RunUpdate, error) {
	f.record("getrun")
	if f.getRunFunc != nil {
		return f.getRunFunc(runID)
	}
	return &entities.RunUpdate{Status: entities.StatusSucceeded}, nil
}

// testConfig возвращает конфигурацию с короткими интервалами для тестов.
func testConfig() *config.AppConfig {
	return &config.AppConfig{
		ProtocolDir: "protocols",
		Connection: config.ConnectionConfig{
			PingTimeoutMs:      200,
			SweepCallTimeoutMs: 100,
			SweepSuccessRatio:  0.5,
			SettleDelayMs:      1,
			HealthTimeoutMs:    100,
			MaxAttempts:        3,
			BackoffBaseMs:      1,
			BackoffCapMs:       8,
		},
		Run: config.RunConfig{
			RequestTimeoutMs: 100,
			StopTimeoutMs:    100,
			PollTimeoutMs:    100,
			PollRetryDelayMs: 1,
			PollIntervalMs:   5,
			StopCheckSliceMs: 1,
			PauseHeartbeatMs: 1,
		},
	}
}

// updateCollector потокобезопасно собирает сообщения onUpdate.
type updateCollector struct {
	mu       sync.Mutex
	messages []string
}

func (c *updateCollector) add(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func (c *updateCollector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages := make([]string, len(c.messages))
	copy(messages, c.messages)
	return messages
}

func (c *updateCollector) contains(message string) bool {
	for _, m := range c.all() {
		if m == message {
			return true
		}
	}
	return false
}
