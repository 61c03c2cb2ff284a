package services

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"OT2Connect/internal/config"
	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"

	"github.com/rs/zerolog"
)

// sweepEndpoints — тот же упорядоченный список вызовов, что выполняет
// фирменное приложение OT-2 при старте. Все вызовы идемпотентны и
// только читают состояние.
var sweepEndpoints = []string{
	"/system/time",
	"/health",
	"/robot/settings",
	"/calibration/status",
	"/robot/positions/change_pipette",
	"/motors/engaged",
	"/sessions",
	"/protocols",
	"/runs",
}

// ConnectionService реализует многослойную проверку связи с роботом и
// политику повторных подключений с нарастающей задержкой.
type ConnectionService struct {
	api      interfaces.RobotAPI
	endpoint entities.RobotEndpoint
	log      zerolog.Logger

	pingTimeout      time.Duration
	sweepCallTimeout time.Duration
	sweepRatio       float64
	settleDelay      time.Duration
	healthTimeout    time.Duration
	maxAttempts      int
	backoffBase      time.Duration
	backoffCap       time.Duration

	mu   sync.RWMutex
	last *entities.ConnectionOutcome
}

func NewConnectionService(api interfaces.RobotAPI, endpoint entities.RobotEndpoint, cfg *config.AppConfig, log zerolog.Logger) interfaces.ConnectionService {
	cc := cfg.Connection
	return &ConnectionService{
		api:              api,
		endpoint:         endpoint,
		log:              log,
		pingTimeout:      time.Duration(cc.PingTimeoutMs) * time.Millisecond,
		sweepCallTimeout: time.Duration(cc.SweepCallTimeoutMs) * time.Millisecond,
		sweepRatio:       cc.SweepSuccessRatio,
		settleDelay:      time.Duration(cc.SettleDelayMs) * time.Millisecond,
		healthTimeout:    time.Duration(cc.HealthTimeoutMs) * time.Millisecond,
		maxAttempts:      cc.MaxAttempts,
		backoffBase:      time.Duration(cc.BackoffBaseMs) * time.Millisecond,
		backoffCap:       time.Duration(cc.BackoffCapMs) * time.Millisecond,
	}
}

// CheckConnection выполняет лёгкую проверку /health без TCP-пинга и обхода сервисов.
func (s *ConnectionService) CheckConnection(ctx context.Context) error {
	if err := s.api.Health(ctx, s.healthTimeout); err != nil {
		s.log.Debug().Err(err).Msg("проверка /health провалена")
		return fmt.Errorf("проверка соединения с роботом провалена: %w", err)
	}
	return nil
}

// Probe выполняет полную последовательность установления связи:
// TCP-пинг, стартовый обход сервисов, пауза стабилизации и
// финальная авторитетная проверка /health.
func (s *ConnectionService) Probe(ctx context.Context, onUpdate interfaces.UpdateFunc) entities.ConnectionOutcome {
	onUpdate("Checking network connectivity...")

	// Если порт не отвечает на TCP-уровне, HTTP-вызовы не делаются вовсе.
	if !s.pingRobot() {
		return s.record(entities.ConnectionOutcome{
			Success:   false,
			Message:   "Robot not reachable on network",
			CheckedAt: time.Now(),
		})
	}

	onUpdate("Initializing robot services...")
	if !s.initializeServices(ctx) {
		return s.record(entities.ConnectionOutcome{
			Success:   false,
			Message:   "Robot services failed to initialize",
			CheckedAt: time.Now(),
		})
	}

	// Сервисам робота нужно время, чтобы закончить собственную инициализацию.
	if !sleepCtx(ctx, s.settleDelay) {
		return s.record(entities.ConnectionOutcome{
			Success:   false,
			Message:   "Connection attempt cancelled",
			CheckedAt: time.Now(),
		})
	}

	if err := s.CheckConnection(ctx); err != nil {
		return s.record(entities.ConnectionOutcome{
			Success:   false,
			Message:   "Robot services failed to initialize",
			CheckedAt: time.Now(),
		})
	}

	s.lightsOn()
	return s.record(entities.ConnectionOutcome{
		Success:   true,
		Message:   "Robot initialized successfully",
		CheckedAt: time.Now(),
	})
}

// ConnectWithRetries повторяет попытки подключения до maxAttempts.
// Каждая попытка сначала пробует лёгкий /health, затем полную проверку.
func (s *ConnectionService) ConnectWithRetries(ctx context.Context, onUpdate interfaces.UpdateFunc) entities.ConnectionOutcome {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		onUpdate(fmt.Sprintf("Connection attempt %d/%d", attempt+1, s.maxAttempts))

		if err := s.CheckConnection(ctx); err == nil {
			s.lightsOn()
			return s.record(entities.ConnectionOutcome{
				Success:   true,
				Message:   fmt.Sprintf("Connected on attempt %d", attempt+1),
				Attempt:   attempt + 1,
				CheckedAt: time.Now(),
			})
		}

		outcome := s.Probe(ctx, onUpdate)
		if outcome.Success {
			outcome.Attempt = attempt + 1
			return s.record(outcome)
		}

		if ctx.Err() != nil {
			break
		}

		delay := s.backoffDelay(attempt)
		onUpdate(fmt.Sprintf("Waiting %d seconds before retry...", int(delay/time.Second)))
		if !sleepCtx(ctx, delay) {
			break
		}
	}

	return s.record(entities.ConnectionOutcome{
		Success:   false,
		Message:   "Failed to connect after all attempts",
		Attempt:   s.maxAttempts,
		CheckedAt: time.Now(),
	})
}

// LastOutcome возвращает результат последней попытки подключения.
func (s *ConnectionService) LastOutcome() (entities.ConnectionOutcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return entities.ConnectionOutcome{}, false
	}
	return *s.last, true
}

// backoffDelay считает задержку перед следующей попыткой:
// база удваивается каждые две попытки и ограничена сверху.
func (s *ConnectionService) backoffDelay(attempt int) time.Duration {
	delay := s.backoffBase * (1 << uint(attempt/2))
	if delay > s.backoffCap {
		delay = s.backoffCap
	}
	return delay
}

// pingRobot проверяет достижимость порта API на TCP-уровне.
func (s *ConnectionService) pingRobot() bool {
	conn, err := net.DialTimeout("tcp", s.endpoint.HostPort(), s.pingTimeout)
	if err != nil {
		s.log.Debug().Err(err).Str("addr", s.endpoint.HostPort()).Msg("TCP-пинг провален")
		return false
	}
	conn.Close()
	return true
}

// initializeServices выполняет стартовый обход сервисов робота.
// Отдельные неудачи не фатальны: обход считается достаточным, когда
// доля успешных вызовов превышает настроенный порог.
func (s *ConnectionService) initializeServices(ctx context.Context) bool {
	successCount := 0
	for _, endpoint := range sweepEndpoints {
		code, err := s.api.Get(ctx, endpoint, s.sweepCallTimeout)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("вызов инициализации провален")
		case code >= 400:
			s.log.Warn().Int("status", code).Str("endpoint", endpoint).Msg("вызов инициализации отклонён")
		default:
			successCount++
			s.log.Debug().Str("endpoint", endpoint).Msg("вызов инициализации успешен")
		}
	}
	return s.sweepAdequate(successCount, len(sweepEndpoints))
}

// sweepAdequate решает, достаточно ли успешных вызовов обхода.
// При пороге 0.5 для девяти вызовов достаточно пяти: 4 из 9 — мало.
func (s *ConnectionService) sweepAdequate(success, total int) bool {
	return float64(success) >= s.sweepRatio*float64(total)
}

// lightsOn включает индикаторную подсветку после успешного подключения.
// Вызов не блокирует результат: его неудача только логируется.
func (s *ConnectionService) lightsOn() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.healthTimeout)
		defer cancel()
		if err := s.api.SetLights(ctx, true, s.healthTimeout); err != nil {
			s.log.Warn().Err(err).Msg("не удалось включить подсветку")
			return
		}
		s.log.Info().Msg("подсветка включена")
	}()
}

func (s *ConnectionService) record(outcome entities.ConnectionOutcome) entities.ConnectionOutcome {
	s.mu.Lock()
	s.last = &outcome
	s.mu.Unlock()
	return outcome
}

// sleepCtx ждёт указанное время либо отмену контекста.
// Возвращает false, если ожидание было прервано.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
