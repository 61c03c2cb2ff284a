package config

import (
	"encoding/json"
	"os"
)

// AppConfig содержит конфигурацию приложения.
// Все таймауты и задержки заданы в миллисекундах и подставляются
// значениями по умолчанию, если в файле они опущены.
type AppConfig struct {
	ServerPort   string   `json:"server_port"`
	RobotAddr    string   `json:"robot_addr"`
	RobotPort    int      `json:"robot_port"`
	APIVersion   string   `json:"api_version"`
	ProtocolDir  string   `json:"protocol_dir"`
	KafkaBrokers []string `json:"kafka_brokers"`
	KafkaTopic   string   `json:"kafka_topic"`

	Connection ConnectionConfig `json:"connection"`
	Run        RunConfig        `json:"run"`
}

// ConnectionConfig — параметры проверки связи и повторных попыток подключения.
// Порог успешности стартового обхода и задержка стабилизации подобраны
// эмпирически, поэтому вынесены в конфигурацию.
type ConnectionConfig struct {
	PingTimeoutMs      int     `json:"ping_timeout_ms"`
	SweepCallTimeoutMs int     `json:"sweep_call_timeout_ms"`
	SweepSuccessRatio  float64 `json:"sweep_success_ratio"`
	SettleDelayMs      int     `json:"settle_delay_ms"`
	HealthTimeoutMs    int     `json:"health_timeout_ms"`
	MaxAttempts        int     `json:"max_attempts"`
	BackoffBaseMs      int     `json:"backoff_base_ms"`
	BackoffCapMs       int     `json:"backoff_cap_ms"`
}

// RunConfig — параметры жизненного цикла запуска и его мониторинга.
type RunConfig struct {
	RequestTimeoutMs int `json:"request_timeout_ms"`
	StopTimeoutMs    int `json:"stop_timeout_ms"`
	PollTimeoutMs    int `json:"poll_timeout_ms"`
	PollRetryDelayMs int `json:"poll_retry_delay_ms"`
	PollIntervalMs   int `json:"poll_interval_ms"`
	StopCheckSliceMs int `json:"stop_check_slice_ms"`
	PauseHeartbeatMs int `json:"pause_heartbeat_ms"`
}

// LoadConfiguration загружает конфигурацию из файла config.json.
func LoadConfiguration() (*AppConfig, error) {
	var config AppConfig

	configFile, err := os.ReadFile("config.json")
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(configFile, &config)
	if err != nil {
		return nil, err
	}

	config.ApplyDefaults()
	return &config, nil
}

// ApplyDefaults подставляет значения по умолчанию вместо нулевых полей.
func (c *AppConfig) ApplyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.RobotPort == 0 {
		c.RobotPort = 31950
	}
	if c.APIVersion == "" {
		c.APIVersion = "2"
	}
	if c.ProtocolDir == "" {
		c.ProtocolDir = "protocols"
	}

	cc := &c.Connection
	if cc.PingTimeoutMs == 0 {
		cc.PingTimeoutMs = 3000
	}
	if cc.SweepCallTimeoutMs == 0 {
		cc.SweepCallTimeoutMs = 10000
	}
	if cc.SweepSuccessRatio == 0 {
		cc.SweepSuccessRatio = 0.5
	}
	if cc.SettleDelayMs == 0 {
		cc.SettleDelayMs = 3000
	}
	if cc.HealthTimeoutMs == 0 {
		cc.HealthTimeoutMs = 5000
	}
	if cc.MaxAttempts == 0 {
		cc.MaxAttempts = 8
	}
	if cc.BackoffBaseMs == 0 {
		cc.BackoffBaseMs = 2000
	}
	if cc.BackoffCapMs == 0 {
		cc.BackoffCapMs = 15000
	}

	rc := &c.Run
	if rc.RequestTimeoutMs == 0 {
		rc.RequestTimeoutMs = 30000
	}
	if rc.StopTimeoutMs == 0 {
		rc.StopTimeoutMs = 5000
	}
	if rc.PollTimeoutMs == 0 {
		rc.PollTimeoutMs = 5000
	}
	if rc.PollRetryDelayMs == 0 {
		rc.PollRetryDelayMs = 2000
	}
	if rc.PollIntervalMs == 0 {
		rc.PollIntervalMs = 3000
	}
	if rc.StopCheckSliceMs == 0 {
		rc.StopCheckSliceMs = 100
	}
	if rc.PauseHeartbeatMs == 0 {
		rc.PauseHeartbeatMs = 1000
	}
}
