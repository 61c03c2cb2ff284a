package entities

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// RobotEndpoint содержит неизменяемые параметры подключения к роботу.
// Создаётся один раз при старте процесса и далее не изменяется.
type RobotEndpoint struct {
	Addr       string        `json:"Addr"`
	Port       int           `json:"Port"`
	APIVersion string        `json:"APIVersion"`
	Timeout    time.Duration `json:"-"`
}

// BaseURL возвращает базовый URL HTTP API робота.
func (e RobotEndpoint) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", e.Addr, e.Port)
}

// HostPort возвращает адрес в виде host:port для TCP-проверки.
func (e RobotEndpoint) HostPort() string {
	return net.JoinHostPort(e.Addr, strconv.Itoa(e.Port))
}

// ConnectionOutcome представляет результат одной попытки установить связь с роботом.
type ConnectionOutcome struct {
	Success   bool      `json:"Success"`
	Message   string    `json:"Message"`
	Attempt   int       `json:"Attempt"`
	CheckedAt time.Time `json:"CheckedAt"`
}
