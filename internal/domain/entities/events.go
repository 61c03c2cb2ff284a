package entities

import "time"

// StatusEvent — одно текстовое сообщение о ходе работы, адресованное оператору.
// Terminal=true означает завершающий сигнал (успех/неуспех) вместо
// промежуточного обновления.
type StatusEvent struct {
	SessionID string    `json:"SessionID"`
	Message   string    `json:"Message"`
	Terminal  bool      `json:"Terminal"`
	Success   bool      `json:"Success,omitempty"`
	At        time.Time `json:"At"`
}
