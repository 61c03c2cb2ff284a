package handlers

import (
	"errors"
	"net/http"

	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"
	"OT2Connect/internal/usecases"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	usecase interfaces.RobotUsecase
}

func NewHandler(usecase interfaces.Usecases) *Handler {
	return &Handler{usecase: usecase}
}

// CheckConnection обрабатывает синхронную проверку доступности робота
func (h *Handler) CheckConnection(c *gin.Context) {
	outcome := h.usecase.CheckConnection(c.Request.Context())
	if !outcome.Success {
		c.JSON(http.StatusServiceUnavailable, outcome)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Connect обрабатывает запрос на фоновое подключение с повторными попытками
func (h *Handler) Connect(c *gin.Context) {
	sessionID, err := h.usecase.Connect()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "ok", "SessionID": sessionID, "message": "подключение запущено"})
}

// GetConnection возвращает результат последней попытки подключения
func (h *Handler) GetConnection(c *gin.Context) {
	outcome, found := h.usecase.ConnectionStatus()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "попыток подключения ещё не было"})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// StartRun обрабатывает запрос на запуск дозирования
func (h *Handler) StartRun(c *gin.Context) {
	var req entities.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, err := h.usecase.StartRun(req.Volume, req.Racks)
	if err != nil {
		if errors.Is(err, usecases.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "ok", "SessionID": sessionID, "message": "запуск начат"})
}

// GetCurrentRun возвращает срез состояния текущей (или последней) сессии
func (h *Handler) GetCurrentRun(c *gin.Context) {
	snapshot, found := h.usecase.CurrentRun()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "запусков ещё не было"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetEvents возвращает ленту сообщений о ходе работы
func (h *Handler) GetEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Events())
}

// PauseRun обрабатывает запрос на паузу текущего запуска
func (h *Handler) PauseRun(c *gin.Context) {
	if err := h.usecase.Pause(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "команда паузы отправлена"})
}

// ResumeRun обрабатывает запрос на возобновление текущего запуска
func (h *Handler) ResumeRun(c *gin.Context) {
	if err := h.usecase.Resume(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "команда возобновления отправлена"})
}

// StopRun обрабатывает запрос на остановку текущего запуска
func (h *Handler) StopRun(c *gin.Context) {
	if err := h.usecase.StopRun(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "команда остановки отправлена"})
}
