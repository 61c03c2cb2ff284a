package opentrons

import "OT2Connect/internal/domain/entities"

// mapRunUpdate преобразует ответ сервера в доменную модель обновления запуска.
// Статус зеркалируется дословно: переходы статусов авторитетны на стороне сервера.
func mapRunUpdate(data runData) entities.RunUpdate {
	update := entities.RunUpdate{
		Status: entities.RunStatus(data.Status),
	}
	if data.Status == "" {
		update.Status = entities.StatusUnknown
	}
	if data.CurrentCommand != nil {
		update.CommandType = data.CurrentCommand.CommandType
	}
	for _, e := range data.Errors {
		update.Errors = append(update.Errors, e.Detail)
	}
	return update
}
