package opentrons

// Модели ответов HTTP API робота. Декодируются только поля,
// которые реально используются сервисами.

// idResponse — общий конверт ответов, несущих только идентификатор
// (создание протокола, создание запуска).
type idResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// runResponse — конверт ответа GET /runs/{id}.
type runResponse struct {
	Data runData `json:"data"`
}

type runData struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	CurrentCommand *currentCommand `json:"currentCommand,omitempty"`
	Errors         []runError      `json:"errors,omitempty"`
}

type currentCommand struct {
	CommandType string `json:"commandType"`
}

type runError struct {
	Detail string `json:"detail"`
}

// createRunRequest — тело POST /runs. Смещения посуды и параметры
// времени выполнения всегда пустые: протокол самодостаточен.
type createRunRequest struct {
	Data createRunData `json:"data"`
}

type createRunData struct {
	ProtocolID        string        `json:"protocolId"`
	LabwareOffsets    []interface{} `json:"labwareOffsets"`
	RunTimeParameters []interface{} `json:"runTimeParameters"`
}

// actionRequest — тело POST /runs/{id}/actions.
type actionRequest struct {
	Data actionData `json:"data"`
}

type actionData struct {
	ActionType string `json:"actionType"`
}

// lightsRequest — тело POST /robot/lights.
type lightsRequest struct {
	On bool `json:"on"`
}
