package dto

// Envelope is the uniform response body: a success flag, a
// human-readable message and a data payload. Error responses use the
// same shape with Success=false.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(message string, data interface{}) Envelope {
	if data == nil {
		data = map[string]interface{}{}
	}
	return Envelope{Success: true, Message: message, Data: data}
}

func Fail(message string, data interface{}) Envelope {
	if data == nil {
		data = map[string]interface{}{}
	}
	return Envelope{Success: false, Message: message, Data: data}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Cache     string `json:"cache"`
}
