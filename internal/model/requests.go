package model

// CreateBatchRequest тело POST /api/batches. Порядок полей совпадает с формой.
type CreateBatchRequest struct {
	Machine     string  `json:"machine"`
	HoleID      string  `json:"hole_id"`
	From        float64 `json:"from"`
	To          float64 `json:"to"`
	Comentarios string  `json:"comentarios"`
}

// UpdateBatchRequest тело PUT /api/batches/{n}. Отсутствующие поля не меняются.
type UpdateBatchRequest struct {
	HoleID      *string  `json:"hole_id,omitempty"`
	From        *float64 `json:"from,omitempty"`
	To          *float64 `json:"to,omitempty"`
	Machine     *string  `json:"machine,omitempty"`
	Comentarios *string  `json:"comentarios,omitempty"`
}

// MutationResponse ответ бэкенда на изменение данных.
type MutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Batch   *Batch `json:"batch,omitempty"`
}

// PreviewResponse ответ GET /api/preview/{n}.
type PreviewResponse struct {
	ImagePath string `json:"image_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MetrosResponse ответ GET /api/metros_escaneados.
type MetrosResponse struct {
	Metros float64 `json:"metros"`
}

// HourPoint накопленные метры за сегодня к концу часа.
type HourPoint struct {
	Hour   int     `json:"hour"`
	Metros float64 `json:"metros"`
}

// DayPoint метры за день (dd/mm).
type DayPoint struct {
	Day    string  `json:"day"`
	Metros float64 `json:"metros"`
}

// MetrosData ответ GET /api/metros_data.
type MetrosData struct {
	Daily   []HourPoint `json:"daily"`
	Monthly []DayPoint  `json:"monthly"`
}

// ServiceHealth состояние одной зависимости бэкенда.
type ServiceHealth struct {
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	BatchesCount *int   `json:"batches_count,omitempty"`
	BatchesFound *int   `json:"batches_found,omitempty"`
}

// HealthStatus ответ GET /health.
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services"`
}

// ErrorResponse тело ошибки бэкенда.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
