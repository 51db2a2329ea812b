package model

// Status состояние batch после сверки с данными станка.
type Status string

const (
	StatusCorrect    Status = "correct"
	StatusIncorrect  Status = "incorrect"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
)

// IsCorrect сообщает, подтверждён ли batch. Любое другое значение считается ошибочным.
func (s Status) IsCorrect() bool {
	return s == StatusCorrect
}

// DefaultMachine имя станка, если share его не сообщает.
const DefaultMachine = "OREXPLORE"

// Batch представляет одну запись сканирования.
type Batch struct {
	BatchNumber   int            `json:"batch_number"`
	HoleID        string         `json:"hole_id"`
	From          Number         `json:"from"`
	To            Number         `json:"to"`
	Machine       string         `json:"machine"`
	Status        Status         `json:"status"`
	Comentarios   string         `json:"comentarios"`
	MachineValues *MachineValues `json:"machine_values"`
	CreatedAt     string         `json:"created_at,omitempty"`
}

// MachineValues снимок hole_id/from/to/machine, записанный оборудованием.
type MachineValues struct {
	HoleID  string `json:"hole_id"`
	From    Number `json:"from"`
	To      Number `json:"to"`
	Machine string `json:"machine"`
}

// Meters длина интервала to - from. Если одна из границ неизвестна, возвращает false.
func (b Batch) Meters() (float64, bool) {
	if !b.From.Valid || !b.To.Valid {
		return 0, false
	}
	return b.To.Value - b.From.Value, true
}

// Page страница результатов бэкенда.
type Page struct {
	Batches     []Batch `json:"batches"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
}
