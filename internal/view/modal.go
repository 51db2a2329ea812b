package view

import (
	"errors"
	"html/template"
	"strconv"
	"strings"

	"github.com/Totarae/BatchConsole/internal/model"
)

// ModalKind тип диалога.
type ModalKind string

const (
	ModalAdd     ModalKind = "add"
	ModalPreview ModalKind = "preview"
	ModalEdit    ModalKind = "edit"
	ModalDelete  ModalKind = "delete"
)

// ErrNoImage у batch нет изображения для предпросмотра.
var ErrNoImage = errors.New("no preview image")

// Position положение панели диалога на экране.
type Position struct {
	Left      string
	Top       string
	Transform string
}

// CenteredPosition положение по умолчанию: центр окна.
var CenteredPosition = Position{Left: "50%", Top: "50%", Transform: "translate(-50%, -50%)"}

// Style возвращает inline-стиль панели.
func (p Position) Style() template.CSS {
	return template.CSS("left: " + p.Left + "; top: " + p.Top + "; transform: " + p.Transform + ";")
}

// BatchForm значения полей формы создания и редактирования.
type BatchForm struct {
	BatchNumber int    `json:"batch_number"`
	Machine     string `json:"machine"`
	HoleID      string `json:"hole_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Comentarios string `json:"comentarios"`
}

// FormFromBatch заполняет форму редактирования значениями batch.
func FormFromBatch(b model.Batch) BatchForm {
	return BatchForm{
		BatchNumber: b.BatchNumber,
		Machine:     b.Machine,
		HoleID:      b.HoleID,
		From:        b.From.String(),
		To:          b.To.String(),
		Comentarios: b.Comentarios,
	}
}

// ModalState состояние одного диалога.
type ModalState struct {
	Kind      ModalKind
	Visible   bool
	Draggable bool
	Position  Position
	ImageSrc  string
	Target    int
	Form      BatchForm
	Error     string
}

// NewModal создаёт скрытый диалог.
func NewModal(kind ModalKind) *ModalState {
	return &ModalState{Kind: kind}
}

// Open сбрасывает положение в центр, включает перетаскивание и показывает диалог.
func (m *ModalState) Open() {
	m.Position = CenteredPosition
	m.Draggable = true
	m.Visible = true
}

// Close скрывает диалог. Для диалога создания очищает поля формы.
func (m *ModalState) Close() {
	m.Visible = false
	m.Draggable = false
	m.Error = ""
	if m.Kind == ModalAdd {
		m.Form = BatchForm{}
	}
}

// OpenPreview задаёт источник изображения и показывает диалог.
// Без источника диалог не меняется.
func (m *ModalState) OpenPreview(src string) error {
	if strings.TrimSpace(src) == "" {
		return ErrNoImage
	}
	m.ImageSrc = src
	m.Open()
	return nil
}

// OpenEdit заполняет форму значениями batch и показывает диалог.
func (m *ModalState) OpenEdit(b model.Batch) {
	m.Target = b.BatchNumber
	m.Form = FormFromBatch(b)
	m.Error = ""
	m.Open()
}

// OpenDelete показывает подтверждение удаления batch n.
func (m *ModalState) OpenDelete(n int) {
	m.Target = n
	m.Open()
}

// Title заголовок диалога.
func (m *ModalState) Title() string {
	switch m.Kind {
	case ModalAdd:
		return "Agregar batch"
	case ModalPreview:
		return "Vista previa"
	case ModalEdit:
		return "Editar batch " + strconv.Itoa(m.Target)
	case ModalDelete:
		return "Eliminar batch " + strconv.Itoa(m.Target)
	}
	return ""
}
