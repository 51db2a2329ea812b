package console

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Totarae/BatchConsole/internal/backend"
)

// ErrSuperseded результат загрузки устарел: сессия уже запросила другую страницу.
var ErrSuperseded = errors.New("superseded by a newer request")

const (
	msgTransport   = "No se pudo contactar con el servidor."
	msgMalformed   = "Respuesta inválida del servidor."
	msgNoImage     = "No hay imagen disponible para este batch."
	msgNotFound    = "Batch no encontrado"
	msgDeleted     = "Batch eliminado correctamente."
	msgDeleteError = "Error al eliminar: "
	msgUpdated     = "Batch actualizado correctamente."
	msgInvalidForm = "Revise los campos: "
)

// describe переводит ошибку бэкенда в текст для пользователя.
func describe(err error) string {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Error del servidor (%d)", apiErr.Status)
	case errors.Is(err, backend.ErrTransport):
		return msgTransport
	case errors.Is(err, backend.ErrMalformed):
		return msgMalformed
	}
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return msgInvalidForm + vErrs.Error()
	}
	return err.Error()
}
