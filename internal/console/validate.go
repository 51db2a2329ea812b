package console

import (
	"errors"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/view"
)

var errNotNumber = errors.New("must be a number")

// number разбирает поле в *dst. Пустое значение пропускается, его ловит Required.
func number(dst *float64) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return errNotNumber
		}
		*dst = v
		return nil
	})
}

// validateForm повторяет ограничения html-формы: обязательные поля и числовые from/to.
func validateForm(f view.BatchForm) (from, to float64, err error) {
	f = trimForm(f)
	err = validation.ValidateStruct(&f,
		validation.Field(&f.Machine, validation.Required),
		validation.Field(&f.HoleID, validation.Required),
		validation.Field(&f.From, validation.Required, number(&from)),
		validation.Field(&f.To, validation.Required, number(&to)),
	)
	return from, to, err
}

func trimForm(f view.BatchForm) view.BatchForm {
	f.Machine = strings.TrimSpace(f.Machine)
	f.HoleID = strings.TrimSpace(f.HoleID)
	f.From = strings.TrimSpace(f.From)
	f.To = strings.TrimSpace(f.To)
	return f
}

func createRequest(f view.BatchForm) (model.CreateBatchRequest, error) {
	from, to, err := validateForm(f)
	if err != nil {
		return model.CreateBatchRequest{}, err
	}
	f = trimForm(f)
	return model.CreateBatchRequest{
		Machine:     f.Machine,
		HoleID:      f.HoleID,
		From:        from,
		To:          to,
		Comentarios: f.Comentarios,
	}, nil
}

func updateRequest(f view.BatchForm) (model.UpdateBatchRequest, error) {
	req, err := createRequest(f)
	if err != nil {
		return model.UpdateBatchRequest{}, err
	}
	return model.UpdateBatchRequest{
		HoleID:      &req.HoleID,
		From:        &req.From,
		To:          &req.To,
		Machine:     &req.Machine,
		Comentarios: &req.Comentarios,
	}, nil
}
