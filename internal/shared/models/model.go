// Package models содержит общие типы запросов, которые используются
// в HTTP-слое и в сервисном слое одновременно.
//
// Главное здесь — Optional[T]: поле partial update, которое различает
// "поле не передано" и "поле передано пустым".
package models

import (
	"encoding/json"
	"strings"

	"github.com/IvanChernomyrdin/go-devlog/internal/shared/utils"
)

// Optional — значение поля partial update.
//
// Set=false — поле отсутствовало в запросе, текущее значение не трогаем.
// Set=true  — поле пришло (в том числе пустым или null) и должно перезаписать значение.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some возвращает заполненный Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON вызывается только если ключ присутствует в JSON,
// поэтому сам факт вызова означает Set=true. null даёт нулевое значение.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ApplyTo перезаписывает dst, если поле было передано.
func (o Optional[T]) ApplyTo(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}

// Tags — список технологий проекта.
//
// Фронт присылает его либо строкой через запятую ("Go, React"),
// либо JSON-массивом. Оба варианта нормализуются одинаково:
// обрезаем пробелы, пустые элементы выкидываем, порядок сохраняем.
type Tags []string

func (t *Tags) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*t = Tags{}
		return nil
	case strings.HasPrefix(s, "["):
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*t = utils.CleanTags(list)
		return nil
	default:
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*t = utils.SplitTags(raw)
		return nil
	}
}

// ParseTags нормализует значения techStack из multipart формы.
// Одно значение трактуем как строку через запятую, несколько — как готовый список.
func ParseTags(values []string) Tags {
	if len(values) == 1 {
		v := strings.TrimSpace(values[0])
		if strings.HasPrefix(v, "[") {
			var list Tags
			if err := json.Unmarshal([]byte(v), &list); err == nil {
				return list
			}
		}
		return utils.SplitTags(v)
	}
	return utils.CleanTags(values)
}
