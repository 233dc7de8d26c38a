// Утилитарные функции общего назначения
package utils

import "strings"

// SplitTags превращает строку вида "Go, chi ,,Postgres" в список ["Go","chi","Postgres"].
// Порядок сохраняется, пустые элементы отбрасываются.
func SplitTags(raw string) []string {
	return CleanTags(strings.Split(raw, ","))
}

// CleanTags обрезает пробелы у каждого тега и выкидывает пустые.
// Всегда возвращает не-nil слайс, чтобы в JSON уходил [] а не null.
func CleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
