package service

import (
	"context"
	"errors"
	"fmt"

	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// ownedEntity — сущность, у которой есть владелец.
type ownedEntity interface {
	OwnerID() string
}

// ownedStore — то, что Owned требует от репозитория.
type ownedStore[T ownedEntity] interface {
	GetByID(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Owned — единая проверка владения для операций над одной сущностью.
//
// Порядок проверок всегда один и тот же:
//  1. вызывающий не определён — ErrUnauthorized;
//  2. сущности нет — ErrNotFound (с именем сущности в тексте);
//  3. сущность чужая — ErrForbidden;
//  4. только после этого чтение, изменение или удаление.
//
// Так чужой ресурс не меняется ни при каком исходе запроса.
type Owned[T ownedEntity] struct {
	name  string
	store ownedStore[T]
}

// NewOwned создаёт Owned. name попадает в текст ErrNotFound ("project not found").
func NewOwned[T ownedEntity](name string, store ownedStore[T]) Owned[T] {
	return Owned[T]{name: name, store: store}
}

// Get возвращает сущность, если она принадлежит callerID.
func (o Owned[T]) Get(ctx context.Context, callerID, id string) (T, error) {
	var zero T
	if callerID == "" {
		return zero, serr.ErrUnauthorized
	}
	entity, err := o.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return zero, fmt.Errorf("%s %w", o.name, serr.ErrNotFound)
		}
		return zero, err
	}
	if entity.OwnerID() != callerID {
		return zero, serr.ErrForbidden
	}
	return entity, nil
}

// Mutate применяет apply к сущности владельца и сохраняет результат.
// Если apply вернул ошибку, в хранилище ничего не пишется.
func (o Owned[T]) Mutate(ctx context.Context, callerID, id string, apply func(T) error) (T, error) {
	var zero T
	entity, err := o.Get(ctx, callerID, id)
	if err != nil {
		return zero, err
	}
	if err := apply(entity); err != nil {
		return zero, err
	}
	updated, err := o.store.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			// удалили между чтением и записью
			return zero, fmt.Errorf("%s %w", o.name, serr.ErrNotFound)
		}
		return zero, err
	}
	return updated, nil
}

// Delete удаляет сущность владельца.
func (o Owned[T]) Delete(ctx context.Context, callerID, id string) error {
	if _, err := o.Get(ctx, callerID, id); err != nil {
		return err
	}
	if err := o.store.Delete(ctx, id); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return fmt.Errorf("%s %w", o.name, serr.ErrNotFound)
		}
		return err
	}
	return nil
}
