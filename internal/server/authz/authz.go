// Package authz implements the ownership check shared by all book mutations.
package authz

import "errors"

// ErrForbidden возвращается когда principal не является владельцем ресурса
var ErrForbidden = errors.New("forbidden")

// Operation описывает вид операции для целей логирования
type Operation string

// Operations over a single owned resource
const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Authorize решает, разрешена ли операция над ресурсом для данного principal
// Единственный критерий — совпадение владельца ресурса и principal
// Проверка существования ресурса выполняется ДО вызова Authorize:
// отказ по владению возвращается только для существующих ресурсов
func Authorize(op Operation, ownerID, principalID string) error {
	if ownerID == "" || principalID == "" {
		return ErrForbidden
	}

	if ownerID != principalID {
		return ErrForbidden
	}

	return nil
}
