package precedence

import (
	"fmt"
)

// Действие над записью в системе назначения
type Action uint8

const (
	ActionSkip Action = iota
	ActionCreate
	ActionUpdate
)

var actionNames = [...]string{
	ActionSkip:   "skip",
	ActionCreate: "create",
	ActionUpdate: "update",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}

	return fmt.Sprintf("action(%d)", uint8(a))
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Decide выбирает действие над записью в системе назначения.
// Если источник не новее - ActionSkip. Если источник новее и у записи
// назначения есть идентификатор - ActionUpdate, иначе ActionCreate.
func (r *Resolver) Decide(source, destination Record, offsetSpec string) (Action, error) {
	after, err := r.IsAfter(source, destination, offsetSpec)
	if err != nil {
		return ActionSkip, err
	}

	if !after {
		return ActionSkip, nil
	}

	if id, ok := destination.Lookup(r.idField); ok && id != nil && id != "" {
		return ActionUpdate, nil
	}

	return ActionCreate, nil
}

// Decide вызывает Default().Decide
func Decide(source, destination Record, offsetSpec string) (Action, error) {
	return defaultResolver.Decide(source, destination, offsetSpec)
}
