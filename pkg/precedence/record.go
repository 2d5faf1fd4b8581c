package precedence

// Имя поля с временем последнего изменения записи по умолчанию
const DefaultField = "LastModifiedDate"

// Имя поля с идентификатором записи в системе назначения по умолчанию
const DefaultIDField = "Id"

// Record - запись одной из систем: имя поля -> значение произвольного типа.
// nil Record означает отсутствующую запись. Резолвер записи не изменяет.
type Record map[string]interface{}

// Lookup возвращает значение поля и признак наличия ключа
func (r Record) Lookup(field string) (interface{}, bool) {
	v, ok := r[field]
	return v, ok
}

// Known сообщает, что поле присутствует и его значение не nil
func (r Record) Known(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// Pair - пара записей об одной сущности в системе-источнике и системе назначения
type Pair struct {
	ID          string `mapstructure:"id" json:"id,omitempty" msgpack:"id"`
	Source      Record `mapstructure:"source" json:"source" msgpack:"source"`
	Destination Record `mapstructure:"destination" json:"destination" msgpack:"destination"`
}
