// Package broadcast реализует рассылку уведомлений о мутациях записей
// всем подключённым наблюдателям.
//
// Доставка выполняется по принципу fire-and-forget: без подтверждений,
// без повторов и без накопления событий для отсутствующих наблюдателей.
package broadcast

// Типы событий, которые получают подключённые наблюдатели.
const (
	// EventNewPatient — создана карта пациента, payload содержит карту целиком.
	EventNewPatient = "new-patient"
	// EventUpdatePatient — обновлена карта пациента, payload содержит карту после обновления.
	EventUpdatePatient = "update-patient"
	// EventDeletePatient — удалена карта пациента, payload содержит идентификатор удалённой карты.
	EventDeletePatient = "delete-patient"
	// EventNewDrug — добавлена запись справочника препаратов, payload содержит запись целиком.
	EventNewDrug = "new-drug"
)

// Event описывает одно уведомление, отправляемое наблюдателям.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
