package notify

import (
	"errors"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrTargetNotEmpty):
		return "❌ Встреча уже занята, перенос отменён"
	case errors.Is(err, model.ErrSameAppointment):
		return "❌ Клиент уже на этой встрече"
	case errors.Is(err, model.ErrAppointmentNotBound):
		return "❌ На встрече нет клиента"
	case errors.Is(err, model.ErrAppointmentNotEmpty):
		return "❌ Встреча уже занята"
	case errors.Is(err, model.ErrAppointmentNotEdit):
		return "❌ Подтвердить можно только встречу в статусе edit"
	case errors.Is(err, model.ErrStatusInvariant):
		return "❌ Статус не соответствует привязке клиента"
	case errors.Is(err, model.ErrUnknownStatus):
		return "❌ Неизвестный статус встречи"
	case errors.Is(err, model.ErrCustomerDisqualified):
		return "❌ Клиент снят с записи и не может быть назначен"
	case errors.Is(err, model.ErrSameDate):
		return "❌ Слот уже стоит на этой дате"
	case errors.Is(err, model.ErrInvalidWindow):
		return "❌ Начало слота должно быть раньше окончания"
	case errors.Is(err, model.ErrInvalidSpace):
		return "❌ Интервал слота должен быть положительным"
	case errors.Is(err, model.ErrBlankName):
		return "❌ Укажите название слота"
	case errors.Is(err, model.ErrMissingCategory):
		return "❌ Укажите категорию"
	case errors.Is(err, model.ErrMissingCompany):
		return "❌ Укажите компанию"
	case errors.Is(err, model.ErrMissingTeam):
		return "❌ Укажите хотя бы одну команду"
	case errors.Is(err, model.ErrSlotNotFound):
		return "❌ Слот не найден"
	case errors.Is(err, model.ErrAppointmentNotFound):
		return "❌ Встреча не найдена"
	case errors.Is(err, model.ErrCustomerNotFound):
		return "❌ Клиент не найден"
	case errors.Is(err, model.ErrInvalidInput):
		return "❌ Неверный формат данных"
	default:
		return "❌ Не удалось сохранить изменения, попробуйте ещё раз"
	}
}
