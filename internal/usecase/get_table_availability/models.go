package get_table_availability

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Request модель запроса занятости столов
type Request struct {
	RestaurantID int64     // ID ресторана
	Date         time.Time // Календарная дата
	SlotID       *int64    // Конкретный слот; nil - все слоты, видимые на дату

	// Кастомное окно начала внутри слота ("HH:MM"); требует SlotID.
	// На расчёт занятости не влияет, конфликты считаются по (стол, слот, дата)
	CustomStartTime *string
}

// SlotAvailability занятость одного слота на дату
// Счётчики, флаги и карта столов живут в domain.SlotOccupancy,
// производные значения считаются его методами IsBookable и FreeTables.
// Карта столов заполняется только при запросе конкретного слота
// (staff-представление); для списка слотов достаточно счётчиков
type SlotAvailability struct {
	domain.SlotOccupancy

	// Границы кастомного окна, если оно запрошено и помещается в слот
	CustomStart *types.TimeString
	CustomEnd   *types.TimeString
}

// Response модель ответа с занятостью слотов
type Response struct {
	RestaurantID int64
	Date         time.Time
	Slots        []SlotAvailability
}
