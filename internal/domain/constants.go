package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Custom start time constants
// Оператор может посадить гостей на под-окно внутри слота: шаг 15 минут,
// фиксированная длительность. На проверку конфликтов не влияет
const (
	CustomSlotStepMinutes     = 15
	CustomSlotDurationMinutes = 90
)

// Business validation constants
const (
	MinDayOfWeek = 0
	MaxDayOfWeek = 6

	MinPartySize = 1
	MaxPartySize = 100

	MaxCustomerNameLength      = 200
	MaxPhoneLength             = 32
	MaxFoodPreferenceLength    = 100
	MaxSpecialRequestLength    = 500
	MaxCancellationReasonLength = 500
)
