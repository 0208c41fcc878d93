package create_reservation

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_reservation: court not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrSlotInPast возвращается, когда конец слота не позже "сейчас + grace"
	ErrSlotInPast = errors.New("create_reservation: slot is in the past")

	// ErrUnalignedStart возвращается, когда время начала не выровнено
	// по сетке slot_minutes корта
	ErrUnalignedStart = errors.New("create_reservation: start time is not aligned to slot grid")

	// ErrInvalidDuration возвращается, когда длительность не является
	// положительным кратным slot_minutes
	ErrInvalidDuration = errors.New("create_reservation: duration is not a positive multiple of slot size")

	// ErrCrossesMidnight возвращается, когда интервал пересекает локальную полночь
	ErrCrossesMidnight = errors.New("create_reservation: interval crosses local midnight")

	// ErrOutsideOpenHours возвращается, когда интервал не помещается
	// ни в одно окно работы корта
	ErrOutsideOpenHours = errors.New("create_reservation: outside operating hours")

	// ErrBlackout возвращается, когда интервал пересекает блокировку корта
	ErrBlackout = errors.New("create_reservation: time blocked by maintenance/blackout")

	// ErrSlotTaken возвращается при пересечении с существующим бронированием
	// на корте с эксклюзивным использованием
	ErrSlotTaken = errors.New("create_reservation: slot already booked")

	// ErrNoCapacity возвращается при достижении лимита одновременных
	// бронирований корта
	ErrNoCapacity = errors.New("create_reservation: no capacity for this time slot")

	// ErrInvalidTimezone возвращается при некорректной зоне корта
	ErrInvalidTimezone = errors.New("create_reservation: invalid court timezone")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
