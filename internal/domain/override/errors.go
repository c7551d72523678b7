package override

import "errors"

var (
	ErrOverrideNotFound = errors.New("override not found")
	ErrInvalidDateRange = errors.New("date_from must not be after date_to")
	ErrPriceRequired    = errors.New("price_override requires a price")
)
