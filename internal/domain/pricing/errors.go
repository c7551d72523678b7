package pricing

import "errors"

// ErrNoPricingDefined means neither a base rule nor a price override exists
// for the setup. Booking creation fails closed on it instead of assuming a
// default price.
var ErrNoPricingDefined = errors.New("no pricing defined for setup")
