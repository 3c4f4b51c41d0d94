package exception

import "errors"

var (
	ErrVenueResponseCode      = errors.New("venue: response code is not zero")
	ErrVenueUnsupportedMarket = errors.New("venue: unsupported market")
	ErrVenueUnknownExchange   = errors.New("venue: unknown exchange")
	ErrVenueEmptyResponse     = errors.New("venue: empty response")
)
