package exception

import "errors"

var (
	ErrNormalizeNoRule         = errors.New("normalize: no rule for exchange and market")
	ErrNormalizeEmptySymbol    = errors.New("normalize: empty symbol")
	ErrNormalizeInvalidDecimal = errors.New("normalize: invalid decimal")
	ErrNormalizeOptionSymbol   = errors.New("normalize: unknown option symbol format")
	ErrNormalizeOptionExpiry   = errors.New("normalize: invalid option expiry")
)
