package exception

import "errors"

var (
	ErrRegistryNoRoute           = errors.New("registry: no route for exchange and market")
	ErrRegistryUnsupportedMarket = errors.New("registry: unsupported market")
)
