package exception

import "errors"

var (
	ErrStoreNilDB = errors.New("store: nil db")
)
