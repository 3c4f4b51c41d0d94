package exception

import "github.com/yanun0323/errors"

var ErrUnsupportedDriver = errors.New("connection: unsupported driver")
