package debt

import "errors"

var ErrDebtNotFound = errors.New("debt not found")
