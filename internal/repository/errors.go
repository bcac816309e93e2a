package repository

import "errors"

// 対象が存在しない
var ErrNotFound = errors.New("not found")
