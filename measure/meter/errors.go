package meter

import "errors"

// ErrNotPrepared is returned by ProcessBlock before a successful Prepare.
var ErrNotPrepared = errors.New("meter: engine not prepared")
