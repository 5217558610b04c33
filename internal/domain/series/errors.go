package series

import "errors"

// ErrNameCollision is returned when two keys would create series with the
// same canonical name in one batch.
var ErrNameCollision = errors.New("series name collision")
