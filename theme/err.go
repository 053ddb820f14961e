package theme

import (
	"errors"
)

var ErrNoColors = errors.New("no colors found in palette")
