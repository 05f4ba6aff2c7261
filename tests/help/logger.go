package help

import (
	"github.com/rs/zerolog"
	"os"
)

func Logger() zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Str("service", "ashEvict").
		Str("env", "test").
		Logger()
}
