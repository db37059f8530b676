package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the global zap logger. Production config everywhere except
// development, which gets the human-readable console encoder.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
