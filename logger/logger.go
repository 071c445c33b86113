package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. TRADEBOOK_ENV=dev switches to the
// human-readable development encoder.
func New() *zap.SugaredLogger {
	var (
		log *zap.Logger
		err error
	)

	if strings.ToLower(os.Getenv("TRADEBOOK_ENV")) == "dev" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction(zap.AddStacktrace(zap.ErrorLevel))
	}
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return log.Sugar()
}
