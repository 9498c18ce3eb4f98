package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	pkgerrors "revshare/pkg/errors"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger, logErr := zap.NewProduction()
		if logErr != nil {
			logger = zap.NewNop()
		}
		defer logger.Sync()

		handler := pkgerrors.NewErrorHandler(logger, flagVerbose)
		os.Exit(handler.Handle(os.Stderr, err))
	}
}
