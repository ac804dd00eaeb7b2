package common

import (
	"context"

	"hirelink/internal/errors"
)

// ScreenFunc runs one screen and returns what it shows.
type ScreenFunc[Output any] func(context.Context) (Output, error)

// LogDetailsFunc logs the start of a screen run.
type LogDetailsFunc func(cfg CommandConfig)

// RunScreen runs a screen and writes its result through the output
// handler. Errors are returned untouched for the caller to report.
func RunScreen[Output any](
	ctx context.Context,
	logger *errors.Logger,
	outputHandler *OutputHandler,
	cmdConfig CommandConfig,
	screen ScreenFunc[Output],
	logDetails LogDetailsFunc,
) error {
	if outputHandler == nil {
		outputHandler = NewOutputHandler(logger)
	}
	if err := outputHandler.fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(cmdConfig)
	}

	result, err := screen(ctx)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
