package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"hirelink/internal/errors"
	"hirelink/internal/formatters"
	"hirelink/internal/utils"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler writing to stdout
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return NewOutputHandlerWithWriter(os.Stdout, logger)
}

// NewOutputHandlerWithWriter creates an output handler writing to w when no
// output file is given
func NewOutputHandlerWithWriter(w io.Writer, logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        w,
	}
}

// ResolveFormat picks the output format: an explicit format wins, then the
// output file's extension when it names a known format, then fallback.
func (oh *OutputHandler) ResolveFormat(config CommandConfig, fallback string) string {
	if config.OutputFormat != "" {
		return config.OutputFormat
	}
	if ext := strings.TrimPrefix(utils.GetFileExtension(config.OutputFile), "."); ext != "" {
		if oh.registry.Supports(ext) {
			return ext
		}
	}
	return fallback
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	// Validate output file
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	// Format output using the registry
	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	// Write output
	if config.OutputFile != "" {
		err = oh.fileProcessor.WriteFile(config.OutputFile, output)
		if err != nil {
			return err // Error already wrapped by WriteFile
		}

		// Log success
		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
	} else {
		if _, err := io.WriteString(oh.stdout, output); err != nil {
			return errors.NewIOError("STDOUT_WRITE_FAILED", "Cannot write output", err)
		}
	}

	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
