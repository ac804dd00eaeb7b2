// Package validation runs the local checks every screen performs before it
// dispatches a request. A failed check means the request is never sent.
package validation

import (
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"hirelink/internal/errors"
	"hirelink/internal/utils"
)

// User-facing messages shown when a local check fails.
const (
	MsgFillAllFields = "Please fill all fields"
	MsgSelectPDF     = "Please select a PDF file."
	MsgOnlyPDF       = "Only PDF files are allowed."
)

const pdfMIME = "application/pdf"

var (
	global *validator.Validate
	once   sync.Once
)

// Validator returns the shared validator instance. Error field names follow
// the json tag when a struct has one.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		global = v
	})
	return global
}

// Struct validates s against its validate tags. Failures come back as a
// validation AppError carrying message and the offending field names.
func Struct(s any, message string) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, message, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, message, err).
		WithContext("fields", fields)
}

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// PDFFile checks that path names a readable PDF no larger than maxSize
// bytes (zero disables the size check). Detection looks at content, not
// the file extension.
func PDFFile(path string, maxSize int64) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, MsgSelectPDF, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewValidationError(errors.ErrCodeFileNotFound, MsgSelectPDF, err).
				WithContext("path", path)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, MsgSelectPDF,
			fmt.Errorf("path is a directory, not a file: %s", path))
	}
	if maxSize > 0 && info.Size() > maxSize {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("File is too large (%s, limit %s).",
				utils.FormatFileSize(info.Size()), utils.FormatFileSize(maxSize)), nil)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", path), err)
	}
	if !mt.Is(pdfMIME) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, MsgOnlyPDF, nil).
			WithContext("detected", mt.String())
	}
	return nil
}

// SplitList splits a comma-separated field into trimmed, non-empty items.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
