package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"hirelink/internal/jsonx"
)

// Field is one text part of a multipart body.
type Field struct {
	Name  string
	Value string
}

// FilePart is one file attachment of a multipart body, read from Path.
type FilePart struct {
	Field    string
	Path     string
	Filename string // defaults to the base name of Path
}

// Multipart is a body carrying file attachments. Parts are written in order.
type Multipart struct {
	Fields []Field
	Files  []FilePart
}

type encodedBody struct {
	reader      io.Reader
	contentType string
}

// encodeBody picks the wire encoding: multipart whenever files are attached,
// form-encoded for the login endpoint only, JSON for everything else.
func encodeBody(path string, req Request) (*encodedBody, error) {
	switch {
	case req.Multipart != nil:
		return encodeMultipart(req.Multipart)
	case isLoginPath(path):
		return encodeForm(req.Body)
	case req.Body != nil:
		data, err := jsonx.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON body: %w", err)
		}
		return &encodedBody{reader: bytes.NewReader(data), contentType: "application/json"}, nil
	default:
		return nil, nil
	}
}

func encodeForm(body any) (*encodedBody, error) {
	var values url.Values
	switch b := body.(type) {
	case url.Values:
		values = b
	case map[string]string:
		values = url.Values{}
		for k, v := range b {
			values.Set(k, v)
		}
	case nil:
		values = url.Values{}
	default:
		return nil, fmt.Errorf("login body must be url.Values or map[string]string, got %T", body)
	}
	return &encodedBody{
		reader:      strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, nil
}

func encodeMultipart(m *Multipart) (*encodedBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	for _, f := range m.Files {
		if err := writeFilePart(w, f); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &encodedBody{reader: &buf, contentType: w.FormDataContentType()}, nil
}

func writeFilePart(w *multipart.Writer, f FilePart) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", f.Path, err)
	}

	name := f.Filename
	if name == "" {
		name = filepath.Base(f.Path)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(f.Field), escapeQuotes(name)))
	h.Set("Content-Type", mimetype.Detect(data).String())

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", f.Field, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write part %s: %w", f.Field, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
