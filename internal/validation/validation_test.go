package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelink/internal/errors"
	"hirelink/internal/types"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestPDFFile(t *testing.T) {
	pdf := writeFile(t, "resume.pdf", minimalPDF)
	text := writeFile(t, "resume.pdf.txt", []byte("plain text resume"))
	disguised := writeFile(t, "fake.pdf", []byte("just text with a pdf extension"))

	tests := []struct {
		name    string
		path    string
		maxSize int64
		wantMsg string
		wantTyp errors.ErrorType
	}{
		{name: "valid pdf", path: pdf},
		{name: "empty path", path: "", wantMsg: MsgSelectPDF, wantTyp: errors.ErrorTypeValidation},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.pdf"), wantMsg: MsgSelectPDF, wantTyp: errors.ErrorTypeValidation},
		{name: "directory", path: t.TempDir(), wantMsg: MsgSelectPDF, wantTyp: errors.ErrorTypeValidation},
		{name: "text file", path: text, wantMsg: MsgOnlyPDF, wantTyp: errors.ErrorTypeValidation},
		{name: "extension is not enough", path: disguised, wantMsg: MsgOnlyPDF, wantTyp: errors.ErrorTypeValidation},
		{name: "too large", path: pdf, maxSize: 8, wantTyp: errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PDFFile(tt.path, tt.maxSize)
			if tt.wantTyp == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantTyp))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errors.Message(err, ""))
			}
		})
	}
}

func TestStruct(t *testing.T) {
	ok := types.JobPostInput{
		JobTitle:           "Go Engineer",
		JobDescription:     "Build things",
		SkillsRequired:     []string{"go"},
		Location:           "Remote",
		ExperienceRequired: "3 years",
		SalaryRange:        "100-120k",
	}
	assert.NoError(t, Struct(ok, MsgFillAllFields))

	missing := ok
	missing.Location = ""
	missing.SkillsRequired = nil
	err := Struct(missing, MsgFillAllFields)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
	assert.Equal(t, MsgFillAllFields, errors.Message(err, ""))
	assert.Contains(t, err.Error(), "location")
	assert.Contains(t, err.Error(), "skills_required")
}

func TestStruct_SignupEmail(t *testing.T) {
	in := types.SignupInput{
		Name: "Alice", Username: "alice", Email: "not-an-email",
		PhoneNo: "555", Role: types.RoleCandidate, Password: "pw",
	}
	assert.Error(t, Struct(in, "Registration failed"))

	in.Email = "a@x.com"
	assert.NoError(t, Struct(in, "Registration failed"))
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
		expectedError    string
	}{
		{name: "valid format - json", format: "json", supportedFormats: []string{"json", "text"}},
		{name: "valid format - text", format: "text", supportedFormats: []string{"json", "text"}},
		{
			name: "invalid format - xml", format: "xml", supportedFormats: []string{"json", "text"},
			expectError: true, expectedError: "unsupported output format 'xml'. Supported formats: [json text]",
		},
		{
			name: "case sensitive - JSON uppercase", format: "JSON", supportedFormats: []string{"json", "text"},
			expectError: true, expectedError: "unsupported output format 'JSON'. Supported formats: [json text]",
		},
		{name: "empty supported formats - should allow all", format: "xml", supportedFormats: []string{}},
		{name: "nil supported formats - should allow all", format: "json", supportedFormats: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if err.Error() != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "k8s"}, SplitList(" go, sql ,k8s "))
	assert.Equal(t, []string{"go"}, SplitList("go,, ,"))
	assert.Empty(t, SplitList(""))
}
