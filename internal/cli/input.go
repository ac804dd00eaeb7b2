package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hirelink/internal/screens"
	"hirelink/internal/types"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// prompter reads answers from the user.
type prompter struct {
	src io.Reader
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{src: in, in: bufio.NewReader(in), out: out}
}

// Text prints prompt and reads one line.
func (p *prompter) Text(prompt string) (string, error) {
	return p.Line(prompt + ": ")
}

// Line prints prefix as is and reads one line. If EOF occurs after some
// input was read, the partial line is returned.
func (p *prompter) Line(prefix string) (string, error) {
	if _, err := io.WriteString(p.out, prefix); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// TextDefault is Text that keeps current when it is already set.
func (p *prompter) TextDefault(current *string, prompt string) error {
	if *current != "" {
		return nil
	}
	v, err := p.Text(prompt)
	if err != nil {
		return err
	}
	*current = v
	return nil
}

// field is one prompted form value.
type field struct {
	value  *string
	prompt string
}

// Fill prompts for every field that is still empty.
func (p *prompter) Fill(fields ...field) error {
	for _, f := range fields {
		if err := p.TextDefault(f.value, f.prompt); err != nil {
			return err
		}
	}
	return nil
}

func signupFields(in *types.SignupInput) []field {
	return []field{
		{&in.Name, "Full name"},
		{&in.Username, "Username"},
		{&in.Email, "Email"},
		{&in.PhoneNo, "Phone number"},
	}
}

func jobFormFields(form *screens.JobForm) []field {
	return []field{
		{&form.JobTitle, "Job title"},
		{&form.JobDescription, "Job description"},
		{&form.Skills, "Required skills (comma-separated)"},
		{&form.Location, "Location"},
		{&form.ExperienceRequired, "Experience required"},
		{&form.SalaryRange, "Salary range"},
	}
}

// Password reads a password without echo when the prompter reads from a
// terminal, and as a plain line otherwise so piped input works.
func (p *prompter) Password(prompt string) (string, error) {
	f, ok := p.src.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return p.Text(prompt)
	}
	fd := int(f.Fd())
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (p *prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Text(prompt + " [y/N]")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
