package formatters

import (
	"fmt"
	"slices"
	"strings"

	"hirelink/internal/jsonx"
	"hirelink/internal/screens"
	"hirelink/internal/types"
	"hirelink/internal/utils"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry is the registry used by the command output handler
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "any", &MessageTextFormatter{})
	registry.RegisterFormatter("text", "JobsView", &JobsTextFormatter{})
	registry.RegisterFormatter("text", "PostedJobView", &PostedJobTextFormatter{})
	registry.RegisterFormatter("text", "ResumesView", &ResumesTextFormatter{})
	registry.RegisterFormatter("text", "AnalysisView", &AnalysisTextFormatter{})
	registry.RegisterFormatter("text", "HomeView", &HomeTextFormatter{})
	registry.RegisterFormatter("text", "DashboardView", &DashboardTextFormatter{})
	registry.RegisterFormatter("text", "SessionStatus", &StatusTextFormatter{})
	registry.RegisterFormatter("text", "ChatHistory", &ChatTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// Supports reports whether any formatter is registered for format
func (fr *FormatterRegistry) Supports(format string) bool {
	_, ok := fr.formatters[format]
	return ok
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *screens.JobsView:
		return "JobsView"
	case *screens.PostedJobView:
		return "PostedJobView"
	case *screens.ResumesView:
		return "ResumesView"
	case *screens.AnalysisView:
		return "AnalysisView"
	case *screens.HomeView:
		return "HomeView"
	case *screens.DashboardView:
		return "DashboardView"
	case types.SessionStatus, *types.SessionStatus:
		return "SessionStatus"
	case []types.ChatMessage:
		return "ChatHistory"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := jsonx.MarshalIndent(data)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// MessageTextFormatter prints the message of simple screen results
type MessageTextFormatter struct{}

func (mtf *MessageTextFormatter) Format(data any) (string, error) {
	var output strings.Builder

	switch v := data.(type) {
	case *screens.LoginView:
		output.WriteString(v.Message + "\n")
		writeProfile(&output, &v.Profile)
		writeRoute(&output, v.Route)
	case *screens.SignupView:
		output.WriteString(v.Message + "\n")
		fmt.Fprintf(&output, "Account: %s (%s)\n", v.Account.Username, v.Account.Role)
		writeRoute(&output, v.Route)
	case *screens.LogoutView:
		output.WriteString(v.Message + "\n")
		writeRoute(&output, v.Route)
	case *screens.ApplyView:
		output.WriteString(v.Message + "\n")
	case *screens.DownloadView:
		output.WriteString(v.Message + "\n")
		fmt.Fprintf(&output, "Saved %s (%s)\n", v.Resume.Path, utils.FormatFileSize(v.Resume.Size))
	case *types.ChatMessage:
		writeChatMessage(&output, *v)
	case string:
		output.WriteString(v + "\n")
	default:
		return "", fmt.Errorf("no text layout for %T", data)
	}

	return output.String(), nil
}

func (mtf *MessageTextFormatter) SupportedType() string {
	return "any"
}

// JobsTextFormatter handles text formatting for job lists
type JobsTextFormatter struct{}

func (jtf *JobsTextFormatter) Format(data any) (string, error) {
	view, ok := data.(*screens.JobsView)
	if !ok {
		return "", fmt.Errorf("expected *screens.JobsView, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOBS ===\n")
	if view.Profile != nil {
		fmt.Fprintf(&output, "Signed in as %s\n", displayName(view.Profile))
	}
	output.WriteString("\n")
	if view.Message != "" {
		output.WriteString(view.Message + "\n")
	}
	for i, job := range view.Jobs {
		if i > 0 {
			output.WriteString("\n")
		}
		writeJob(&output, job)
	}

	return output.String(), nil
}

func (jtf *JobsTextFormatter) SupportedType() string {
	return "JobsView"
}

// PostedJobTextFormatter handles text formatting for a newly posted job
type PostedJobTextFormatter struct{}

func (ptf *PostedJobTextFormatter) Format(data any) (string, error) {
	view, ok := data.(*screens.PostedJobView)
	if !ok {
		return "", fmt.Errorf("expected *screens.PostedJobView, got %T", data)
	}

	var output strings.Builder
	output.WriteString(view.Message + "\n\n")
	writeJob(&output, view.Job)
	return output.String(), nil
}

func (ptf *PostedJobTextFormatter) SupportedType() string {
	return "PostedJobView"
}

// ResumesTextFormatter handles text formatting for the resumes of a job
type ResumesTextFormatter struct{}

func (rtf *ResumesTextFormatter) Format(data any) (string, error) {
	view, ok := data.(*screens.ResumesView)
	if !ok {
		return "", fmt.Errorf("expected *screens.ResumesView, got %T", data)
	}

	var output strings.Builder

	fmt.Fprintf(&output, "=== RESUMES FOR JOB %s ===\n\n", view.JobID)
	if view.Message != "" {
		output.WriteString(view.Message + "\n")
	}
	for _, app := range view.Applications {
		fmt.Fprintf(&output, "- [%s] %s: %s (%s)\n", app.ApplicationID, app.CandidateUsername, app.Filename, app.JobTitle)
	}

	return output.String(), nil
}

func (rtf *ResumesTextFormatter) SupportedType() string {
	return "ResumesView"
}

// AnalysisTextFormatter handles text formatting for resume analysis
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	view, ok := data.(*screens.AnalysisView)
	if !ok {
		return "", fmt.Errorf("expected *screens.AnalysisView, got %T", data)
	}
	result := view.Result

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n")
	if view.JobID != "" {
		fmt.Fprintf(&output, "Job: %s\n", view.JobID)
	}
	output.WriteString("\n")
	fmt.Fprintf(&output, "Matching Skills: %s\n", result.MatchingSkills)
	fmt.Fprintf(&output, "Score: %s\n", result.Score)
	verdict := "✗"
	if result.GoodFit() {
		verdict = "✓"
	}
	fmt.Fprintf(&output, "Conclusion: %s %s\n", verdict, result.Conclusion)
	fmt.Fprintf(&output, "Reason: %s\n", result.Reason)

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisView"
}

// HomeTextFormatter handles text formatting for the landing screen
type HomeTextFormatter struct{}

func (htf *HomeTextFormatter) Format(data any) (string, error) {
	view, ok := data.(*screens.HomeView)
	if !ok {
		return "", fmt.Errorf("expected *screens.HomeView, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== HIRELINK ===\n")
	if view.Profile != nil {
		fmt.Fprintf(&output, "Welcome, %s\n", displayName(view.Profile))
	} else {
		output.WriteString("Find your next job or your next hire.\n")
	}
	output.WriteString("\n")
	writeLinks(&output, view.Links)

	return output.String(), nil
}

func (htf *HomeTextFormatter) SupportedType() string {
	return "HomeView"
}

// DashboardTextFormatter handles text formatting for the generic dashboard
type DashboardTextFormatter struct{}

func (dtf *DashboardTextFormatter) Format(data any) (string, error) {
	view, ok := data.(*screens.DashboardView)
	if !ok {
		return "", fmt.Errorf("expected *screens.DashboardView, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== DASHBOARD ===\n\n")
	writeStatus(&output, view.Status)
	if view.API != nil {
		writeBreaker(&output, *view.API)
	}
	output.WriteString("\n")
	writeLinks(&output, view.Links)
	return output.String(), nil
}

func (dtf *DashboardTextFormatter) SupportedType() string {
	return "DashboardView"
}

// StatusTextFormatter handles text formatting for the session summary
type StatusTextFormatter struct{}

func (stf *StatusTextFormatter) Format(data any) (string, error) {
	var status types.SessionStatus
	switch v := data.(type) {
	case types.SessionStatus:
		status = v
	case *types.SessionStatus:
		status = *v
	default:
		return "", fmt.Errorf("expected types.SessionStatus, got %T", data)
	}

	var output strings.Builder
	writeStatus(&output, status)
	return output.String(), nil
}

func (stf *StatusTextFormatter) SupportedType() string {
	return "SessionStatus"
}

// ChatTextFormatter handles text formatting for a chat transcript
type ChatTextFormatter struct{}

func (ctf *ChatTextFormatter) Format(data any) (string, error) {
	history, ok := data.([]types.ChatMessage)
	if !ok {
		return "", fmt.Errorf("expected []types.ChatMessage, got %T", data)
	}

	var output strings.Builder
	for _, m := range history {
		writeChatMessage(&output, m)
	}
	return output.String(), nil
}

func (ctf *ChatTextFormatter) SupportedType() string {
	return "ChatHistory"
}

func writeJob(output *strings.Builder, job types.Job) {
	badge := "[Closed]"
	if job.IsOpen() {
		badge = "[Open]"
	} else if job.Status != "" {
		badge = "[" + job.Status + "]"
	}
	fmt.Fprintf(output, "%s %s (id %s)\n", badge, job.JobTitle, job.JobID)
	if job.Location != "" {
		fmt.Fprintf(output, "  Location: %s\n", job.Location)
	}
	if job.ExperienceRequired != "" {
		fmt.Fprintf(output, "  Experience: %s\n", job.ExperienceRequired)
	}
	if job.SalaryRange != "" {
		fmt.Fprintf(output, "  Salary: %s\n", job.SalaryRange)
	}
	if len(job.SkillsRequired) > 0 {
		fmt.Fprintf(output, "  Skills: %s\n", strings.Join(job.SkillsRequired, ", "))
	}
	if job.HRUsername != "" {
		fmt.Fprintf(output, "  Posted by: %s\n", job.HRUsername)
	}
	if job.JobDescription != "" {
		fmt.Fprintf(output, "  %s\n", job.JobDescription)
	}
}

func writeStatus(output *strings.Builder, status types.SessionStatus) {
	if status.Profile != nil {
		writeProfile(output, status.Profile)
	} else {
		output.WriteString("Not signed in\n")
	}
	if status.HasCredential {
		output.WriteString("Credential: stored\n")
		if status.CredentialExpires != "" {
			fmt.Fprintf(output, "Credential expires: %s\n", status.CredentialExpires)
		}
		if status.TokenExpires != "" {
			fmt.Fprintf(output, "Token claims expiry: %s\n", status.TokenExpires)
		}
	} else {
		output.WriteString("Credential: none\n")
	}
}

func writeBreaker(output *strings.Builder, st types.BreakerStatus) {
	if !st.Enabled {
		output.WriteString("API circuit breaker: disabled\n")
		return
	}
	health := "healthy"
	if !st.Healthy {
		health = "failing fast"
	}
	fmt.Fprintf(output, "API circuit breaker: %s, %s (%d/%d requests failed)\n",
		st.State, health, st.Failures, st.Requests)
}

func writeProfile(output *strings.Builder, p *types.UserProfile) {
	fmt.Fprintf(output, "User: %s\n", displayName(p))
	if p.Email != "" {
		fmt.Fprintf(output, "Email: %s\n", p.Email)
	}
	if p.PhoneNo != "" {
		fmt.Fprintf(output, "Phone: %s\n", p.PhoneNo)
	}
	role := string(p.Role)
	if role == "" {
		role = "unknown"
	}
	fmt.Fprintf(output, "Role: %s\n", role)
}

func writeLinks(output *strings.Builder, links []screens.Link) {
	for _, l := range links {
		fmt.Fprintf(output, "  %-16s %s\n", l.Route, l.Label)
	}
}

func writeRoute(output *strings.Builder, route string) {
	if route != "" {
		fmt.Fprintf(output, "→ %s\n", route)
	}
}

func writeChatMessage(output *strings.Builder, m types.ChatMessage) {
	who := "You"
	if m.Sender == types.SenderBot {
		who = "Bot"
	}
	fmt.Fprintf(output, "%s: %s\n", who, m.Text)
}

func displayName(p *types.UserProfile) string {
	if p.Name != "" && p.Username != "" {
		return fmt.Sprintf("%s (@%s)", p.Name, p.Username)
	}
	if p.Name != "" {
		return p.Name
	}
	return "@" + p.Username
}
