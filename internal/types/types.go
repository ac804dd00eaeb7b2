package types

import "strings"

// Role is the user role reported by the API at login
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"

	// RoleAny is used by screens that only need an authenticated user
	RoleAny Role = ""
)

// Known reports whether the role is one the client routes explicitly
func (r Role) Known() bool {
	return r == RoleCandidate || r == RoleHR
}

// UserProfile is the locally cached identity of the authenticated user.
// It is trusted until cleared and never re-validated against the server.
type UserProfile struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	PhoneNo   string `json:"phone_no"`
	Role      Role   `json:"role"`
	TokenType string `json:"token_type"`
}

// LoginInput is submitted form-encoded to auth/login
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse is the success body of auth/login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        Role   `json:"role"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNo     string `json:"phone_no"`
}

// Profile extracts the cached profile from a login response
func (r LoginResponse) Profile() UserProfile {
	return UserProfile{
		Name:      r.Name,
		Username:  r.Username,
		Email:     r.Email,
		PhoneNo:   r.PhoneNo,
		Role:      r.Role,
		TokenType: r.TokenType,
	}
}

// SignupInput is the JSON body of auth/signup
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	PhoneNo  string `json:"phone_no" validate:"required"`
	Role     Role   `json:"role" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupResponse echoes the created user; the client does not use it further
type SignupResponse struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PhoneNo  string `json:"phone_no"`
	Role     Role   `json:"role"`
}

// Job is a job posting as returned by the jobs endpoints.
// Timestamps are kept as the server sends them.
type Job struct {
	JobID              string   `json:"job_id"`
	HRUsername         string   `json:"hr_username"`
	JobTitle           string   `json:"job_title"`
	JobDescription     string   `json:"job_description"`
	SkillsRequired     []string `json:"skills_required"`
	Location           string   `json:"location"`
	ExperienceRequired string   `json:"experience_required"`
	SalaryRange        string   `json:"salary_range"`
	Status             string   `json:"status"`
	DatePosted         string   `json:"date_posted,omitempty"`
	CreatedAt          string   `json:"created_at,omitempty"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
}

// IsOpen reports whether the posting accepts applications
func (j Job) IsOpen() bool {
	return strings.EqualFold(j.Status, "open")
}

// JobPostInput is the JSON body of jobs/post-job
type JobPostInput struct {
	JobTitle           string   `json:"job_title" validate:"required"`
	JobDescription     string   `json:"job_description" validate:"required"`
	SkillsRequired     []string `json:"skills_required" validate:"required,min=1,dive,required"`
	Location           string   `json:"location" validate:"required"`
	ExperienceRequired string   `json:"experience_required" validate:"required"`
	SalaryRange        string   `json:"salary_range" validate:"required"`
}

// ResumeUploadInput describes a multipart upload to resume/upload-resume
type ResumeUploadInput struct {
	CandidateUsername string `validate:"required"`
	HRUsername        string `validate:"required"`
	JobTitle          string `validate:"required"`
	JobID             string `validate:"required"`
	FilePath          string `validate:"required"`
}

// ResumeUploadResponse is the success body of resume/upload-resume
type ResumeUploadResponse struct {
	CandidateUsername string `json:"candidate_username"`
	HRUsername        string `json:"hr_username"`
	FileName          string `json:"file_name"`
	UploadedAt        string `json:"uploaded_at,omitempty"`
}

// Application is one resume submitted for a job
type Application struct {
	ApplicationID     string `json:"application_id"`
	CandidateUsername string `json:"candidate_username"`
	JobTitle          string `json:"job_title"`
	Filename          string `json:"filename"`
}

// AnalyzeInput is the multipart body of resume/analyze
type AnalyzeInput struct {
	JobDescription string `validate:"required"`
	ResumePath     string `validate:"required"`
}

// AnalysisResult is the parsed free-text answer of resume/analyze
type AnalysisResult struct {
	MatchingSkills string `json:"matchingSkills"`
	Score          string `json:"score"`
	Conclusion     string `json:"conclusion"`
	Reason         string `json:"reason"`
	Raw            string `json:"raw"`
}

// GoodFit reports whether the service concluded the resume matches
func (a AnalysisResult) GoodFit() bool {
	return a.Conclusion == "Good Fit"
}

// ChatSender identifies who wrote a chat message
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one entry of the chat widget history
type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
}

// DownloadedResume is a resume fetched from resume/download-resume
type DownloadedResume struct {
	ApplicationID string `json:"applicationId"`
	Path          string `json:"path"`
	Size          int64  `json:"size"`
}

// SessionStatus summarizes the local session for display
type SessionStatus struct {
	Profile           *UserProfile `json:"profile,omitempty"`
	HasCredential     bool         `json:"hasCredential"`
	CredentialExpires string       `json:"credentialExpires,omitempty"`
	TokenExpires      string       `json:"tokenExpires,omitempty"`
}

// BreakerStatus describes the API circuit breaker
type BreakerStatus struct {
	Enabled  bool   `json:"enabled"`
	Name     string `json:"name,omitempty"`
	State    string `json:"state,omitempty"`
	Healthy  bool   `json:"healthy"`
	Requests uint32 `json:"requests,omitempty"`
	Failures uint32 `json:"failures,omitempty"`
}
