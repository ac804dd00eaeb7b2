// Package api is the typed client for the recruitment API. Every call goes
// through the gateway, so credential handling and forced logout stay in
// one place.
package api

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"

	"hirelink/internal/gateway"
	"hirelink/internal/types"
)

// Endpoint paths, relative to the API root.
const (
	PathLogin          = gateway.LoginPath
	PathSignup         = gateway.SignupPath
	PathGetJobs        = "jobs/get-jobs"
	PathHRJobs         = "jobs/hr-jobs"
	PathPostJob        = "jobs/post-job"
	PathUploadResume   = "resume/upload-resume"
	PathJobResumes     = "resume/get-job-resumess/"
	PathDownloadResume = "resume/download-resume/"
	PathAnalyze        = "resume/analyze"
	PathChat           = "chatbot/get_answer"
)

// Sender is the gateway contract the client needs.
type Sender interface {
	Send(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Client calls the recruitment API endpoints.
type Client struct {
	gw Sender
}

func New(gw Sender) *Client {
	return &Client{gw: gw}
}

// Login exchanges username and password for a credential. The body is
// form-encoded and never carries a bearer header.
func (c *Client) Login(ctx context.Context, in types.LoginInput) (*types.LoginResponse, error) {
	form := url.Values{}
	form.Set("username", in.Username)
	form.Set("password", in.Password)

	var out types.LoginResponse
	if err := c.call(ctx, gateway.Request{Method: http.MethodPost, Path: PathLogin, Body: form}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new user. It does not authenticate.
func (c *Client) Signup(ctx context.Context, in types.SignupInput) (*types.SignupResponse, error) {
	var out types.SignupResponse
	if err := c.call(ctx, gateway.Request{Method: http.MethodPost, Path: PathSignup, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJobs lists open job postings.
func (c *Client) GetJobs(ctx context.Context) ([]types.Job, error) {
	var out []types.Job
	if err := c.call(ctx, gateway.Request{Method: http.MethodGet, Path: PathGetJobs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HRJobs lists the postings of the authenticated HR user.
func (c *Client) HRJobs(ctx context.Context) ([]types.Job, error) {
	var out []types.Job
	if err := c.call(ctx, gateway.Request{Method: http.MethodGet, Path: PathHRJobs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostJob creates a job posting and returns the created record.
func (c *Client) PostJob(ctx context.Context, in types.JobPostInput) (*types.Job, error) {
	var out types.Job
	if err := c.call(ctx, gateway.Request{Method: http.MethodPost, Path: PathPostJob, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadResume applies to a job with a resume file.
func (c *Client) UploadResume(ctx context.Context, in types.ResumeUploadInput) (*types.ResumeUploadResponse, error) {
	req := gateway.Request{
		Method: http.MethodPost,
		Path:   PathUploadResume,
		Multipart: &gateway.Multipart{
			Fields: []gateway.Field{
				{Name: "candidate_username", Value: in.CandidateUsername},
				{Name: "hr_username", Value: in.HRUsername},
				{Name: "job_title", Value: in.JobTitle},
				{Name: "job_id", Value: in.JobID},
			},
			Files: []gateway.FilePart{{Field: "file", Path: in.FilePath}},
		},
	}

	var out types.ResumeUploadResponse
	if err := c.call(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobResumes lists the applications received for a job.
func (c *Client) JobResumes(ctx context.Context, jobID string) ([]types.Application, error) {
	var out []types.Application
	req := gateway.Request{Method: http.MethodGet, Path: PathJobResumes + url.PathEscape(jobID)}
	if err := c.call(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadResume fetches the raw resume file of an application.
func (c *Client) DownloadResume(ctx context.Context, applicationID string) ([]byte, error) {
	resp, err := c.gw.Send(ctx, gateway.Request{
		Method:       http.MethodGet,
		Path:         PathDownloadResume + url.PathEscape(applicationID),
		ExpectBinary: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

type analyzeResponse struct {
	Result string `json:"result"`
}

// Analyze asks the matching service to compare a resume with a job
// description.
func (c *Client) Analyze(ctx context.Context, in types.AnalyzeInput) (*types.AnalysisResult, error) {
	req := gateway.Request{
		Method: http.MethodPost,
		Path:   PathAnalyze,
		Multipart: &gateway.Multipart{
			Fields: []gateway.Field{{Name: "job_desc", Value: in.JobDescription}},
			Files:  []gateway.FilePart{{Field: "resume", Path: in.ResumePath, Filename: filepath.Base(in.ResumePath)}},
		},
	}

	var out analyzeResponse
	if err := c.call(ctx, req, &out); err != nil {
		return nil, err
	}
	result := ParseAnalysis(out.Result)
	return &result, nil
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Chat sends a question to the assistant and returns its answer.
func (c *Client) Chat(ctx context.Context, query string) (string, error) {
	var out chatResponse
	req := gateway.Request{Method: http.MethodPost, Path: PathChat, Body: chatRequest{Query: query}}
	if err := c.call(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (c *Client) call(ctx context.Context, req gateway.Request, out any) error {
	resp, err := c.gw.Send(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}
