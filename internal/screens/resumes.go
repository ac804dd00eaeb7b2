package screens

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"hirelink/internal/guard"
	"hirelink/internal/types"
	"hirelink/internal/validation"
)

const (
	MsgNoToken         = "Authentication token not found."
	MsgUploadFailed    = "Failed to upload resume. Please try again."
	MsgNoResumes       = "No resumes available for this job."
	MsgDownloadStarted = "Your resume will start downloading shortly."
	MsgDownloadFailed  = "Failed to fetch or download the resume. Please try again."
	MsgAnalyzeFailed   = "Error analyzing resume. Please try again."
	MsgJobNotFound     = "Job not found."
)

// ApplyForm is the application for one job. HRUsername and JobTitle are
// looked up from the job when left empty.
type ApplyForm struct {
	JobID      string
	HRUsername string
	JobTitle   string
	FilePath   string
}

// ApplyView is the apply screen after a successful upload.
type ApplyView struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}

// Apply mounts the apply screen for a job and uploads a PDF resume on
// behalf of the logged-in candidate.
func (a *App) Apply(ctx context.Context, form ApplyForm) (*ApplyView, error) {
	m, profile, err := a.mount(guard.Build(guard.RouteApply, "jobId", form.JobID))
	if err != nil {
		return nil, err
	}

	if err := validation.PDFFile(form.FilePath, a.maxUpload); err != nil {
		return nil, err
	}
	if _, ok := a.session.Credential(m.Context()); !ok {
		return nil, validationFailure(MsgNoToken)
	}

	if form.HRUsername == "" || form.JobTitle == "" {
		job, err := a.findJob(m.Context(), profile, form.JobID)
		if err != nil {
			return nil, a.failure(m, err, MsgUploadFailed, true)
		}
		if job == nil {
			return nil, validationFailure(MsgJobNotFound)
		}
		if form.HRUsername == "" {
			form.HRUsername = job.HRUsername
		}
		if form.JobTitle == "" {
			form.JobTitle = job.JobTitle
		}
	}

	in := types.ResumeUploadInput{
		CandidateUsername: profile.Username,
		HRUsername:        form.HRUsername,
		JobTitle:          form.JobTitle,
		JobID:             form.JobID,
		FilePath:          form.FilePath,
	}
	if err := validation.Struct(in, validation.MsgFillAllFields); err != nil {
		return nil, err
	}

	resp, err := a.api.UploadResume(m.Context(), in)
	if err != nil {
		return nil, a.failure(m, err, MsgUploadFailed, true)
	}

	var view *ApplyView
	if !m.Apply(func() {
		view = &ApplyView{
			Message:  fmt.Sprintf("Resume uploaded successfully! File: %s", resp.FileName),
			FileName: resp.FileName,
		}
	}) {
		return nil, ErrScreenLeft
	}
	return view, nil
}

// ResumesView lists the applications of one job.
type ResumesView struct {
	JobID        string              `json:"jobId"`
	Applications []types.Application `json:"applications"`
	Message      string              `json:"message,omitempty"`
}

// JobResumes mounts the resume list of a job. A failed fetch shows an empty
// list without an error; only a rejected session is reported.
func (a *App) JobResumes(ctx context.Context, jobID string) (*ResumesView, error) {
	m, _, err := a.mount(guard.Build(guard.RouteJobResumes, "job_id", jobID))
	if err != nil {
		return nil, err
	}

	apps, err := a.api.JobResumes(m.Context(), jobID)
	if err != nil {
		if a.recoverSession(err) {
			return nil, err
		}
		a.logger.Debug("Resume listing failed, showing empty list", "job_id", jobID, "error", err)
		apps = nil
	}

	view := &ResumesView{JobID: jobID}
	if !m.Apply(func() {
		view.Applications = append([]types.Application{}, apps...)
		if len(view.Applications) == 0 {
			view.Message = MsgNoResumes
		}
	}) {
		return nil, ErrScreenLeft
	}
	return view, nil
}

// DownloadView reports a saved resume.
type DownloadView struct {
	Message string                 `json:"message"`
	Resume  types.DownloadedResume `json:"resume"`
}

// DownloadFileName is the local name of a downloaded resume.
func DownloadFileName(applicationID string) string {
	return fmt.Sprintf("resume_%s.pdf", sanitizeFileName(applicationID))
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
}

// DownloadResume fetches an application's resume from the job's resume
// screen and saves it into the download directory.
func (a *App) DownloadResume(ctx context.Context, jobID, applicationID string) (*DownloadView, error) {
	m, _, err := a.mount(guard.Build(guard.RouteJobResumes, "job_id", jobID))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(applicationID) == "" {
		return nil, validationFailure(validation.MsgFillAllFields)
	}

	data, err := a.api.DownloadResume(m.Context(), applicationID)
	if err != nil {
		return nil, a.failure(m, err, MsgDownloadFailed, false)
	}

	path := filepath.Join(a.downloadDir, DownloadFileName(applicationID))
	// The file is only written while the screen is still current.
	var writeErr error
	if !m.Apply(func() { writeErr = a.files.WriteBytes(path, data) }) {
		return nil, ErrScreenLeft
	}
	if writeErr != nil {
		return nil, a.failure(m, writeErr, MsgDownloadFailed, false)
	}

	return &DownloadView{
		Message: MsgDownloadStarted,
		Resume:  types.DownloadedResume{ApplicationID: applicationID, Path: path, Size: int64(len(data))},
	}, nil
}

// AnalyzeForm is the analyzer input. With JobID set and no description the
// description is taken from that job.
type AnalyzeForm struct {
	JobDescription string
	JobID          string
	ResumePath     string
}

// AnalysisView is the analyzer result.
type AnalysisView struct {
	JobID  string               `json:"jobId,omitempty"`
	Result types.AnalysisResult `json:"result"`
}

// Analyze mounts the analyzer and compares a resume against a job
// description.
func (a *App) Analyze(ctx context.Context, form AnalyzeForm) (*AnalysisView, error) {
	m, profile, err := a.mount(guard.RouteAnalyze)
	if err != nil {
		return nil, err
	}

	desc := strings.TrimSpace(form.JobDescription)
	if desc == "" && form.JobID != "" {
		job, err := a.findJob(m.Context(), profile, form.JobID)
		if err != nil {
			return nil, a.failure(m, err, MsgAnalyzeFailed, false)
		}
		if job != nil {
			desc = job.JobDescription
		}
	}

	in := types.AnalyzeInput{JobDescription: desc, ResumePath: strings.TrimSpace(form.ResumePath)}
	if err := validation.Struct(in, validation.MsgFillAllFields); err != nil {
		return nil, err
	}
	if err := validation.PDFFile(in.ResumePath, a.maxUpload); err != nil {
		return nil, err
	}

	result, err := a.api.Analyze(m.Context(), in)
	if err != nil {
		return nil, a.failure(m, err, MsgAnalyzeFailed, false)
	}

	var view *AnalysisView
	if !m.Apply(func() { view = &AnalysisView{JobID: form.JobID, Result: *result} }) {
		return nil, ErrScreenLeft
	}
	return view, nil
}
