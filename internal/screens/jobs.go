package screens

import (
	"context"
	"strings"

	"hirelink/internal/guard"
	"hirelink/internal/types"
	"hirelink/internal/utils"
	"hirelink/internal/validation"
)

const (
	MsgFetchJobsFailed  = "Failed to fetch jobs."
	MsgNoJobs           = "No jobs available currently."
	MsgHRJobsFailed     = "Failed to fetch jobs. Please try again."
	MsgUnauthorized     = "Unauthorized access. Please log in."
	MsgNotAuthenticated = "You are not authenticated."
	MsgJobPosted        = "Job posted successfully!"
	MsgPostJobFailed    = "Failed to post job. Please try again."

	// DescriptionLimit and HRDescriptionLimit are how much of a job
	// description the candidate and HR lists show unless asked for everything.
	DescriptionLimit   = 250
	HRDescriptionLimit = 120
)

// JobQuery filters the candidate dashboard.
type JobQuery struct {
	Search string
	Full   bool
}

// JobsView is a list of job postings as a dashboard shows them.
type JobsView struct {
	Profile *types.UserProfile `json:"profile,omitempty"`
	Jobs    []types.Job        `json:"jobs"`
	Message string             `json:"message,omitempty"`
}

// CandidateJobs mounts the candidate dashboard and lists open jobs whose
// title contains the search text, ignoring case.
func (a *App) CandidateJobs(ctx context.Context, q JobQuery) (*JobsView, error) {
	m, profile, err := a.mount(guard.RouteCandidate)
	if err != nil {
		return nil, err
	}

	jobs, err := a.api.GetJobs(m.Context())
	if err != nil {
		return nil, a.failure(m, err, MsgFetchJobsFailed, true)
	}

	view := &JobsView{Profile: profile}
	if !m.Apply(func() {
		view.Jobs = filterJobs(jobs, q.Search)
		if !q.Full {
			view.Jobs = truncateDescriptions(view.Jobs, DescriptionLimit)
		}
		if len(view.Jobs) == 0 {
			view.Message = MsgNoJobs
		}
	}) {
		return nil, ErrScreenLeft
	}
	return view, nil
}

func filterJobs(jobs []types.Job, search string) []types.Job {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]types.Job, 0, len(jobs))
	for _, j := range jobs {
		if needle == "" || strings.Contains(strings.ToLower(j.JobTitle), needle) {
			out = append(out, j)
		}
	}
	return out
}

func truncateDescriptions(jobs []types.Job, limit int) []types.Job {
	out := make([]types.Job, len(jobs))
	for i, j := range jobs {
		j.JobDescription = utils.Truncate(j.JobDescription, limit)
		out[i] = j
	}
	return out
}

// HRJobs mounts the HR job list. Besides the hr role it needs a credential in
// the store; without one the user is sent to log in.
func (a *App) HRJobs(ctx context.Context, q JobQuery) (*JobsView, error) {
	m, profile, err := a.mount(guard.RouteHRJobs)
	if err != nil {
		return nil, err
	}
	if _, ok := a.session.Credential(m.Context()); !ok {
		a.nav.Replace(guard.RouteLogin)
		return nil, &RedirectError{From: guard.RouteHRJobs, To: guard.RouteLogin, Message: MsgUnauthorized}
	}

	jobs, err := a.api.HRJobs(m.Context())
	if err != nil {
		return nil, a.failure(m, err, MsgHRJobsFailed, false)
	}

	view := &JobsView{Profile: profile}
	if !m.Apply(func() {
		view.Jobs = jobs
		if !q.Full {
			view.Jobs = truncateDescriptions(jobs, HRDescriptionLimit)
		}
	}) {
		return nil, ErrScreenLeft
	}
	return view, nil
}

// JobForm is the HR posting form. Skills are comma-separated.
type JobForm struct {
	JobTitle           string
	JobDescription     string
	Skills             string
	Location           string
	ExperienceRequired string
	SalaryRange        string
}

// Input converts the form into the request body.
func (f JobForm) Input() types.JobPostInput {
	return types.JobPostInput{
		JobTitle:           strings.TrimSpace(f.JobTitle),
		JobDescription:     strings.TrimSpace(f.JobDescription),
		SkillsRequired:     validation.SplitList(f.Skills),
		Location:           strings.TrimSpace(f.Location),
		ExperienceRequired: strings.TrimSpace(f.ExperienceRequired),
		SalaryRange:        strings.TrimSpace(f.SalaryRange),
	}
}

// PostedJobView is the HR posting screen after a successful post.
type PostedJobView struct {
	Message string    `json:"message"`
	Job     types.Job `json:"job"`
}

// PostJob mounts the HR posting screen and creates a job.
func (a *App) PostJob(ctx context.Context, form JobForm) (*PostedJobView, error) {
	m, _, err := a.mount(guard.RouteHR)
	if err != nil {
		return nil, err
	}

	in := form.Input()
	if err := validation.Struct(in, validation.MsgFillAllFields); err != nil {
		return nil, err
	}
	if _, ok := a.session.Credential(m.Context()); !ok {
		return nil, validationFailure(MsgNotAuthenticated)
	}

	job, err := a.api.PostJob(m.Context(), in)
	if err != nil {
		return nil, a.failure(m, err, MsgPostJobFailed, false)
	}

	var view *PostedJobView
	if !m.Apply(func() { view = &PostedJobView{Message: MsgJobPosted, Job: *job} }) {
		return nil, ErrScreenLeft
	}
	return view, nil
}

// findJob looks a job up by id among the open jobs, then, for HR users,
// among their own postings.
func (a *App) findJob(ctx context.Context, profile *types.UserProfile, jobID string) (*types.Job, error) {
	jobs, err := a.api.GetJobs(ctx)
	if err != nil {
		return nil, err
	}
	if j := jobByID(jobs, jobID); j != nil {
		return j, nil
	}
	if profile != nil && profile.Role == types.RoleHR {
		own, err := a.api.HRJobs(ctx)
		if err != nil {
			return nil, err
		}
		return jobByID(own, jobID), nil
	}
	return nil, nil
}

func jobByID(jobs []types.Job, id string) *types.Job {
	for i := range jobs {
		if jobs[i].JobID == id {
			return &jobs[i]
		}
	}
	return nil
}
