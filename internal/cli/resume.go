package cli

import (
	"context"
	"os"

	"hirelink/internal/errors"
	"hirelink/internal/screens"

	"github.com/spf13/cobra"
)

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Upload, review, download and analyze resumes",
	}
	cmd.AddCommand(newResumeUploadCmd(), newResumeListCmd(), newResumeDownloadCmd(), newResumeAnalyzeCmd())
	return cmd
}

func newResumeUploadCmd() *cobra.Command {
	var form screens.ApplyForm

	cmd := &cobra.Command{
		Use:   "upload <job-id> <resume.pdf>",
		Short: "Apply to a job with a PDF resume (candidates)",
		Long: `Open the apply screen of a job and upload a PDF resume. The HR username and
job title are taken from the job unless given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.JobID, form.FilePath = args[0], args[1]
			return runScreen(cmd, "apply", func(ctx context.Context, app *screens.App) (*screens.ApplyView, error) {
				return app.Apply(ctx, form)
			})
		},
	}

	cmd.Flags().StringVar(&form.HRUsername, "hr-username", "", "Username of the HR user who posted the job")
	cmd.Flags().StringVar(&form.JobTitle, "job-title", "", "Title of the job")
	return cmd
}

func newResumeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <job-id>",
		Short: "List the resumes sent for one of your jobs (HR)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, "jobresumes", func(ctx context.Context, app *screens.App) (*screens.ResumesView, error) {
				return app.JobResumes(ctx, args[0])
			})
		},
	}
}

func newResumeDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <job-id> <application-id>",
		Short: "Download the resume of an application (HR)",
		Long: `Download the resume of an application into the download directory
(app.downloadDir) as resume_<application-id>.pdf.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, "download", func(ctx context.Context, app *screens.App) (*screens.DownloadView, error) {
				return app.DownloadResume(ctx, args[0], args[1])
			})
		},
	}
}

func newResumeAnalyzeCmd() *cobra.Command {
	var (
		form     screens.AnalyzeForm
		descFile string
	)

	cmd := &cobra.Command{
		Use:   "analyze <resume.pdf>",
		Short: "Analyze a resume against a job description",
		Long: `Open the resume analyzer and compare a PDF resume with a job description.
The description is given with --job-desc, read from --job-desc-file, or taken
from the job named by --job-id.

The result lists the matching skills, a score, a conclusion (Good Fit or Not
Good Fit) and the reason for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.ResumePath = args[0]
			if descFile != "" {
				data, err := os.ReadFile(descFile)
				if err != nil {
					return errors.NewIOError(errors.ErrCodeFileNotReadable, "Cannot read job description file", err).
						WithContext("path", descFile)
				}
				form.JobDescription = string(data)
			}
			return runScreen(cmd, "analyze", func(ctx context.Context, app *screens.App) (*screens.AnalysisView, error) {
				return app.Analyze(ctx, form)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.JobDescription, "job-desc", "", "Job description text")
	f.StringVar(&descFile, "job-desc-file", "", "File holding the job description")
	f.StringVar(&form.JobID, "job-id", "", "Take the job description from this job")
	cmd.MarkFlagsMutuallyExclusive("job-desc", "job-desc-file")
	return cmd
}
