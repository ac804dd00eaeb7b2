package cli

import (
	"context"

	"hirelink/internal/screens"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse, list and post jobs",
	}
	cmd.AddCommand(newJobsListCmd(), newJobsMineCmd(), newJobsPostCmd())
	return cmd
}

func newJobsListCmd() *cobra.Command {
	var q screens.JobQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open jobs (candidates)",
		Long: `Open the candidate dashboard and list the open jobs. --search keeps the jobs
whose title contains the text, ignoring case. Descriptions are cut after 250
characters unless --full is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, "candidate", func(ctx context.Context, app *screens.App) (*screens.JobsView, error) {
				return app.CandidateJobs(ctx, q)
			})
		},
	}

	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "Only jobs whose title contains this text")
	cmd.Flags().BoolVar(&q.Full, "full", false, "Show full job descriptions")
	return cmd
}

func newJobsMineCmd() *cobra.Command {
	var q screens.JobQuery

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the jobs you posted (HR)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, "hrjobs", func(ctx context.Context, app *screens.App) (*screens.JobsView, error) {
				return app.HRJobs(ctx, q)
			})
		},
	}

	cmd.Flags().BoolVar(&q.Full, "full", false, "Show full job descriptions")
	return cmd
}

func newJobsPostCmd() *cobra.Command {
	var form screens.JobForm

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a new job (HR)",
		Long: `Open the HR posting screen and create a job. All fields are required;
missing ones are prompted for. Skills are comma-separated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err := p.Fill(jobFormFields(&form)...); err != nil {
				return err
			}
			return runScreen(cmd, "hr", func(ctx context.Context, app *screens.App) (*screens.PostedJobView, error) {
				return app.PostJob(ctx, form)
			})
		},
	}

	bindJobFormFlags(cmd.Flags(), &form)
	return cmd
}

func bindJobFormFlags(f *pflag.FlagSet, form *screens.JobForm) {
	f.StringVar(&form.JobTitle, "title", "", "Job title")
	f.StringVar(&form.JobDescription, "description", "", "Job description")
	f.StringVar(&form.Skills, "skills", "", "Required skills, comma-separated")
	f.StringVar(&form.Location, "location", "", "Location")
	f.StringVar(&form.ExperienceRequired, "experience", "", "Experience required")
	f.StringVar(&form.SalaryRange, "salary", "", "Salary range")
}
