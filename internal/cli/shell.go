package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"hirelink/internal/screens"
	"hirelink/internal/types"

	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive session that moves between screens",
		Long: `Open an interactive session. All screens share one navigator, so the
current route is shown in the prompt, "back" returns to the previous screen and
a screen you leave never shows a late response. Type "help" for the commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
				p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
				return newShell(rt, p, cmd.ErrOrStderr()).Run(ctx)
			})
		},
	}
}

type shellCommand struct {
	usage string
	args  int
	run   func(ctx context.Context, args []string) error
}

type shell struct {
	rt       *runtime
	app      *screens.App
	p        *prompter
	out      io.Writer
	commands map[string]shellCommand
}

func newShell(rt *runtime, p *prompter, out io.Writer) *shell {
	s := &shell{rt: rt, app: rt.app, p: p, out: out}
	s.commands = map[string]shellCommand{
		"home": {usage: "home", run: func(ctx context.Context, _ []string) error {
			return show(ctx, s.rt, "home", s.app.Home)
		}},
		"whoami": {usage: "whoami", run: func(ctx context.Context, _ []string) error {
			return show(ctx, s.rt, "dashboard", s.app.Dashboard)
		}},
		"login":  {usage: "login", run: s.login},
		"signup": {usage: "signup", run: s.signup},
		"logout": {usage: "logout", run: func(ctx context.Context, _ []string) error {
			return show(ctx, s.rt, "logout", func(ctx context.Context) (*screens.LogoutView, error) {
				return s.app.Logout(ctx, func(context.Context) (bool, error) {
					return s.p.Confirm("Are you sure you want to log out?")
				})
			})
		}},
		"jobs": {usage: "jobs [search text]", run: func(ctx context.Context, args []string) error {
			q := screens.JobQuery{Search: strings.Join(args, " ")}
			return show(ctx, s.rt, "candidate", func(ctx context.Context) (*screens.JobsView, error) {
				return s.app.CandidateJobs(ctx, q)
			})
		}},
		"mine": {usage: "mine", run: func(ctx context.Context, _ []string) error {
			return show(ctx, s.rt, "hrjobs", func(ctx context.Context) (*screens.JobsView, error) {
				return s.app.HRJobs(ctx, screens.JobQuery{})
			})
		}},
		"post": {usage: "post", run: s.post},
		"apply": {usage: "apply <job-id> <resume.pdf>", args: 2, run: func(ctx context.Context, args []string) error {
			form := screens.ApplyForm{JobID: args[0], FilePath: args[1]}
			return show(ctx, s.rt, "apply", func(ctx context.Context) (*screens.ApplyView, error) {
				return s.app.Apply(ctx, form)
			})
		}},
		"resumes": {usage: "resumes <job-id>", args: 1, run: func(ctx context.Context, args []string) error {
			return show(ctx, s.rt, "jobresumes", func(ctx context.Context) (*screens.ResumesView, error) {
				return s.app.JobResumes(ctx, args[0])
			})
		}},
		"download": {usage: "download <job-id> <application-id>", args: 2, run: func(ctx context.Context, args []string) error {
			return show(ctx, s.rt, "download", func(ctx context.Context) (*screens.DownloadView, error) {
				return s.app.DownloadResume(ctx, args[0], args[1])
			})
		}},
		"analyze": {usage: "analyze <resume.pdf> [job-id]", args: 1, run: s.analyze},
		"chat": {usage: "chat <question>", args: 1, run: func(ctx context.Context, args []string) error {
			return ask(ctx, s.rt, s.app.Chat(), strings.Join(args, " "))
		}},
		"history": {usage: "history", run: func(ctx context.Context, _ []string) error {
			return show(ctx, s.rt, "chat", func(context.Context) ([]types.ChatMessage, error) {
				return s.app.Chat().History(), nil
			})
		}},
		"back": {usage: "back", run: func(context.Context, []string) error {
			fmt.Fprintln(s.out, "→", s.app.Navigator().Back().Path())
			return nil
		}},
		"where": {usage: "where", run: func(context.Context, []string) error {
			fmt.Fprintln(s.out, s.app.Navigator().Current())
			return nil
		}},
	}
	return s
}

// Run reads commands until EOF, exit or quit. A failing command is reported
// and the loop goes on.
func (s *shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.p.Line(fmt.Sprintf("hirelink %s> ", s.app.Navigator().Current()))
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Bye!")
			return nil
		case "help":
			s.help()
			continue
		}

		c, ok := s.commands[name]
		if !ok {
			fmt.Fprintln(s.out, "Unknown command:", name)
			continue
		}
		if len(args) < c.args {
			fmt.Fprintln(s.out, "Usage:", c.usage)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return ctx.Err()
			}
			ReportError(s.out, err)
		}
	}
}

func (s *shell) help() {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(s.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s\n", s.commands[name].usage)
	}
	fmt.Fprintln(s.out, "  help")
	fmt.Fprintln(s.out, "  exit | quit")
}

func (s *shell) login(ctx context.Context, _ []string) error {
	var in types.LoginInput
	if err := s.p.TextDefault(&in.Username, "Username"); err != nil {
		return err
	}
	pw, err := s.p.Password("Password")
	if err != nil {
		return err
	}
	in.Password = pw
	return show(ctx, s.rt, "login", func(ctx context.Context) (*screens.LoginView, error) {
		return s.app.Login(ctx, in)
	})
}

func (s *shell) signup(ctx context.Context, _ []string) error {
	var in types.SignupInput
	var role string
	fields := append(signupFields(&in), field{&role, "Role (candidate or hr, default candidate)"})
	if err := s.p.Fill(fields...); err != nil {
		return err
	}
	pw, err := s.p.Password("Password")
	if err != nil {
		return err
	}
	in.Password = pw
	in.Role = types.Role(role)
	return show(ctx, s.rt, "signup", func(ctx context.Context) (*screens.SignupView, error) {
		return s.app.Signup(ctx, in)
	})
}

func (s *shell) post(ctx context.Context, _ []string) error {
	var form screens.JobForm
	if err := s.p.Fill(jobFormFields(&form)...); err != nil {
		return err
	}
	return show(ctx, s.rt, "hr", func(ctx context.Context) (*screens.PostedJobView, error) {
		return s.app.PostJob(ctx, form)
	})
}

func (s *shell) analyze(ctx context.Context, args []string) error {
	form := screens.AnalyzeForm{ResumePath: args[0]}
	if len(args) > 1 {
		form.JobID = args[1]
	} else if err := s.p.TextDefault(&form.JobDescription, "Job description"); err != nil {
		return err
	}
	return show(ctx, s.rt, "analyze", func(ctx context.Context) (*screens.AnalysisView, error) {
		return s.app.Analyze(ctx, form)
	})
}
