package jobs

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/cristianoliveira/myterm/internal/command"
	"golang.org/x/sys/unix"
)

// DefaultShell interprets every command body.
const DefaultShell = "/bin/sh"

func shellCommand(shell, body string, pgid int) *exec.Cmd {
	cmd := exec.Command(shell, "-c", body)
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true, Pgid: pgid}
	return cmd
}

// StartCommand runs body through shell in a new process group with stdin
// on the null device and stdout and stderr merged into the job output.
// No redirection or pipe splitting is applied.
func StartCommand(shell, body string) (*Job, error) {
	job := &Job{Command: body}
	if err := startSingle(job, shell, command.Redirects{Body: body}); err != nil {
		job.fail(err)
		return job, err
	}
	return job, nil
}

// startLine starts cmdline as a pipeline when it contains an unescaped
// pipe, or as a single command with its first input and output
// redirections applied otherwise.
func startLine(job *Job, shell, cmdline string) error {
	if command.HasPipe(cmdline) {
		return startPipeline(job, shell, command.SplitPipeline(cmdline))
	}
	red, err := command.ParseRedirects(cmdline)
	if err != nil {
		return err
	}
	return startSingle(job, shell, red)
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		path = os.DevNull
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	return f, nil
}

func startSingle(job *Job, shell string, red command.Redirects) error {
	stdin, err := openInput(red.Input)
	if err != nil {
		return err
	}
	defer stdin.Close()

	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create output pipe: %w", err)
	}
	defer w.Close()

	stdout := w
	if red.Output != "" {
		f, err := os.OpenFile(red.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			r.Close()
			return fmt.Errorf("open output %s: %w", red.Output, err)
		}
		defer f.Close()
		stdout = f
	}

	cmd := shellCommand(shell, red.Body, 0)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = w
	if err := cmd.Start(); err != nil {
		r.Close()
		return fmt.Errorf("start %q: %w", red.Body, err)
	}

	job.addStage(cmd)
	job.out = NewPipeReader(r)
	return nil
}

// startPipeline starts every stage in the group of the first one, wiring
// each stdout to the next stdin. Stderr of every stage and stdout of the
// last go to the job output. The parent keeps no pipe ends open.
func startPipeline(job *Job, shell string, stages []string) error {
	if len(stages) == 0 {
		return ErrNoStages
	}

	stdin, err := os.Open(os.DevNull)
	if err != nil {
		return fmt.Errorf("open input %s: %w", os.DevNull, err)
	}
	r, w, err := os.Pipe()
	if err != nil {
		stdin.Close()
		return fmt.Errorf("create output pipe: %w", err)
	}
	defer w.Close()

	prev := stdin
	for i, body := range stages {
		cmd := shellCommand(shell, body, job.Pgid)
		cmd.Stdin = prev
		cmd.Stderr = w

		var next, pw *os.File
		if i == len(stages)-1 {
			cmd.Stdout = w
		} else {
			next, pw, err = os.Pipe()
			if err != nil {
				prev.Close()
				job.abort(r)
				return fmt.Errorf("create pipe for stage %d: %w", i+1, err)
			}
			cmd.Stdout = pw
		}

		startErr := cmd.Start()
		prev.Close()
		if pw != nil {
			pw.Close()
		}
		if startErr != nil {
			if next != nil {
				next.Close()
			}
			job.abort(r)
			return fmt.Errorf("start stage %d %q: %w", i+1, body, startErr)
		}
		job.addStage(cmd)
		prev = next
	}

	job.out = NewPipeReader(r)
	return nil
}

// abort terminates and reaps the stages started so far.
func (j *Job) abort(r *os.File) {
	r.Close()
	if len(j.stages) == 0 {
		return
	}
	_ = j.Signal(unix.SIGKILL)
	_ = j.Wait()
}
