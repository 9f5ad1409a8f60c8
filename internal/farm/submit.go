// Package farm submits render jobs to Deadline and records submission
// history.
//
// Submission shells out to deadlinecommand with a pair of generated info
// files per job. Jobs for one shot are chained: each submitted job becomes
// a dependency of the jobs after it, so renders complete in write-node
// order.
package farm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"multishot/internal/config"
	"multishot/internal/logging"
	"multishot/internal/shot"
)

const submitTimeout = 30 * time.Second

// Job describes one render job to submit.
type Job struct {
	Shot       shot.Ref
	Script     string
	WriteNode  string
	OutputDir  string
	FirstFrame int
	LastFrame  int
	ChunkSize  int
}

// Submitter shells out to Deadline and records each accepted job.
type Submitter struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *History

	// run executes deadlinecommand and returns its stdout. Overridable in
	// tests.
	run func(ctx context.Context, binary string, args ...string) (string, error)
}

// NewSubmitter constructs a Submitter. The history store may be nil, in
// which case submissions are not recorded. A nil logger discards log
// output.
func NewSubmitter(cfg *config.Config, history *History, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Submitter{
		cfg:     cfg,
		logger:  logger,
		history: history,
		run:     runCommand,
	}
}

// Submit sends the jobs to Deadline in order, chaining each job onto all
// previously accepted ones. It returns the accepted job identifiers. A job
// that fails to submit is logged and skipped; the error is non-nil only
// when no job could be submitted at all or the command cannot be located.
func (s *Submitter) Submit(ctx context.Context, jobs []Job) ([]string, error) {
	if len(jobs) == 0 {
		return nil, errors.New("no jobs to submit")
	}
	binary, err := s.deadlineCommand()
	if err != nil {
		return nil, err
	}

	env := JobEnv(s.cfg, nil)
	jobIDs := make([]string, 0, len(jobs))
	for _, job := range jobs {
		jobID, err := s.submitOne(ctx, binary, job, env, jobIDs)
		if err != nil {
			s.logger.Error("job submission failed",
				"write_node", job.WriteNode, "shot", string(job.Shot.ID()), "error", err)
			continue
		}
		jobIDs = append(jobIDs, jobID)
		s.logger.Info("submitted job",
			"job_id", jobID, "write_node", job.WriteNode, "shot", string(job.Shot.ID()))

		if s.history != nil {
			if err := s.history.Record(ctx, Submission{
				JobID:     jobID,
				Shot:      string(job.Shot.ID()),
				WriteNode: job.WriteNode,
				Script:    job.Script,
			}); err != nil {
				s.logger.Warn("could not record submission", "job_id", jobID, "error", err)
			}
		}
	}

	if len(jobIDs) == 0 {
		return nil, errors.New("all job submissions failed")
	}
	return jobIDs, nil
}

func (s *Submitter) submitOne(ctx context.Context, binary string, job Job, env map[string]string, dependencies []string) (string, error) {
	jobInfo, err := writeInfoFile("*.job", s.jobInfoLines(job, env, dependencies))
	if err != nil {
		return "", err
	}
	defer os.Remove(jobInfo)

	pluginInfo, err := writeInfoFile("*.plugin", pluginInfoLines(job))
	if err != nil {
		return "", err
	}
	defer os.Remove(pluginInfo)

	output, err := s.run(ctx, binary, jobInfo, pluginInfo)
	if err != nil {
		return "", err
	}
	jobID := parseJobID(output)
	if jobID == "" {
		return "", errors.New("no JobID in deadlinecommand output")
	}
	return jobID, nil
}

func (s *Submitter) jobInfoLines(job Job, env map[string]string, dependencies []string) []string {
	scriptName := strings.TrimSuffix(filepath.Base(job.Script), filepath.Ext(job.Script))
	chunk := job.ChunkSize
	if chunk <= 0 {
		chunk = 10
	}

	lines := []string{
		"Plugin=Nuke",
		fmt.Sprintf("Name=%s - %s", scriptName, job.WriteNode),
		fmt.Sprintf("BatchName=%s", job.Shot.ID()),
		"Department=comp",
		fmt.Sprintf("Pool=%s", s.cfg.Farm.Pool),
		fmt.Sprintf("Group=%s", s.cfg.Farm.Group),
		fmt.Sprintf("Priority=%d", s.cfg.Farm.Priority),
		fmt.Sprintf("Frames=%d-%d", job.FirstFrame, job.LastFrame),
		fmt.Sprintf("ChunkSize=%d", chunk),
	}
	if job.OutputDir != "" {
		lines = append(lines, fmt.Sprintf("OutputDirectory0=%s", job.OutputDir))
	}
	if len(dependencies) > 0 {
		lines = append(lines, fmt.Sprintf("JobDependencies=%s", strings.Join(dependencies, ",")))
	}
	lines = append(lines, envLines(env)...)
	return lines
}

func pluginInfoLines(job Job) []string {
	return []string{
		fmt.Sprintf("SceneFile=%s", job.Script),
		fmt.Sprintf("WriteNode=%s", job.WriteNode),
		"BatchMode=True",
		"BatchModeIsMovie=False",
		"ContinueOnError=False",
		"EnforceRenderOrder=False",
		"RenderMode=Use Scene Settings",
		"UseNodeRange=False",
		"Threads=0",
		"StackSize=0",
	}
}

// deadlineCommand locates the deadlinecommand executable from the
// configured path, falling back to the DEADLINE_PATH environment variable.
func (s *Submitter) deadlineCommand() (string, error) {
	dir := s.cfg.Farm.DeadlinePath
	if dir == "" {
		dir = os.Getenv("DEADLINE_PATH")
	}
	if dir == "" {
		return "", errors.New("deadline path not configured and DEADLINE_PATH unset")
	}

	binary := filepath.Join(dir, s.cfg.DeadlineBinary())
	if runtime.GOOS == "windows" {
		binary += ".exe"
	}
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("deadlinecommand not found: %w", err)
	}
	return binary, nil
}

func writeInfoFile(pattern string, lines []string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create info file: %w", err)
	}
	if _, err := file.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write info file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close info file: %w", err)
	}
	return file.Name(), nil
}

func parseJobID(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "JobID="); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func runCommand(ctx context.Context, binary string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("deadlinecommand: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("deadlinecommand: %w", err)
	}
	return string(output), nil
}
