// Package fcst orchestrates a single forecast-model execution step: it
// prepares the run environment, delegates to the external model driver,
// verifies the driver's completion marker, publishes output artifacts, and
// writes this step's own completion marker.
package fcst

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/archive"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/config"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/driver"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/journal"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/publish"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/pkg/api"
)

const (
	// taskCompleteMarker signals this orchestration step's completion. It is
	// distinct from the driver's own done marker and written only after every
	// preceding step has succeeded.
	taskCompleteMarker = "run_fcst_task_complete.txt"
	// outputGlob selects the artifacts published after a successful run.
	outputGlob = "*.nc"
	// workflowSection and fixLamKey locate the shared output directory in the
	// experiment config.
	workflowSection = "workflow"
	fixLamKey       = "FIXlam"
)

// DriverExecutionError reports a driver run that finished without leaving its
// completion marker behind.
type DriverExecutionError struct {
	Model  string
	RunDir string
}

func (e *DriverExecutionError) Error() string {
	return fmt.Sprintf("error occurred running %s, please see component error logs in %s", e.Model, e.RunDir)
}

// Options carries optional controller collaborators.
type Options struct {
	// Journal records run history when non-nil.
	Journal *journal.Journal
	// DryRun stops after config resolution and rundir discovery: the driver
	// is not invoked and nothing is written.
	DryRun bool
}

// Controller drives the run-orchestration state machine. One controller
// serves one run context; it is not reused.
type Controller struct {
	rc      RunContext
	model   string
	drivers *driver.Registry
	opts    Options
	state   State
}

func NewController(rc RunContext, drivers *driver.Registry, opts Options) *Controller {
	return &Controller{rc: rc, model: "fv3", drivers: drivers, opts: opts, state: StateInit}
}

// State returns the controller's current position in the run sequence.
func (c *Controller) State() State { return c.state }

func (c *Controller) transition(s State) {
	c.state = s
	log.Debug().Str("state", string(s)).Msg("Run controller state")
}

// Run executes the full orchestration sequence. Every failure is fatal and
// returned to the caller; nothing here retries or exits the process.
func (c *Controller) Run(ctx context.Context) error {
	var journalID string
	if c.opts.Journal != nil && !c.opts.DryRun {
		id, err := c.opts.Journal.Begin(ctx, c.model, c.rc.Cycle, c.rc.Member, c.rc.KeyPath)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		journalID = id
	}
	err := c.run(ctx, journalID)
	if journalID != "" {
		status, reason := api.RunSucceeded, ""
		if err != nil {
			status, reason = api.RunFailed, err.Error()
		}
		// The journal must never mask the run outcome.
		if jerr := c.opts.Journal.Finish(ctx, journalID, status, reason); jerr != nil {
			log.Warn().Err(jerr).Msg("Failed to finalize journal record")
		}
	}
	if err != nil {
		c.transition(StateFailed)
	}
	return err
}

func (c *Controller) run(ctx context.Context, journalID string) error {
	tree, err := config.Load(c.rc.ConfigFile)
	if err != nil {
		return err
	}

	// The experiment config carries expressions that dereference the member
	// variable during driver initialization, so it must be in the process
	// environment before the driver is constructed.
	if err := os.Setenv(driver.MemberEnvVar, c.rc.Member); err != nil {
		return fmt.Errorf("set member variable: %w", err)
	}
	c.transition(StateEnvPrepared)

	block, err := config.Resolve(tree, c.rc.KeyPath)
	if err != nil {
		return err
	}
	drv, err := c.drivers.New(c.model, driver.Spec{
		ConfigFile: c.rc.ConfigFile,
		Cycle:      c.rc.Cycle,
		KeyPath:    c.rc.KeyPath,
		Member:     c.rc.Member,
		Block:      block,
	})
	if err != nil {
		return err
	}
	rundir := drv.RunDir()
	log.Info().Str("rundir", rundir).Str("model", c.model).Msg("Will run model driver")

	if c.opts.DryRun {
		return c.dryRun(tree, rundir)
	}
	if journalID != "" {
		if err := c.opts.Journal.SetRunDir(ctx, journalID, rundir); err != nil {
			log.Warn().Err(err).Msg("Failed to record run directory")
		}
	}

	if err := drv.Run(ctx); err != nil {
		return err
	}
	c.transition(StateDriverInvoked)

	doneMarker := filepath.Join(rundir, fmt.Sprintf("runscript.%s.done", drv.Name()))
	if _, err := os.Stat(doneMarker); err != nil {
		execErr := &DriverExecutionError{Model: drv.Name(), RunDir: rundir}
		log.Error().Str("marker", doneMarker).Msg(execErr.Error())
		return execErr
	}
	c.transition(StateCompletionVerified)

	workflow, err := config.Resolve(tree, []string{workflowSection})
	if err != nil {
		return err
	}
	destDir, err := workflow.GetString(fixLamKey)
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(rundir, outputGlob))
	if err != nil {
		return fmt.Errorf("enumerate outputs: %w", err)
	}
	if err := publish.Publish(destDir, files); err != nil {
		return err
	}
	if acfg, enabled, err := archive.FromTree(workflow); err != nil {
		return err
	} else if enabled {
		if err := archive.Deliver(ctx, acfg, files); err != nil {
			return err
		}
	}
	c.transition(StateOutputsPublished)

	if err := os.WriteFile(filepath.Join(rundir, taskCompleteMarker), nil, 0o644); err != nil {
		return fmt.Errorf("write completion marker: %w", err)
	}
	c.transition(StateDone)
	return nil
}

// dryRun validates the parts of the run that have no side effects and logs
// the plan the real run would execute.
func (c *Controller) dryRun(tree config.Tree, rundir string) error {
	workflow, err := config.Resolve(tree, []string{workflowSection})
	if err != nil {
		return err
	}
	destDir, err := workflow.GetString(fixLamKey)
	if err != nil {
		return err
	}
	log.Info().
		Str("rundir", rundir).
		Str("dest_dir", destDir).
		Str("pattern", outputGlob).
		Msg("Dry run: driver not invoked, no files written")
	return nil
}
