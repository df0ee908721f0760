package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// MemberEnvVar is read by the driver's own variable-substitution pass while
// it renders its runtime configuration.
const MemberEnvVar = "MEMBER"

// FV3 runs the FV3 atmosphere model through the uwtools driver executable.
type FV3 struct {
	executable string
	configFile string
	cycle      time.Time
	keyPath    []string
	member     string
	rundir     string
}

// NewFV3 constructs the FV3 driver from a run spec. The spec's block must
// carry the run directory; the executable defaults to "uw" and may be
// overridden by an "executable" entry in the block.
func NewFV3(spec Spec) (Driver, error) {
	rundir, err := spec.Block.GetString("rundir")
	if err != nil {
		return nil, fmt.Errorf("driver config: %w", err)
	}
	executable := "uw"
	if exe, err := spec.Block.GetString("executable"); err == nil {
		executable = exe
	}
	return &FV3{
		executable: executable,
		configFile: spec.ConfigFile,
		cycle:      spec.Cycle,
		keyPath:    spec.KeyPath,
		member:     spec.Member,
		rundir:     rundir,
	}, nil
}

func (d *FV3) Name() string { return "fv3" }

func (d *FV3) RunDir() string { return d.rundir }

// Run invokes the external driver and waits for it to finish. Model output
// goes to the driver's own component logs; only the invocation itself is
// logged here.
func (d *FV3) Run(ctx context.Context) error {
	args := []string{
		"fv3", "run",
		"--config-file", d.configFile,
		"--cycle", d.cycle.Format("2006-01-02T15:04:05"),
		"--key-path", strings.Join(d.keyPath, "."),
	}
	cmd := exec.CommandContext(ctx, d.executable, args...)
	cmd.Env = append(os.Environ(), MemberEnvVar+"="+d.member)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Info().Str("executable", d.executable).Strs("args", args).Msg("Invoking FV3 driver")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run fv3 driver: %w", err)
	}
	return nil
}
