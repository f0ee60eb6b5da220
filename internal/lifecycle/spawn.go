package lifecycle

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/config"
)

// spawnProcess launches the core agent binary with the args spec.md §4.E
// step 1 requires ("--socket <path> --log-level <level>") and masks its
// permissions per coreAgentPermissions. Grounded on the teacher's
// internal/agent/beyla.Manager.startBeyla, which builds an *exec.Cmd for a
// supervised external binary the same way.
func spawnProcess(binaryPath, socketPath string, logLevel config.LogLevel, permissions int, logger zerolog.Logger) (*exec.Cmd, error) {
	if permissions != 0 {
		if err := os.Chmod(binaryPath, os.FileMode(permissions)); err != nil {
			return nil, fmt.Errorf("lifecycle: chmod core agent binary: %w", err)
		}
	}

	cmd := exec.Command(binaryPath, "--socket", socketPath, "--log-level", logLevel.String())
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("lifecycle: start core agent process: %w", err)
	}

	logger.Info().Str("binary", binaryPath).Int("pid", cmd.Process.Pid).Msg("core agent process started")
	return cmd, nil
}

// stopProcess kills a spawned process and waits for it to exit, mirroring
// beyla.Manager.Stop's Process.Kill + Wait pair.
func stopProcess(cmd *exec.Cmd, logger zerolog.Logger) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if err := cmd.Process.Kill(); err != nil {
		logger.Warn().Err(err).Msg("failed to kill core agent process")
	}
	_ = cmd.Wait()
}
