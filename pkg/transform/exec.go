/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fulmenhq/assetpipe/pkg/logger"
)

// DefaultTimeout bounds a single external tool invocation.
const DefaultTimeout = 2 * time.Minute

// Exec pipes asset content through an external executable: content on
// stdin, filtered content read from stdout.
type Exec struct {
	// Binary is the resolved path of the executable
	Binary string
	// Args passed after the binary
	Args []string
	// Env contains additional environment variables
	Env map[string]string
	// Timeout for one invocation (DefaultTimeout when zero)
	Timeout time.Duration
}

// ExecError reports a tool that ran but exited unsuccessfully.
type ExecError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Binary, e.ExitCode, msg)
}

// Transform runs the executable in the asset's directory.
func (e *Exec) Transform(input []byte, src Source) ([]byte, error) {
	if e.Binary == "" {
		return nil, errors.New("exec transformer has no binary")
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// #nosec G204 - binary comes from configuration or the executable finder
	cmd := exec.CommandContext(ctx, e.Binary, e.Args...)
	if dir := src.Dir(); dir != "" && !isURL(src.Locator) {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			cmd.Dir = dir
		}
	}

	cmd.Env = os.Environ()
	for k, v := range e.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running external filter", logger.String("binary", e.Binary), logger.String("asset", src.Identity))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExecError{Binary: e.Binary, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("failed to execute %s: %w", e.Binary, err)
	}

	return stdout.Bytes(), nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}
