// Package pyexec runs the document-processing Python scripts as child
// processes. Input and output are exchanged through temporary JSON files
// so that large payloads (base64 file content, extracted text) never hit
// argv limits.
package pyexec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrScriptNotFound is returned when the requested script does not exist
// in the configured scripts directory.
var ErrScriptNotFound = errors.New("script not found")

// ScriptError reports a script that ran but exited non-zero. Stdout holds
// the one-line JSON status the scripts print before exiting, which callers
// surface to clients for debugging.
type ScriptError struct {
	Script   string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s exited with code %d", e.Script, e.ExitCode)
}

// Runner executes a named script with a JSON-serializable input and decodes
// the script's JSON result into output.
type Runner interface {
	Run(ctx context.Context, script string, input, output interface{}) error
}

// Exec is the production Runner. It invokes
//
//	<python> <scriptsDir>/<script> <inputFile> <outputFile>
//
// where both files are temporary JSON files removed after the call.
type Exec struct {
	PythonBin  string
	ScriptsDir string
	Timeout    time.Duration
	Logger     zerolog.Logger
}

// NewExec creates a Runner backed by a real Python interpreter.
func NewExec(pythonBin, scriptsDir string, timeout time.Duration, logger zerolog.Logger) *Exec {
	return &Exec{
		PythonBin:  pythonBin,
		ScriptsDir: scriptsDir,
		Timeout:    timeout,
		Logger:     logger,
	}
}

func (e *Exec) Run(ctx context.Context, script string, input, output interface{}) error {
	scriptPath := filepath.Join(e.ScriptsDir, script)
	if _, err := os.Stat(scriptPath); err != nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, scriptPath)
	}

	inFile, err := writeTempJSON(script, input)
	if err != nil {
		return fmt.Errorf("writing input file: %w", err)
	}
	defer os.Remove(inFile)

	outFile, err := tempOutputPath(script)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(outFile)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.PythonBin, scriptPath, inFile, outFile)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	e.Logger.Debug().
		Str("script", script).
		Dur("elapsed", elapsed).
		Bool("success", runErr == nil).
		Msg("script executed")

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("script %s timed out after %s: %w", script, elapsed.Round(time.Millisecond), ctx.Err())
	}
	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &ScriptError{
			Script:   script,
			ExitCode: exitCode,
			Stdout:   strings.TrimSpace(stdout.String()),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}

	if output == nil {
		return nil
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		return fmt.Errorf("reading script output: %w", err)
	}
	if err := json.Unmarshal(data, output); err != nil {
		return fmt.Errorf("decoding script output: %w", err)
	}
	return nil
}

// writeTempJSON marshals v into a new temporary file and returns its path.
func writeTempJSON(script string, v interface{}) (string, error) {
	f, err := os.CreateTemp("", sanitizeBase(script)+"-in-*.json")
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// tempOutputPath reserves a temporary file for the script to write into.
func tempOutputPath(script string) (string, error) {
	f, err := os.CreateTemp("", sanitizeBase(script)+"-out-*.json")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func sanitizeBase(script string) string {
	base := filepath.Base(script)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
