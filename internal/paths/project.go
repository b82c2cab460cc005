// ABOUTME: Project tag detection from version-control context.
// ABOUTME: Shells out to git with input validation and a bounded timeout.
package paths

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ProjectDetector derives a project tag from a working path. Implementations
// never fail: anything ambiguous resolves to the default tag.
type ProjectDetector interface {
	DetectProject(workingPath string) string
}

// DefaultDetectTimeout bounds how long repository detection may take.
const DefaultDetectTimeout = 5 * time.Second

// validWorkingPath is the allow-list for paths handed to a subprocess.
// Anything outside it is rejected before git is ever invoked.
var validWorkingPath = regexp.MustCompile(`^[A-Za-z0-9._~/ -]+$`)

// GitDetector finds the enclosing repository root via git rev-parse.
type GitDetector struct {
	Timeout time.Duration
}

// NewGitDetector creates a detector with the default timeout.
func NewGitDetector() *GitDetector {
	return &GitDetector{Timeout: DefaultDetectTimeout}
}

// DetectProject returns the repository root directory name for workingPath,
// or "general" if the path is not inside a repository, fails validation, or
// detection errors out. It never returns an empty string.
func (d *GitDetector) DetectProject(workingPath string) string {
	if workingPath == "" {
		return "general"
	}
	if !validWorkingPath.MatchString(workingPath) {
		fmt.Fprintf(os.Stderr, "Warning: working path contains unexpected characters, using project %q\n", "general")
		return "general"
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultDetectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", "-C", workingPath, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		// Exit errors mean "not a repository" and are expected; anything
		// else (missing git, timeout) is worth a warning.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "Warning: project detection failed: %v\n", err)
		}
		return "general"
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return "general"
	}
	return filepath.Base(root)
}

// DirDetector is a pure-filesystem fallback for environments where spawning
// git is unavailable or undesirable: it walks up looking for a .git entry.
type DirDetector struct{}

// DetectProject walks from workingPath toward the filesystem root and
// returns the name of the first directory containing .git, or "general".
func (DirDetector) DetectProject(workingPath string) string {
	dir := workingPath
	for dir != "" {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return filepath.Base(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "general"
}
