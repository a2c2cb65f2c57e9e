package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/navigator"
)

// Desktop hands trash and reveal requests to the platform's own tools and
// launches user commands.
type Desktop struct {
	goos   string
	logger *zap.Logger
	// run executes a command to completion, start launches it in the background.
	run   func(name string, args ...string) error
	start func(cmd *exec.Cmd) error
}

// NewDesktop creates a Desktop for the running platform.
func NewDesktop(logger *zap.Logger) *Desktop {
	return &Desktop{
		goos:   runtime.GOOS,
		logger: logger.Named("desktop"),
		run:    runCommand,
		start:  startCommand,
	}
}

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func startCommand(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Args[0], err)
	}
	go cmd.Wait()
	return nil
}

// MoveToTrash moves a plain file to the platform trash.
func (d *Desktop) MoveToTrash(p navigator.ImagePath) error {
	if p.InArchive() {
		return fmt.Errorf("cannot trash archive entry %s", p.Path)
	}
	argv, err := trashCommand(d.goos, p.Path)
	if err != nil {
		return err
	}
	d.logger.Debug("trash", zap.Strings("argv", argv))
	return d.run(argv[0], argv[1:]...)
}

// Reveal opens the file manager at p. Archive entries reveal their archive.
func (d *Desktop) Reveal(p navigator.ImagePath) error {
	target := p.Path
	if p.InArchive() {
		target = p.ArchivePath
	}
	argv, err := revealCommand(d.goos, target)
	if err != nil {
		return err
	}
	d.logger.Debug("reveal", zap.Strings("argv", argv))
	return d.start(exec.Command(argv[0], argv[1:]...))
}

// Launch starts program in the background. env is added to the inherited
// environment.
func (d *Desktop) Launch(program string, args []string, env map[string]string) error {
	cmd := exec.Command(program, args...)
	if len(env) > 0 {
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Env = os.Environ()
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+env[k])
		}
	}
	d.logger.Debug("launch", zap.Strings("argv", cmd.Args))
	return d.start(cmd)
}

func trashCommand(goos, path string) ([]string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"gio", "trash", path}, nil
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
		return []string{"osascript", "-e", script}, nil
	case "windows":
		script := fmt.Sprintf(
			"Add-Type -AssemblyName Microsoft.VisualBasic; "+
				"[Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile('%s', 'OnlyErrorDialogs', 'SendToRecycleBin')",
			strings.ReplaceAll(path, "'", "''"))
		return []string{"powershell", "-NoProfile", "-Command", script}, nil
	}
	return nil, fmt.Errorf("trash is not supported on %s", goos)
}

func revealCommand(goos, path string) ([]string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open", filepath.Dir(path)}, nil
	case "darwin":
		return []string{"open", "-R", path}, nil
	case "windows":
		return []string{"explorer", "/select," + path}, nil
	}
	return nil, fmt.Errorf("reveal is not supported on %s", goos)
}
