package viewer

import (
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/navigator"
)

var errNoImage = errors.New("no image is shown")

// commandVars returns the values of ${img} and ${folder} for p. An archive
// entry has no file of its own, so it stands for its archive.
func commandVars(p navigator.ImagePath) (img, folder string) {
	img = p.Path
	if p.InArchive() {
		img = p.ArchivePath
	}
	return img, filepath.Dir(img)
}

// expandArgs substitutes ${img} and ${folder} in args.
func expandArgs(args []string, img, folder string) []string {
	r := strings.NewReplacer("${img}", img, "${folder}", folder)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}

// RunCommand launches a user command for the shown image.
func (v *Viewer) RunCommand(c config.Command) error {
	if !v.hasCurrent {
		return errNoImage
	}
	if v.desktop == nil {
		return nil
	}
	img, folder := commandVars(v.current)
	args := expandArgs(c.Args, img, folder)
	if err := v.desktop.Launch(c.Program, args, c.Envs); err != nil {
		v.logger.Warn("command failed", zap.String("program", c.Program), zap.Error(err))
		v.ShowMessage("Command failed: " + err.Error())
		return err
	}
	v.logger.Info("command started", zap.String("program", c.Program), zap.Strings("args", args))
	return nil
}
