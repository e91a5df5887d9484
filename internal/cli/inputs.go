package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgmirror/pkg/deps"
	"github.com/matzehuels/pkgmirror/pkg/deps/javascript"
	pkgerrors "github.com/matzehuels/pkgmirror/pkg/errors"
)

// inputFlags select where demand comes from.
type inputFlags struct {
	from        string
	skipInvalid bool
	output      string
}

func (f *inputFlags) register(cmd *cobra.Command, withFrom bool) {
	if withFrom {
		cmd.Flags().StringVar(&f.from, "from", "", "read a demand set (JSON) instead of scanning manifests")
	}
	cmd.Flags().BoolVar(&f.skipInvalid, "skip-invalid", false, "skip unreadable manifests instead of failing")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to a file instead of stdout")
}

// manifestPaths expands args into package.json paths. Directories are
// scanned recursively; with no args the working directory is scanned.
func manifestPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, pkgerrors.New(pkgerrors.ErrCodeFileNotFound, "no such file or directory: %s", arg)
			}
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidPath, err, "stat %s", arg)
		}
		if info.IsDir() {
			found, err := javascript.FindManifests(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}
		if !javascript.Supports(filepath.Base(arg)) {
			return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidManifest, "%s is not a %s file", arg, javascript.ManifestName)
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

// demand builds the demand set for a command from --from or from manifests.
func (c *CLI) demand(cmd *cobra.Command, args []string, f *inputFlags, s settings) (deps.DemandSet, error) {
	logger := loggerFromContext(cmd.Context())

	if f.from != "" {
		if len(args) > 0 {
			return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "--from cannot be combined with manifest paths")
		}
		return readDemand(f.from)
	}

	paths, err := manifestPaths(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logger.Warn("No manifests found")
	}
	logger.Debugf("Reading %d manifests", len(paths))

	return javascript.Demand(paths, javascript.DemandOptions{
		DepTypes:    s.depTypes,
		SkipInvalid: f.skipInvalid,
		Logger:      func(msg string, args ...any) { logger.Debugf(msg, args...) },
	})
}

// readDemand loads a demand set written by "pkgmirror demand". Local file
// references are dropped the same way manifest extraction drops them.
func readDemand(path string) (deps.DemandSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.New(pkgerrors.ErrCodeFileNotFound, "demand file not found: %s", path)
		}
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidPath, err, "read %s", path)
	}
	var d deps.DemandSet
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "parse demand file %s", path)
	}
	return deps.Merge(d), nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printFile(path)
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
