// Package osutil collects small filesystem helpers shared by the CLI and its
// configuration loader.
package osutil

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
)

// FileExists returns whether or not a file exists on the filesystem. Any
// error from os.Stat is treated as "doesn't exist" -- most errors (a
// permission problem, a bad mount) mean the file isn't usable either way.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// UserHomeDir is similar to os.UserHomeDir, but prefers $HOME when available
// over other options (such as USERPROFILE on Windows).
func UserHomeDir() (string, error) {
	if h := os.Getenv("HOME"); h != "" {
		return h, nil
	}
	return os.UserHomeDir()
}

// NormalizeFilePath returns a clean, absolute version of path. It expands
// environment variables, converts a leading "~/" into the user's home
// directory, and resolves "./" relative to the current working directory.
func NormalizeFilePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	path, err := ExpandHome(os.ExpandEnv(path))
	if err != nil {
		return "", err
	}

	return filepath.Abs(path)
}

// ExpandHome expands a leading "~" in path to the current user's home
// directory. A path not prefixed with "~" is returned unchanged.
// Via https://github.com/mitchellh/go-homedir/blob/master/homedir.go
func ExpandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return "", errors.New("cannot expand user-specific home dir")
	}

	usr, err := user.Current()
	if err != nil {
		return "", err
	}

	return filepath.Join(usr.HomeDir, path[1:]), nil
}
