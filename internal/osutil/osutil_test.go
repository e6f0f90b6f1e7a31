package osutil

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNormalizeFilePathHomeDir(t *testing.T) {
	t.Parallel()

	usr, err := user.Current()
	if err != nil {
		t.Fatalf("user.Current() error = %v", err)
	}

	fp, err := NormalizeFilePath(filepath.Join("~", ".config", "secretsweeper"))
	if err != nil {
		t.Fatalf("NormalizeFilePath() error = %v", err)
	}
	want := filepath.Join(usr.HomeDir, ".config", "secretsweeper")
	if fp != want {
		t.Errorf("NormalizeFilePath() = %q, want %q", fp, want)
	}
	if !filepath.IsAbs(fp) {
		t.Errorf("NormalizeFilePath() = %q, want an absolute path", fp)
	}
}

func TestNormalizeFilePathRelative(t *testing.T) {
	t.Parallel()

	workingDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd() error = %v", err)
	}

	fp, err := NormalizeFilePath(filepath.Join(".", "patterns.txt"))
	if err != nil {
		t.Fatalf("NormalizeFilePath() error = %v", err)
	}
	want := filepath.Join(workingDir, "patterns.txt")
	if fp != want {
		t.Errorf("NormalizeFilePath() = %q, want %q", fp, want)
	}
}

func TestNormalizeFilePathEmpty(t *testing.T) {
	t.Parallel()

	fp, err := NormalizeFilePath("")
	if err != nil {
		t.Fatalf("NormalizeFilePath(\"\") error = %v", err)
	}
	if fp != "" {
		t.Errorf("NormalizeFilePath(\"\") = %q, want empty", fp)
	}
}

func TestExpandHomeLeavesOtherPathsAlone(t *testing.T) {
	t.Parallel()

	got, err := ExpandHome("/etc/patterns.txt")
	if err != nil {
		t.Fatalf("ExpandHome() error = %v", err)
	}
	if got != "/etc/patterns.txt" {
		t.Errorf("ExpandHome() = %q, want unchanged", got)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	if !FileExists(".") {
		t.Error("FileExists(\".\") = false, want true")
	}
	if FileExists("/no/such/path/surely") {
		t.Error("FileExists(nonexistent) = true, want false")
	}
}

func TestUserHomeDir(t *testing.T) {
	// Not parallel: mutates process environment.
	origHome := os.Getenv("HOME")
	origUserProfile := os.Getenv("USERPROFILE")
	t.Cleanup(func() {
		os.Setenv("HOME", origHome)
		os.Setenv("USERPROFILE", origUserProfile)
	})

	type testCase struct {
		home, userProfile, want string
	}

	tests := []testCase{
		{home: "home", userProfile: "userProfile", want: "home"},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, testCase{home: "", userProfile: "userProfile", want: "userProfile"})
	}

	for _, test := range tests {
		os.Setenv("HOME", test.home)
		os.Setenv("USERPROFILE", test.userProfile)
		got, err := UserHomeDir()
		if err != nil {
			t.Errorf("HOME=%q USERPROFILE=%q UserHomeDir() error = %v", test.home, test.userProfile, err)
		}
		if got != test.want {
			t.Errorf("HOME=%q USERPROFILE=%q UserHomeDir() = %q, want %q", test.home, test.userProfile, got, test.want)
		}
	}
}
