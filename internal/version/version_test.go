package version

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestHelperProcess stands in for git when execCommand is faked.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 4 || args[1] != "git" || args[2] != "describe" {
		os.Exit(2)
	}

	switch args[3] {
	case "--always":
		if os.Getenv("HELPER_COMMIT") == "" {
			os.Exit(1)
		}
		fmt.Print(os.Getenv("HELPER_COMMIT"))
	case "--tags":
		if os.Getenv("HELPER_TAG_FAIL") == "1" {
			os.Exit(1)
		}
		fmt.Print(os.Getenv("HELPER_TAG"))
	}
}

// fakeGit routes git invocations to TestHelperProcess with env controlling
// what it prints.
func fakeGit(env ...string) func(context.Context, string, ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append([]string{"GO_WANT_HELPER_PROCESS=1"}, env...)
		return cmd
	}
}

func TestResolveFromGit(t *testing.T) {
	orig := execCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})

	tests := []struct {
		name       string
		env        []string
		wantVer    string
		wantCommit string
	}{
		{
			name:       "tagged checkout",
			env:        []string{"HELPER_COMMIT=abc1234", "HELPER_TAG=v1.0.0"},
			wantVer:    "v1.0.0",
			wantCommit: "abc1234",
		},
		{
			name:       "no commit",
			env:        []string{"HELPER_TAG=v1.0.0"},
			wantVer:    "v1.0.0",
			wantCommit: "unknown",
		},
		{
			name:       "no tags",
			env:        []string{"HELPER_COMMIT=abc1234", "HELPER_TAG_FAIL=1"},
			wantVer:    "dev",
			wantCommit: "abc1234",
		},
		{
			name:       "empty tag output",
			env:        []string{"HELPER_COMMIT=abc1234-dirty"},
			wantVer:    "dev",
			wantCommit: "abc1234-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			execCommand = fakeGit(tt.env...)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, "growth-dashboard-tui "+tt.wantVer) || !strings.Contains(info, tt.wantCommit) {
				t.Errorf("Info() = %q", info)
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	orig := execCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})

	Reset()
	execCommand = fakeGit("HELPER_COMMIT=fromgit", "HELPER_TAG=v9.9.9")
	Version, Commit, Date = "v2.0.0", "release", "2026-01-01"

	if GetVersion() != "v2.0.0" || GetCommit() != "release" || GetDate() != "2026-01-01" {
		t.Errorf("build values overwritten: %s", Info())
	}
}

func TestGetDate(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	if GetDate() == "" {
		t.Error("GetDate() returned empty string")
	}
}
