package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/waymark/pkg/buildinfo"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{
		"list", "show", "create", "comment", "like", "profile",
		"login", "logout", "whoami", "browse", "serve", "cache", "completion",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"config", "store", "no-cache"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
}

func TestCompletionScripts(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var b strings.Builder
		if err := genCompletion(root, shell, &b); err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(b.String(), appName) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
}
