package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestPersistentFlags(t *testing.T) {
	want := []string{"config", "debug", "json", "state", "vault", "vault-path"}

	var got []string
	rootCmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		got = append(got, flag.Name)
	})
	slices.Sort(got)

	if !slices.Equal(got, want) {
		t.Errorf("persistent flags = %v, want %v", got, want)
	}

	if flag := rootCmd.PersistentFlags().Lookup("vault"); flag == nil || flag.Shorthand != "v" {
		t.Error("--vault must keep its -v shorthand")
	}
}

func TestCommandTree(t *testing.T) {
	want := []string{"edit", "init", "new", "path", "pull", "push", "show", "status", "sync", "vault", "version"}

	var got []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || cmd.Name() == "completion" || cmd.Name() == "help" {
			continue
		}
		got = append(got, cmd.Name())
	}
	slices.Sort(got)

	if !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestEveryCommandHasShortHelp(t *testing.T) {
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		if cmd.Name() != "help" && cmd.Name() != "completion" && cmd.Short == "" {
			t.Errorf("command %q has no short description", cmd.CommandPath())
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}
