package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for waymark.

To load completions:

Bash:
  $ source <(waymark completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ waymark completion bash > /etc/bash_completion.d/waymark
  # macOS:
  $ waymark completion bash > $(brew --prefix)/etc/bash_completion.d/waymark

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ waymark completion zsh > "${fpath[1]}/_waymark"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ waymark completion fish | source

  # To load completions for each session, execute once:
  $ waymark completion fish > ~/.config/fish/completions/waymark.fish

PowerShell:
  PS> waymark completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> waymark completion powershell > waymark.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return genCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}

	return cmd
}

func genCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return nil
}

// completeRoadmapIDs offers the IDs of the seeded and stored roadmaps.
func (c *CLI) completeRoadmapIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.open(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.Close()

	views, err := a.svc.List(ctx, a.sess)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID+"\t"+v.Title)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
