package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [" + strings.Join(completionShells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate a shell completion script for %[1]s and write it to stdout.

  bash        source <(%[1]s completion bash)
  zsh         %[1]s completion zsh > "${fpath[1]}/_%[1]s"
  fish        %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish
  powershell  %[1]s completion powershell | Out-String | Invoke-Expression

Start a new shell for the setup to take effect.`, appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

