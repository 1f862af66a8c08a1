package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/utilstudy/core/commits"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/spf13/cobra"
)

// commitsCmd selects one commit per month of a repository history.
var commitsCmd = &cobra.Command{
	Use:   "commits <repo-path>",
	Short: "Select one commit per month of development as snapshot points.",
	Long: `Walk the history of a repository in 30-day steps and pick the earliest commit
inside a one-day window after every step.

The first commit of the local clone anchors the walk. With --owner and --repo the
windows are listed through the GitHub API; without them the local history is used.
The walk stops at the first failed listing and keeps what it found.

Output is a headerless "date,sha" CSV, newest first, read by "complexity run".

Examples:
  # Use the GitHub API (token from UTILSTUDY_GITHUB_TOKEN)
  utilstudy commits ./linux --owner torvalds --repo linux --out linux_commits.csv

  # Read the token from a file
  utilstudy commits ./httpd --owner apache --repo httpd --token-file ~/.gh_token

  # Offline, from the local clone
  utilstudy commits ./systemd --out systemd_commits.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := runCommits(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot select commits", err)
		}
	},
}

func runCommits(ctx context.Context, cfg *contract.Config, repoPath string) error {
	first, err := commits.FirstCommit(repoPath)
	if err != nil {
		return err
	}

	var lister commits.CommitLister
	if cfg.Owner != "" || cfg.Repo != "" {
		lister, err = commits.NewGitHubLister(ctx, cfg.GitHubToken, cfg.Owner, cfg.Repo, cfg.GitHubBaseURL)
	} else {
		lister, err = commits.NewLocalLister(repoPath)
	}
	if err != nil {
		return err
	}

	sel, err := commits.NewSelector(lister).Select(ctx, first)
	if sel.StopStatus != 0 {
		fmt.Fprintf(os.Stderr, "⚠️  Listing stopped with status %d, keeping %d commits\n", sel.StopStatus, len(sel.Records))
	}
	if err != nil && sel.StopStatus == 0 {
		return err
	}

	if err := commits.WriteCommitCSV(cfg.OutPath, sel.Records); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.OutPath, err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d commits to %s\n", len(sel.Records), cfg.OutPath)
	return nil
}
