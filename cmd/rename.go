package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/utilstudy/core/rename"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
)

// progressStride is how many files pass between progress lines.
const progressStride = 500

// renameCmd groups the historical record and rename tracking steps.
var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Reconstruct the rename history of every file a repository has held",
	Long: `Build alias chains (current name first, then every former name) for the files
of a repository.

Subcommands:
  records - List every file ever touched, filtered by extension
  rename  - Track renames of a file list into a rename CSV
  both    - records followed by rename

Strategies:
  follow   - git log --follow per file (exact, slow)
  filtered - follow only files that appear in some rename
  map      - one rename log for the whole repository (fast)`,
}

// renameRecordsCmd writes the historical file list of a repository.
var renameRecordsCmd = &cobra.Command{
	Use:   "records <repo> <out> <extensions>",
	Short: "List every file ever committed with a listed extension",
	Long: `Walk the history from HEAD and write every path touched by a commit whose
extension is listed in <extensions> (one extension per line).

Chromium repositories skip third_party/. --skip-vendor drops vendored paths.

Examples:
  utilstudy rename records ./linux linux_files.txt extension_lists/linux.txt`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := writeRecords(cfg, args[0], args[1], args[2]); err != nil {
			contract.LogFatal("Cannot collect file records", err)
		}
	},
}

// renameRenameCmd tracks the renames of a file list.
var renameRenameCmd = &cobra.Command{
	Use:   "rename <repo> <out> <files>",
	Short: "Track renames of the files listed in <files>",
	Long: `Follow each file of <files> back through its renames and write one CSV row per
file: the current name, then every former name.

Files already seen as an alias of an earlier chain are skipped.

Examples:
  utilstudy rename rename ./linux rename_records/linux.csv linux_files.txt
  utilstudy rename rename ./httpd rename_records/httpd.csv httpd_files.txt --strategy filtered`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		files, err := contract.ReadLines(args[2])
		if err != nil {
			contract.LogFatal("Cannot read file list", err)
		}
		if err := trackRenames(rootCtx, cfg, args[0], args[1], files); err != nil {
			contract.LogFatal("Cannot track renames", err)
		}
	},
}

// renameBothCmd runs records and rename back to back.
var renameBothCmd = &cobra.Command{
	Use:   "both <repo> <out> <extensions> <intermediate>",
	Short: "Collect file records, then track their renames",
	Long: `Write the historical file list to <intermediate>, then track the renames of
those files into <out>.

Examples:
  utilstudy rename both ./struts rename_records/struts.csv extension_lists/struts.txt struts_files.txt`,
	Args:    cobra.ExactArgs(4),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := writeRecords(cfg, args[0], args[3], args[2]); err != nil {
			contract.LogFatal("Cannot collect file records", err)
		}
		files, err := contract.ReadLines(args[3])
		if err != nil {
			contract.LogFatal("Cannot read file list", err)
		}
		if err := trackRenames(rootCtx, cfg, args[0], args[1], files); err != nil {
			contract.LogFatal("Cannot track renames", err)
		}
	},
}

func writeRecords(cfg *contract.Config, repoPath, out, extensionsFile string) error {
	exts, err := rename.ReadExtensions(extensionsFile)
	if err != nil {
		return err
	}
	all, err := rename.CollectFiles(repoPath)
	if err != nil {
		return err
	}
	kept := rename.FilterByExtension(all, exts, rename.OptionsForRepo(repoPath, cfg.SkipVendor))
	if err := contract.WriteLines(out, kept); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %s of %s files to %s\n", humanize.Comma(int64(len(kept))), humanize.Comma(int64(len(all))), out)
	return nil
}

func trackRenames(ctx context.Context, cfg *contract.Config, repoPath, out string, files []string) error {
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = schema.MapStrategy
	}
	t := &rename.Tracker{
		Git:      contract.NewLocalGitClient(),
		RepoPath: repoPath,
		Progress: printProgress,
	}
	chains, err := t.Track(ctx, strategy, files)
	if err != nil {
		return err
	}
	if err := rename.WriteChains(out, chains); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %s alias chains to %s\n", humanize.Comma(int64(len(chains))), out)
	return nil
}

func printProgress(done, total int) {
	if done%progressStride != 0 && done != total {
		return
	}
	fmt.Fprintf(os.Stderr, "🔍 %s/%s files\n", humanize.Comma(int64(done)), humanize.Comma(int64(total)))
}
