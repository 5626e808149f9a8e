package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/openmined/droidsync/internal/backup"
	"github.com/openmined/droidsync/internal/localfs"
	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/openmined/droidsync/internal/remote"
	"github.com/openmined/droidsync/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const lockFileName = ".droidsync.lock"

var rootCmd = &cobra.Command{
	Use:     "droidsync [android_source_path] [destination_path]",
	Short:   "Verified backups from an Android device over adb",
	Long: "Backs up a directory (or a single file) from an Android device to the computer\n" +
		"over adb, verifying every transferred file against the device's size and SHA-1.\n" +
		"Re-running is always safe: each run re-lists both sides from scratch and only\n" +
		"pulls what is missing.",
	Version:       version.Detailed(),
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: runBackup,
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().BoolP("override", "o", false, "re-pull existing files too")
	rootCmd.Flags().BoolP("verify", "v", false, "verify the existing backup and stop")
	rootCmd.Flags().BoolP("auto", "a", false, "verify, delete faulty files and continue the backup")
	rootCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompts")
	rootCmd.Flags().String("adb-path", "", "path to the adb binary, if not in PATH")
}

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("DROIDSYNC")
	viper.AutomaticEnv()
	return viper.BindPFlag("adb_path", cmd.Flags().Lookup("adb-path"))
}

func runBackup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	sourcePath := args[0]
	destPath, err := pathutil.ResolvePath(args[1])
	if err != nil {
		return fatal(err)
	}

	override, _ := cmd.Flags().GetBool("override")
	verify, _ := cmd.Flags().GetBool("verify")
	auto, _ := cmd.Flags().GetBool("auto")
	yes, _ := cmd.Flags().GetBool("yes")

	lfs := localfs.NewOS()

	// preflight: everything here fails before any mutation
	adbPath := viper.GetString("adb_path")
	if adbPath != "" && !lfs.IsFile(adbPath) {
		return fatal(&backup.PreconditionError{Msg: "Bad ADB path."})
	}
	adb, err := remote.NewADB(adbPath)
	if err != nil {
		return fatal(&backup.PreconditionError{Msg: "Bad ADB path."})
	}
	if !lfs.IsDir(destPath) {
		return fatal(&backup.PreconditionError{Msg: "Bad destination path."})
	}
	connected, err := adb.Connected(cmd.Context())
	if err != nil {
		return fatal(err)
	}
	if !connected {
		return fatal(&backup.PreconditionError{Msg: "Phone not connected."})
	}

	// one run per destination tree at a time
	lock, err := lockDestination(destPath)
	if err != nil {
		return fatal(err)
	}
	defer lock.Unlock()

	engine := backup.NewEngine(adb, lfs, func(message string) bool {
		return askYesNo(os.Stdin, os.Stdout, message)
	})
	engine.OnPlan = printPlan
	engine.OnFaulty = printFaulty

	result, err := engine.Run(cmd.Context(), backup.Options{
		SourcePath: sourcePath,
		DestPath:   destPath,
		Override:   override,
		Verify:     verify,
		Auto:       auto,
		Yes:        yes,
	})
	if err != nil {
		if errors.Is(err, backup.ErrSourceNotFound) {
			return fatal(&backup.PreconditionError{Msg: "Source path on the device doesn't exist."})
		}
		return fatal(err)
	}

	if !result.VerifyOnly {
		printReport(result.Pull)
	}
	return nil
}

// fatal prints the error to stderr and hands it back to cobra so the
// process exits non-zero.
func fatal(err error) error {
	fmt.Fprintf(os.Stderr, "%s: %s\n", red.Render("ERROR"), err)
	return err
}
