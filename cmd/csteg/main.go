package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jakergrossman/csteg/pkg/imgio"
	"github.com/jakergrossman/csteg/pkg/logging"
	"github.com/jakergrossman/csteg/pkg/steg"
)

const version = "1.0.0"

var (
	imgPath     string
	dataPath    string
	outPath     string
	outDir      string
	forceWrite  bool
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func newLogger() hclog.Logger {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("csteg", level, nil)
	imgio.SetLogger(logger.Named("imgio"))
	return logger
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "csteg",
		Short: "Hide files in the low bits of PNG and BMP images",
		Long: `csteg conceals an arbitrary file inside the two least-significant
bits of an image's color channels, and recovers it exactly.`,
		Run: func(cmd *cobra.Command, args []string) {
			if versionFlag {
				fmt.Fprintf(cmd.OutOrStdout(), "csteg %s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", getBuildTimestamp())
				return
			}
			_ = cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	writeCmd := &cobra.Command{
		Use:   "write",
		Short: "Embed a data file into an image",
		Run:   runWrite,
	}
	writeCmd.Flags().StringVarP(&imgPath, "img", "i", "", "Path to the cover image (required)")
	writeCmd.Flags().StringVarP(&dataPath, "data", "d", "", "Path to the file to hide (required)")
	writeCmd.Flags().StringVarP(&outPath, "out", "o", "", "Path to write the output image (required)")
	for _, f := range []string{"img", "data", "out"} {
		if err := writeCmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}

	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Extract the embedded file from an image",
		Run:   runRead,
	}
	readCmd.Flags().StringVarP(&imgPath, "img", "i", "", "Path to the image to read (required)")
	readCmd.Flags().StringVarP(&outDir, "out-dir", "O", ".", "Directory to write the recovered file into")
	readCmd.Flags().BoolVarP(&forceWrite, "force", "f", false, "Overwrite an existing file without asking")
	if err := readCmd.MarkFlagRequired("img"); err != nil {
		panic(err)
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show image dimensions and embedding capacity",
		Run:   runInfo,
	}
	infoCmd.Flags().StringVarP(&imgPath, "img", "i", "", "Path to the image to inspect (required)")
	if err := infoCmd.MarkFlagRequired("img"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(writeCmd, readCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWrite(cmd *cobra.Command, args []string) {
	logger := newLogger()

	grid, format, err := imgio.DecodeFile(imgPath)
	if err != nil {
		fatal(err)
	}

	payload, err := os.ReadFile(dataPath)
	if err != nil {
		fatal(err)
	}

	// Embed the basename only, so extraction can never write outside the
	// chosen output directory.
	codec := steg.NewCodecWithLogger(logger.Named("steg"))
	if err := codec.Embed(grid, filepath.Base(dataPath), payload); err != nil {
		fatal(err)
	}

	if err := imgio.EncodeFile(outPath, grid, format); err != nil {
		fatal(err)
	}

	fmt.Printf("📦 Embedded %s (%d bytes) into %s\n", filepath.Base(dataPath), len(payload), outPath)
}

func runRead(cmd *cobra.Command, args []string) {
	logger := newLogger()

	grid, _, err := imgio.DecodeFile(imgPath)
	if err != nil {
		fatal(err)
	}

	codec := steg.NewCodecWithLogger(logger.Named("steg"))
	filename, payload, err := codec.Extract(grid)
	if err != nil {
		fatal(err)
	}

	// Old images may carry a full path in the signature; keep the basename.
	dest := filepath.Join(outDir, filepath.Base(filename))
	if !forceWrite {
		if _, err := os.Stat(dest); err == nil {
			if !confirmOverwrite(dest) {
				fmt.Fprintf(os.Stderr, "not overwriting %s\n", dest)
				os.Exit(1)
			}
		}
	}

	if err := os.WriteFile(dest, payload, 0o644); err != nil {
		fatal(err)
	}

	fmt.Printf("📂 Recovered %s (%d bytes)\n", dest, len(payload))
}

func runInfo(cmd *cobra.Command, args []string) {
	newLogger()

	grid, format, err := imgio.DecodeFile(imgPath)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Format:     %s\n", format)
	fmt.Printf("Dimensions: %dx%dpx\n", grid.Width, grid.Height)
	fmt.Printf("Channels:   %d\n", grid.Channels)
	fmt.Printf("Capacity:   %d bytes\n", grid.CapacityBytes())
}

// confirmOverwrite asks on the terminal before clobbering dest. The default
// answer is no, and a non-interactive stdin is always a no: scripts must opt
// in with --force.
func confirmOverwrite(dest string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "overwrite %s? [y/N]: ", dest)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
