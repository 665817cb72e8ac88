package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/chart2video/internal/config"
	"github.com/ivlev/chart2video/internal/engine"
	"github.com/ivlev/chart2video/internal/preview"
	"github.com/ivlev/chart2video/internal/script"
	"github.com/ivlev/chart2video/internal/showcase"
	"github.com/ivlev/chart2video/internal/system"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

const (
	scriptDir = "input/scripts"
	outputDir = "output"
)

var (
	configFile string
	outputPath string
	planPath   string
	fps        int
	width      int
	height     int
	workers    int
	encoder    string
	quality    int
	showStats  bool
	exportPath string

	snapshotsOnly bool
)

func main() {
	system.InitResourceLimits()

	for _, d := range []string{scriptDir, outputDir} {
		os.MkdirAll(d, 0755)
	}

	rootCmd := &cobra.Command{
		Use:           "chart2video",
		Short:         "render animated chart scripts to video",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "base config file (yaml)")

	renderCmd := &cobra.Command{
		Use:   "render [script]",
		Short: "render a script to mp4, a png sequence or a snapshot stream",
		Long:  "Render a script. Without an argument the newest script in " + scriptDir + " is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path; .mp4 encodes, .yaml dumps frames, anything else is a png directory")
	renderCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (0 keeps the config value)")
	renderCmd.Flags().IntVar(&width, "width", 0, "frame width in pixels")
	renderCmd.Flags().IntVar(&height, "height", 0, "frame height in pixels")
	renderCmd.Flags().IntVar(&workers, "workers", -1, "render workers (0 sizes by host memory)")
	renderCmd.Flags().StringVar(&encoder, "encoder", "", "h264 encoder (default: best available)")
	renderCmd.Flags().IntVar(&quality, "quality", 0, "x264/nvenc: CRF, videotoolbox: bitrate in 100 kbit/s (0 = auto)")
	renderCmd.Flags().BoolVar(&showStats, "stats", false, "print a performance report")
	renderCmd.Flags().StringVar(&planPath, "plan", "", "write the beat schedule to this yaml file")

	snapshotsCmd := &cobra.Command{
		Use:   "snapshots [script]",
		Short: "write the frame snapshot stream as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshotsOnly = true
			return runRender(cmd, args)
		},
	}
	snapshotsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "snapshot file (.yaml)")
	snapshotsCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (0 keeps the config value)")

	previewCmd := &cobra.Command{
		Use:   "preview [script]",
		Short: "plot the script's data and beat schedule in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPreview,
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "render the built-in fraud detection walkthrough",
		RunE:  runDemo,
	}
	demoCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: output/fraud_detection_<time>.mp4)")
	demoCmd.Flags().StringVar(&exportPath, "export", "", "write the demo script as yaml instead of rendering")
	demoCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (0 keeps the config value)")
	demoCmd.Flags().IntVar(&workers, "workers", -1, "render workers (0 sizes by host memory)")
	demoCmd.Flags().BoolVar(&showStats, "stats", false, "print a performance report")

	rootCmd.AddCommand(renderCmd, snapshotsCmd, previewCmd, demoCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("[-] %v", err)
	}
}

// baseConfig loads --config over the defaults and applies flag overrides.
func baseConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.BuildVersion = version
	if fps > 0 {
		cfg.FPS = fps
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if workers >= 0 {
		cfg.Workers = workers
	}
	if encoder != "" {
		cfg.VideoEncoder = encoder
	}
	if quality > 0 {
		cfg.Quality = quality
	}
	if showStats {
		cfg.ShowStats = true
	}
	return cfg, cfg.Validate()
}

func scriptPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	latest, err := system.FindLatestScript(scriptDir)
	if err != nil {
		return "", fmt.Errorf("%w; put a script in %s/", err, scriptDir)
	}
	fmt.Printf("[*] Selected script: %s\n", latest)
	return latest, nil
}

// defaultOutput names the output after name and the current time.
func defaultOutput(name string) string {
	base := filepath.Base(name)
	clean := strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.mp4", clean, timestamp))
}

func runRender(cmd *cobra.Command, args []string) error {
	path, err := scriptPath(args)
	if err != nil {
		return err
	}
	s, err := script.Read(path)
	if err != nil {
		return err
	}
	cfg, err := baseConfig()
	if err != nil {
		return err
	}
	return render(cmd.Context(), cfg, s, path, filepath.Dir(path))
}

func render(ctx context.Context, cfg *config.Config, s *script.Script, name, baseDir string) error {
	cfg.OutputPath = outputPath
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutput(name)
	}
	if snapshotsOnly {
		if outputPath == "" {
			cfg.OutputPath = strings.TrimSuffix(cfg.OutputPath, ".mp4") + ".yaml"
		}
		if engine.FormatFor(cfg.OutputPath) != engine.FormatSnapshots {
			return fmt.Errorf("snapshot output must be .yaml or .yml: %s", cfg.OutputPath)
		}
	}

	project := engine.NewProject(cfg, s)
	project.BaseDir = baseDir
	project.PlanPath = planPath
	if err := project.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("[+++] Success! Output: %s\n", cfg.OutputPath)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	path, err := scriptPath(args)
	if err != nil {
		return err
	}
	s, err := script.Read(path)
	if err != nil {
		return err
	}
	cfg, err := baseConfig()
	if err != nil {
		return err
	}
	st, err := engine.DryRun(cmd.Context(), cfg, s, filepath.Dir(path))
	if st == nil {
		return err
	}
	if perr := preview.Write(os.Stdout, st.Series, st.Director.Plan(), preview.DefaultOptions()); perr != nil {
		return perr
	}
	return err
}

func runDemo(cmd *cobra.Command, args []string) error {
	s := showcase.FraudDetection()
	if exportPath != "" {
		if err := script.Write(s, exportPath); err != nil {
			return err
		}
		fmt.Printf("[+++] Script written: %s\n", exportPath)
		return nil
	}
	cfg, err := baseConfig()
	if err != nil {
		return err
	}
	return render(cmd.Context(), cfg, s, "fraud_detection", "")
}
