package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Oaklight/asr-to-clipboard/audiocapture"
	"github.com/Oaklight/asr-to-clipboard/clipboard"
	"github.com/Oaklight/asr-to-clipboard/config"
	"github.com/Oaklight/asr-to-clipboard/internal/app"
	"github.com/Oaklight/asr-to-clipboard/stt"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "asr-to-clipboard",
	Short:         "Record speech, transcribe it and copy the text to the clipboard",
	Long:          `Records from the default microphone until Ctrl+C, sends the audio to a Whisper-compatible API and copies the transcript to the clipboard. Press Ctrl+C twice to exit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listDevices()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("asr-to-clipboard %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, then the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config file)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	setupLogging(slog.LevelInfo)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("asr-to-clipboard", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

func run(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	setupLogging(level)
	slog.Debug("starting", "version", version, "commit", commit, "date", date)

	capture, err := audiocapture.New(audiocapture.Config{
		SampleRate:      cfg.Audio.SampleRate,
		FramesPerBuffer: cfg.Audio.FramesPerBuffer,
		Device:          cfg.Audio.Device,
	})
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}

	transcriber, err := stt.NewWhisperAPI(stt.WhisperAPIConfig{
		APIKey:     cfg.ASRModel.APIKey,
		BaseURL:    cfg.ASRModel.BaseURL,
		Model:      cfg.ASRModel.ModelName,
		Language:   cfg.ASRModel.Language,
		Prompt:     cfg.ASRModel.Prompt,
		Timeout:    cfg.ASRModel.Timeout,
		MaxRetries: cfg.ASRModel.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("create transcriber: %w", err)
	}

	var publisher clipboard.Publisher = clipboard.NewSystem()
	if cfg.Notify {
		publisher = clipboard.WithNotification(publisher, "asr-to-clipboard")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	defer signal.Stop(signals)

	a := app.New(capture, transcriber, publisher, app.Options{
		SampleRate:   cfg.Audio.SampleRate,
		RestartDelay: cfg.Audio.RestartDelay,
		Console:      os.Stdout,
		Exit:         os.Exit,
	})
	return a.Run(ctx, signals)
}

func listDevices() error {
	devices, err := audiocapture.Devices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Println("No input devices found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEFAULT\tNAME\tHOST API\tCHANNELS\tRATE")
	for _, d := range devices {
		mark := ""
		if d.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\n", mark, d.Name, d.HostAPI, d.MaxInputChannels, d.DefaultSampleRate)
	}
	return w.Flush()
}
