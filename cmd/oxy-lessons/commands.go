package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-lessons/demos"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "oxy-lessons",
		Short:         "Run the render-loop lessons",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newListCommand(), newRunCommand())
	return root
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, l := range demos.Lessons() {
				fmt.Fprintf(w, "%s\t%s\n", l.Name, l.Description)
			}
			return w.Flush()
		},
	}
}

type runFlags struct {
	config        string
	headless      bool
	frames        int
	fps           int
	out           string
	snapshotEvery int
	logLevel      string
	profile       bool
}

func newRunCommand() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run <lesson>",
		Short: "Run a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson, err := demos.Find(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(f.config)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if err := cfg.validate(); err != nil {
				return err
			}
			return runLesson(cmd.Context(), lesson, cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.config, "config", "", "YAML session file")
	flags.BoolVar(&f.headless, "headless", false, "render offscreen with the software backend")
	flags.IntVar(&f.frames, "frames", 0, "stop after this many frames (0 runs until the window closes)")
	flags.IntVar(&f.fps, "fps", 60, "refresh rate")
	flags.StringVar(&f.out, "out", "", "directory for PNG snapshots (headless only)")
	flags.IntVar(&f.snapshotEvery, "snapshot-every", 0, "also snapshot every n frames")
	flags.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	flags.BoolVar(&f.profile, "profile", false, "log frame and heap stats")
	return cmd
}

// apply overrides cfg with the flags that were set explicitly.
func (f runFlags) apply(cmd *cobra.Command, cfg *sessionConfig) {
	flags := cmd.Flags()
	if f.headless {
		cfg.Backend = "software"
	}
	if flags.Changed("frames") {
		cfg.Frames = f.frames
	}
	if flags.Changed("fps") {
		cfg.FPS = f.fps
	}
	if flags.Changed("out") {
		cfg.Out = f.out
	}
	if flags.Changed("snapshot-every") {
		cfg.SnapshotEvery = f.snapshotEvery
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("profile") {
		cfg.Profile = f.profile
	}
}
