package main

import (
	"bytes"
	"fmt"
	"os"

	"carousel/cardos/proto"

	"github.com/spf13/cobra"
)

func newEncodeCmd(app *App) *cobra.Command {
	var notePath, outPath string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Write the length-prefixed link frames of a notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := app.geometry()
			if err != nil {
				return err
			}
			frames, err := encodeNote(notePath, g)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := writeFrames(&buf, frames); err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d frames to %s\n", len(frames), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&notePath, "file", "f", "", "Notification YAML")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSendCmd(app *App) *cobra.Command {
	var notePath, framesPath string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Push a notification to the device over the HTTP link",
		RunE: func(cmd *cobra.Command, args []string) error {
			var frames [][]byte
			switch {
			case framesPath != "":
				f, err := os.Open(framesPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if frames, err = readFrames(f); err != nil {
					return fmt.Errorf("%s: %w", framesPath, err)
				}
			case notePath != "":
				g, err := app.geometry()
				if err != nil {
					return err
				}
				if frames, err = encodeNote(notePath, g); err != nil {
					return err
				}
			default:
				return fmt.Errorf("one of --file or --frames is required")
			}
			if err := app.pusher().send(frames); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "sent %d frames\n", len(frames))
			return nil
		},
	}
	cmd.Flags().StringVarP(&notePath, "file", "f", "", "Notification YAML")
	cmd.Flags().StringVar(&framesPath, "frames", "", "Frames file written by encode")
	return cmd
}

func newEventsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print events the device has reported since the last call",
		RunE: func(cmd *cobra.Command, args []string) error {
			evs, err := app.pusher().events()
			if err != nil {
				return err
			}
			for _, ev := range evs {
				fmt.Fprintln(cmd.OutOrStdout(), formatEvent(ev))
			}
			return nil
		},
	}
}

func formatEvent(ev event) string {
	mode := proto.EventMode(ev.Mode)
	if ev.Index == nil {
		return mode.String()
	}
	return fmt.Sprintf("%s index=%d", mode, *ev.Index)
}
