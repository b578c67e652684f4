package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"ringtimer/internal/storage"
	"ringtimer/internal/ui/preferences"
	"ringtimer/internal/ui/ring"

	"github.com/spf13/cobra"
)

var errMemoryBackend = errors.New("the memory preset backend keeps nothing between runs")

func newPresetsCommand(opts *options) *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved timer presets",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved presets in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSink(opts.settings, func(sink storage.PresetSink) error {
				entries, err := sink.List()
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No presets saved.")
					return nil
				}
				writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "ID\tTITLE\tDURATION\tELAPSED\tSOUND")
				for _, saved := range entries {
					fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n", saved.ID, saved.Title, ring.FormatClock(saved.Duration()), ring.FormatClock(saved.ElapsedTime), saved.AudioFileName)
				}
				return writer.Flush()
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Save the timer described by --title, --duration, --elapsed and --alert as a preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSink(opts.settings, func(sink storage.PresetSink) error {
				timer, err := newSession(opts.settings, sink, nil, 0)
				if err != nil {
					return err
				}
				defer timer.Close()

				saved, err := timer.SaveCurrentAsPreset()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %d: %s (%s)\n", saved.ID, saved.Title, ring.FormatClock(saved.Duration()))
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a preset; unknown ids are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse preset id %q: %w", args[0], err)
			}
			return withSink(opts.settings, func(sink storage.PresetSink) error {
				if err := sink.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %d\n", id)
				return nil
			})
		},
	}

	presetsCmd.AddCommand(listCmd, addCmd, deleteCmd)
	return presetsCmd
}

func withSink(settings preferences.Settings, run func(storage.PresetSink) error) error {
	sink, err := openSink(settings)
	if err != nil {
		return err
	}
	if sink == nil {
		return errMemoryBackend
	}
	defer sink.Close()
	return run(sink)
}
