package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jwulff/waveline/internal/app"
	"github.com/jwulff/waveline/internal/db"
	"github.com/jwulff/waveline/internal/logging"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the timeline editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, closer, err := logging.New(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				File:   cfg.Logging.File,
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			dbPath, err := ctx.databasePath()
			if err != nil {
				return err
			}
			// A missing database is reported inside the editor.
			store, err := db.Open(dbPath)
			if err != nil {
				logger.Warn().Err(err).Str("path", dbPath).Msg("project database unavailable")
				store = nil
			} else {
				defer store.Close()
			}

			var socket string
			if !offline {
				if socket, err = ctx.socketPath(); err != nil {
					return err
				}
			}

			logger.Info().Str("db", dbPath).Str("project", ctx.projectID()).Bool("offline", offline).Msg("editor starting")
			model := app.New(app.Options{
				Config:       cfg,
				Logger:       logger,
				Store:        store,
				ProjectID:    ctx.projectID(),
				PlayerSocket: socket,
			})
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Do not connect to the audio player")
	return cmd
}
