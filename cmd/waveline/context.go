package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jwulff/waveline/internal/config"
	"github.com/jwulff/waveline/internal/db"
)

type rootFlags struct {
	config   string
	database string
	socket   string
	project  string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// databasePath prefers --db over the configured path.
func (c *commandContext) databasePath() (string, error) {
	if path := strings.TrimSpace(c.flags.database); path != "" {
		return config.ExpandPath(path)
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.Database, nil
}

// socketPath prefers --socket over the configured path.
func (c *commandContext) socketPath() (string, error) {
	if path := strings.TrimSpace(c.flags.socket); path != "" {
		return config.ExpandPath(path)
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.PlayerSocket, nil
}

func (c *commandContext) projectID() string {
	return strings.TrimSpace(c.flags.project)
}

func (c *commandContext) withStore(fn func(*db.Store) error) error {
	path, err := c.databasePath()
	if err != nil {
		return err
	}
	store, err := db.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// loadDocument reads the selected project, or the newest one.
func (c *commandContext) loadDocument(store *db.Store) (*db.Document, error) {
	id := c.projectID()
	if id == "" {
		p, err := store.LatestProject()
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, db.ErrProjectNotFound
		}
		id = p.ID
	}
	return store.Load(id)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
