package main

import (
	"fmt"
	"os"

	"github.com/quillworks/localagent/internal/agent"
	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/config"
	"github.com/quillworks/localagent/internal/gmail"
	"github.com/quillworks/localagent/internal/journal"
	"github.com/quillworks/localagent/internal/llm"
	"github.com/quillworks/localagent/internal/logging"
	"github.com/quillworks/localagent/internal/session"
)

// deps bundles everything the subcommands wire up from configuration.
type deps struct {
	cfg     *config.Config
	logger  logging.Logger
	store   *journal.Store
	session *session.Manager
	agent   *agent.Agent
}

// buildDeps loads configuration and constructs the shared object graph.
// logFormat overrides the configured format when non-empty; interactive
// commands pass "text" so log lines do not fight the prompt.
func buildDeps(logFormat string) (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if logFormat == "" {
		logFormat = cfg.LogFormat
	}
	logger := logging.New(os.Stderr, logFormat)

	store, err := journal.NewStore(cfg.JournalPath, journal.KDF(cfg.KDF))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	sess := session.NewManager(cfg.SessionTTL)

	generator, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("building generator: %w", err)
	}

	source := gmail.NewSource(cfg.Gmail)
	ag := agent.New(source, generator, store, sess, logger)

	return &deps{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: sess,
		agent:   ag,
	}, nil
}

// unlockFromTerminal prompts for the journal password and opens the session.
func (d *deps) unlockFromTerminal(prompt promptFn) error {
	pw, err := prompt()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if _, err := d.store.Load(string(pw)); err != nil {
		return err
	}
	_, err = d.session.Unlock(string(pw))
	return err
}

type promptFn func() ([]byte, error)
