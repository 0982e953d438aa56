package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/session"
)

// environment is what every command needs to talk to the backend.
type environment struct {
	config  *Config
	logger  *zap.Logger
	store   *session.FileStore
	session *session.Session
	client  *backend.Client
}

// mustEnvironment builds the logger, config, session and client, exiting on failure.
func mustEnvironment() *environment {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty), zap.String("version", version))

	sessionFile := strings.TrimSpace(config.SessionFile)
	if sessionFile == "" {
		sessionFile, err = session.DefaultPath()
		if err != nil {
			logger.Fatal("locating the session file", zap.Error(err),
				zap.String("hint", "set the 'session-file' key or CVMATCH_SESSION_FILE"),
			)
		}
	}

	store := session.NewFileStore(sessionFile)
	sess, err := session.Load(store)
	if err != nil {
		logger.Fatal("loading the session", zap.Error(err), zap.String("session_file", sessionFile))
	}

	client := backend.New(backend.Config{
		APIURL:    config.APIURL,
		UserAgent: config.UserAgent,
		Timeout:   config.Timeout,
	}, sess, logger)

	return &environment{
		config:  config,
		logger:  logger,
		store:   store,
		session: sess,
		client:  client,
	}
}

// requireLogin exits with a hint when there is no usable token.
func (e *environment) requireLogin() {
	if e.session.CurrentToken() == "" {
		e.logger.Fatal("not logged in", zap.String("hint", fmt.Sprintf("run '%s login' first", app)))
	}
}

// fatal reports err and exits. Expired or missing credentials get a login hint.
func (e *environment) fatal(msg string, err error) {
	if errors.Is(err, backend.ErrAuthRequired) {
		e.logger.Fatal(msg, zap.Error(err), zap.String("hint", fmt.Sprintf("the session has expired, run '%s login' again", app)))
	}

	e.logger.Fatal(msg, zap.Error(err))
}
