package precheck

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/upload"
)

// ErrRejected is wrapped by every error a check returns for a document that
// must not be uploaded.
var ErrRejected = errors.New("document rejected")

// Check is a single validation step run on a document before upload.
type Check interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(file upload.File) error
}

// Config contains settings consumed by the checks.
type Config struct {
	// MaxSize is the largest accepted file in bytes. Zero disables the check.
	MaxSize int64
	// AllowedExtensions are lower-case extensions without the dot.
	AllowedExtensions []string
}

// Status represents runtime information about a check.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns the checks in the order they run.
func Default(cfg Config) []Check {
	return []Check{
		NewNotEmpty(),
		NewMaxSize(cfg.MaxSize),
		NewExtension(cfg.AllowedExtensions),
		NewContent(),
	}
}

// DisableByName marks a check with the provided name as disabled while keeping it in the list.
func DisableByName(checks []Check, name, reason string) bool {
	found := false
	for _, check := range checks {
		if check.Name() == name {
			check.Disable(reason)
			found = true
		}
	}
	return found
}

// Run applies the checks in order and stops at the first rejection.
func Run(log *zap.Logger, checks []Check, file upload.File) error {
	log = logger.WithFields(log).With(zap.String(logger.FieldFileName, file.Name))

	for _, check := range checks {
		if !check.IsEnabled() {
			log.Debug("check disabled", zap.String("name", check.Name()))
			continue
		}

		if err := check.Apply(file); err != nil {
			log.Info("check step", zap.String("name", check.Name()), zap.Bool("passed", false), zap.Error(err))
			return fmt.Errorf("%s: %w", check.Name(), err)
		}

		log.Debug("check step", zap.String("name", check.Name()), zap.Bool("passed", true))
	}

	return nil
}

// Describe returns status entries for the provided checks.
func Describe(checks []Check) []Status {
	statuses := make([]Status, 0, len(checks))
	for _, check := range checks {
		if reporter, ok := check.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    check.Name(),
			Enabled: check.IsEnabled(),
		})
	}
	return statuses
}

func rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}
