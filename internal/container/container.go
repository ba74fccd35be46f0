package container

import (
	"context"
	"fmt"
	"time"

	"glycorisk/adapters/api"
	"glycorisk/adapters/model"
	"glycorisk/adapters/sessionstore"
	"glycorisk/app"
	"glycorisk/internal"
	"glycorisk/internal/config"
	"glycorisk/internal/errors"
	"glycorisk/ports"
)

// sessionCleanupInterval is how often expired in-memory sessions are evicted
const sessionCleanupInterval = 5 * time.Minute

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Model artifacts
	Scaler     ports.Scaler
	Classifier ports.Classifier

	// Application services
	PredictionService *app.PredictionService
	Presenter         *app.ResultPresenter

	// Sessions
	SessionRepo ports.SessionRepository
	memory      *sessionstore.MemoryRepository
	redis       *sessionstore.RedisRepository
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Container{Config: cfg, Logger: logger}, nil
}

// InitPrediction loads the artifacts and builds the prediction service.
// A missing, malformed or mismatched artifact is fatal.
func (c *Container) InitPrediction() error {
	scaler, err := model.LoadScaler(c.Config.Artifacts.ScalerPath)
	if err != nil {
		return err
	}
	classifier, err := model.LoadClassifier(c.Config.Artifacts.ModelPath)
	if err != nil {
		return err
	}

	service, err := app.NewPredictionService(scaler, classifier, c.Config.Prediction.CacheSize, c.Logger)
	if err != nil {
		return err
	}

	c.Scaler = scaler
	c.Classifier = classifier
	c.PredictionService = service
	c.Presenter = app.NewResultPresenter(service)
	c.Logger.Info("Loaded model %s and scaler %s (%d features, classes %v)",
		c.Config.Artifacts.ModelPath, c.Config.Artifacts.ScalerPath, len(scaler.FeatureNames()), classifier.Classes())
	return nil
}

// InitSessions connects the configured session backend
func (c *Container) InitSessions(ctx context.Context) error {
	sc := c.Config.Session
	switch sc.Backend {
	case config.SessionBackendRedis:
		repo, err := sessionstore.NewRedisRepository(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB, sc.TTL)
		if err != nil {
			return err
		}
		c.redis = repo
		c.SessionRepo = repo
		c.Logger.Info("Using redis session store at %s", sc.RedisAddr)
	case config.SessionBackendMemory:
		c.memory = sessionstore.NewMemoryRepository(sc.TTL)
		c.SessionRepo = c.memory
		c.Logger.Info("Using in-memory session store")
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown session backend %q", sc.Backend))
	}
	return nil
}

// Init wires everything the web server needs
func (c *Container) Init(ctx context.Context) error {
	if err := c.InitPrediction(); err != nil {
		return errors.Wrap(err, "failed to initialize prediction")
	}
	if err := c.InitSessions(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize sessions")
	}
	return nil
}

// APIHandler returns the JSON API backed by the prediction service
func (c *Container) APIHandler() *api.Handler {
	return api.NewHandler(c.PredictionService, c.Logger)
}

// RunBackground runs maintenance work until ctx is done
func (c *Container) RunBackground(ctx context.Context) {
	if c.memory != nil {
		c.memory.RunCleanup(ctx, sessionCleanupInterval)
		return
	}
	<-ctx.Done()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
