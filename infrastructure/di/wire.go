//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"caseboard/application/actions"
	"caseboard/application/ports"
	"caseboard/application/session"
	"caseboard/infrastructure/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	SketchRepo    ports.SketchRepository
	SettingsStore ports.SettingsStore
	ActionRunner  ports.ActionRunner
	Metrics       ports.MetricsPublisher
	Sessions      *session.Manager
	Dispatcher    *actions.Dispatcher
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideSketchRepository,
	ProvideSettingsStore,
	ProvideActionRunner,
	ProvideMetrics,
	ProvideSessionManager,
	ProvideActionDispatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
