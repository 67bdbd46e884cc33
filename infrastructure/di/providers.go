package di

import (
	"context"
	"fmt"

	"caseboard/application/actions"
	"caseboard/application/ports"
	"caseboard/application/session"
	"caseboard/infrastructure/config"
	"caseboard/infrastructure/messaging/eventbridge"
	"caseboard/infrastructure/persistence/dynamodb"
	"caseboard/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideSketchRepository creates the sketch repository
func ProvideSketchRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SketchRepository {
	return dynamodb.NewSketchRepository(
		client,
		cfg.DynamoDBTable,
		cfg.IndexName,
		logger,
	)
}

// ProvideSettingsStore creates the settings store
func ProvideSettingsStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SettingsStore {
	return dynamodb.NewSettingsStore(
		client,
		cfg.SettingsTable,
		logger,
	)
}

// ProvideActionRunner creates the EventBridge action runner
func ProvideActionRunner(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.ActionRunner {
	return eventbridge.NewActionRunner(
		client,
		cfg.EventBusName,
		logger,
	)
}

// ProvideMetrics creates the metrics publisher, or a no-op when disabled
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsPublisher {
	if !cfg.EnableMetrics {
		return observability.NoopMetrics{}
	}
	namespace := fmt.Sprintf("Caseboard/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideSessionManager creates the session manager
func ProvideSessionManager(
	sketchRepo ports.SketchRepository,
	settingsStore ports.SettingsStore,
	cfg *config.Config,
	logger *zap.Logger,
	metrics ports.MetricsPublisher,
) *session.Manager {
	return session.NewManager(
		sketchRepo,
		settingsStore,
		cfg.SettingsFlushDelay(),
		logger,
		metrics,
	)
}

// ProvideActionDispatcher creates the action dispatcher over the default
// action registry
func ProvideActionDispatcher(runner ports.ActionRunner, logger *zap.Logger, metrics ports.MetricsPublisher) *actions.Dispatcher {
	return actions.NewDispatcher(
		actions.DefaultRegistry(),
		runner,
		logger,
		metrics,
	)
}
