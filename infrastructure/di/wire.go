//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"studyforge/application/commands/bus"
	"studyforge/application/ports"
	querybus "studyforge/application/queries/bus"
	"studyforge/application/services"
	"studyforge/domain/questions"
	"studyforge/domain/srs"
	"studyforge/infrastructure/config"
	"studyforge/pkg/auth"
	"studyforge/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Model        *srs.Model
	Generator    *questions.Generator
	ItemRepo     ports.ItemRepository
	Publisher    ports.EventPublisher
	Metrics      *observability.Metrics
	JWTValidator *auth.JWTValidator
	StudyService *services.StudyService
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideModel,
	ProvideGenerator,
	ProvideItemRepository,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideJWTValidator,
	ProvideStudyService,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
