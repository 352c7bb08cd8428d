package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"studyforge/application/commands"
	"studyforge/application/commands/bus"
	commands_handlers "studyforge/application/commands/handlers"
	"studyforge/application/ports"
	"studyforge/application/queries"
	querybus "studyforge/application/queries/bus"
	queries_handlers "studyforge/application/queries/handlers"
	"studyforge/application/services"
	"studyforge/domain/questions"
	"studyforge/domain/srs"
	"studyforge/infrastructure/config"
	"studyforge/infrastructure/messaging"
	"studyforge/infrastructure/messaging/eventbridge"
	"studyforge/infrastructure/persistence/dynamodb"
	"studyforge/infrastructure/persistence/jsonfile"
	"studyforge/pkg/auth"
	"studyforge/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
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

// ProvideModel creates the memory model from the configured weights
func ProvideModel(cfg *config.Config) (*srs.Model, error) {
	return srs.NewModel(cfg.Weights)
}

// ProvideGenerator creates the question generator
func ProvideGenerator() *questions.Generator {
	return questions.NewGenerator(time.Now().UnixNano())
}

// ProvideItemRepository selects the item store from configuration
func ProvideItemRepository(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.ItemRepository {
	if cfg.StorageDriver == config.StorageDynamoDB {
		return dynamodb.NewItemRepository(client, cfg.DynamoDBTable, logger)
	}
	return jsonfile.NewItemRepository(cfg.DataFile, logger)
}

// ProvideEventPublisher creates an event publisher, or a no-op when event
// publishing is disabled
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return messaging.NewNoopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates a metrics emitter; disabled metrics return a no-op
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("StudyForge/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideJWTValidator creates a token validator, or nil when no secret is
// configured so local runs skip authentication
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideStudyService creates the study session service
func ProvideStudyService(
	model *srs.Model,
	cfg *config.Config,
	repo ports.ItemRepository,
	publisher ports.EventPublisher,
	generator *questions.Generator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*services.StudyService, error) {
	return services.NewStudyService(model, cfg.SessionLength, repo, publisher, generator, metrics, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(service *services.StudyService, logger *zap.Logger) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	createHandler := commands_handlers.NewCreateItemHandler(service)
	commandBus.Register(commands.CreateItemCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			createCmd, ok := cmd.(commands.CreateItemCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return createHandler.Handle(ctx, createCmd)
		},
	})

	reviewHandler := commands_handlers.NewRecordReviewHandler(service, logger)
	commandBus.Register(commands.RecordReviewCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			reviewCmd, ok := cmd.(commands.RecordReviewCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return reviewHandler.Handle(ctx, reviewCmd)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(service *services.StudyService) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	nextHandler := queries_handlers.NewGetNextQuestionHandler(service)
	queryBus.Register(queries.GetNextQuestionQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			nextQuery, ok := query.(queries.GetNextQuestionQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return nextHandler.Handle(ctx, nextQuery)
		},
	})

	itemHandler := queries_handlers.NewGetItemHandler(service)
	queryBus.Register(queries.GetItemQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			itemQuery, ok := query.(queries.GetItemQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return itemHandler.Handle(ctx, itemQuery)
		},
	})

	listHandler := queries_handlers.NewListItemsHandler(service)
	queryBus.Register(queries.ListItemsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListItemsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listHandler.Handle(ctx, listQuery)
		},
	})

	answerHandler := queries_handlers.NewCheckAnswerHandler(service)
	queryBus.Register(queries.CheckAnswerQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			answerQuery, ok := query.(queries.CheckAnswerQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return answerHandler.Handle(ctx, answerQuery)
		},
	})

	statusHandler := queries_handlers.NewGetSessionStatusHandler(service)
	queryBus.Register(queries.GetSessionStatusQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			statusQuery, ok := query.(queries.GetSessionStatusQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return statusHandler.Handle(ctx, statusQuery)
		},
	})

	return queryBus
}
