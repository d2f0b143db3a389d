//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/covelotage/service-matching/internal/application"
	"github.com/covelotage/service-matching/internal/domain/geo"
	matchEvents "github.com/covelotage/service-matching/internal/events"
	"github.com/covelotage/service-matching/internal/platform/kafka"
	"github.com/covelotage/service-matching/internal/repository"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// matchingStack holds wired-up matching service components.
type matchingStack struct {
	Routes          *application.RouteService
	Matches         *application.MatchService
	Consumer        *matchEvents.UserEventConsumer
	CleanupProducer func()
}

// stubPlanner stands in for the routing provider; integration tests never
// compute paths.
type stubPlanner struct{}

func (stubPlanner) ShortestPath(_ context.Context, waypoints []geo.Point) ([]geo.Point, error) {
	return waypoints, nil
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_matching",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_matching sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&repository.RouteModel{}))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, matchEvents.TopicRouteEvents, matchEvents.TopicUserEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupMatchingStack wires up the full matching service stack.
func setupMatchingStack(t *testing.T, db *gorm.DB, brokers []string) *matchingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	routeRepo := repository.NewGormRouteRepository(db)
	producer := kafka.NewProducer(brokers, logger)
	routeSvc := application.NewRouteService(routeRepo, stubPlanner{}, producer, logger)
	matchSvc := application.NewMatchService(routeRepo, 0, logger)

	groupID := fmt.Sprintf("test-matching-%s", uuid.New().String()[:8])
	consumer := matchEvents.NewUserEventConsumer(brokers, groupID, routeSvc, logger)

	return &matchingStack{
		Routes:          routeSvc,
		Matches:         matchSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// mondayCommuteRequest builds a create request for a Monday-morning commute
// along the given path.
func mondayCommuteRequest(name, at string, path []string) application.CreateRouteRequest {
	return application.CreateRouteRequest{
		Name:         name,
		StartAddress: "Place Stanislas, Nancy",
		EndAddress:   "Campus Brabois, Vandoeuvre",
		Path:         path,
		Planning: application.PlanningDTO{
			Periodic: []application.PeriodicSlotDTO{{DayOfWeek: 1, Time: at}},
		},
	}
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType, key string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	err := producer.Publish(context.Background(), topic, source, eventType, key, data)
	require.NoError(t, err, "failed to publish event")
}

// waitForOwnerRouteCount polls the routes table until the owner's route count matches.
func waitForOwnerRouteCount(t *testing.T, db *gorm.DB, ownerID uuid.UUID, expected int64, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&repository.RouteModel{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
			return false
		}
		return count == expected
	}, timeout, 200*time.Millisecond, "owner route count did not reach %d", expected)
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		var ce kafka.CloudEvent
		if err := json.Unmarshal(msg.Value, &ce); err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
