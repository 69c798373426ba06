package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/petstore/pkg/config"
	"github.com/abgdnv/petstore/pkg/messaging"
	"github.com/abgdnv/petstore/pkg/messaging/events"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
)

// skipIntegrationTests is the environment variable that controls whether to skip integration tests.
const skipIntegrationTests = "PET_SVC_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

// PublisherSuite tests NatsPublisher against a real NATS server.
type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	logger        *slog.Logger
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
	stream        jetstream.Stream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")

	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")

	s.stream, err = EnsureStream(s.ctx, s.js, "PETS", messaging.PetsSubjects)
	require.NoError(s.T(), err, "Failed to create stream")

	s.logger.Info("Initialization complete for PublisherSuite")
}

func (s *PublisherSuite) TearDownSuite() {
	s.nc.Close()
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.logger.Error("Failed to terminate NATS container", "error", err)
	}
}

func (s *PublisherSuite) SetupTest() {
	require.NoError(s.T(), s.stream.Purge(s.ctx))
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestPublish_StoresEventInStream() {
	// given
	publisher := NewNatsPublisher(s.js)
	pet := events.Pet{Name: "Baymax", Type: "dog", Color: "white", Price: 5000}
	event := events.NewPetAddedEvent(s.ctx, pet)

	// when
	err := publisher.Publish(s.ctx, event)

	// then
	require.NoError(s.T(), err)
	msg, err := s.stream.GetLastMsgForSubject(s.ctx, messaging.PetsAddedSubject)
	require.NoError(s.T(), err)

	var received events.PetAddedEvent
	require.NoError(s.T(), json.Unmarshal(msg.Data, &received))
	s.Equal(event.EventID, received.EventID)
	s.Equal(pet, received.Pet)
}

func (s *PublisherSuite) TestPublish_DropsDuplicateEvent() {
	// given
	publisher := NewNatsPublisher(s.js)
	event := events.NewPetPriceChangedEvent(s.ctx, "Baymax", 2000)

	// when
	require.NoError(s.T(), publisher.Publish(s.ctx, event))
	require.NoError(s.T(), publisher.Publish(s.ctx, event))

	// then
	info, err := s.stream.Info(s.ctx)
	require.NoError(s.T(), err)
	s.Equal(uint64(1), info.State.Msgs)
}

func (s *PublisherSuite) TestPublish_ThroughResilientPublisher() {
	// given
	cfg := messagingTestConfig()
	publisher := messaging.NewResilientPublisher(NewNatsPublisher(s.js), cfg)

	// when
	require.NoError(s.T(), publisher.Publish(s.ctx, events.NewPetSoldEvent(s.ctx, "Baymax")))
	require.NoError(s.T(), publisher.Publish(s.ctx, events.NewPetsClearedEvent(s.ctx)))

	// then
	require.Eventually(s.T(), func() bool {
		info, err := s.stream.Info(s.ctx)
		return err == nil && info.State.Msgs == 2
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *PublisherSuite) TestPublish_NoStreamForSubject() {
	publisher := NewNatsPublisher(s.js)

	err := publisher.Publish(s.ctx, unroutedEvent{})

	require.ErrorIs(s.T(), err, jetstream.ErrNoStreamResponse)
	s.NotErrorIs(err, messaging.ErrInvalidPayload)
}

type unroutedEvent struct{}

func (unroutedEvent) Subject() string          { return "unrouted.subject" }
func (unroutedEvent) Payload() ([]byte, error) { return []byte("{}"), nil }

func messagingTestConfig() config.ResilienceConfig {
	return config.ResilienceConfig{
		Retry: config.RetryConfig{MaxAttempts: 3, InitialBackoff: 50 * time.Millisecond},
		CircuitBreaker: config.CircuitBreakerConfig{
			ConsecutiveFailures: 5,
			ErrorRatePercent:    50,
			HalfOpenRequests:    1,
			OpenTimeout:         time.Second,
		},
	}
}
