package main

import (
	"context"
	"encoding/json"
	"flag"
	"time"

	"case-callback/internal/config"
	"case-callback/internal/kafka"
	"case-callback/internal/observability"
	"case-callback/internal/store/postgres"
	"case-callback/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	eventID := flag.String("event", "appealReceived", "event ID to raise")
	caseID := flag.String("case", "", "case ID (random when empty)")
	benefit := flag.String("benefit", "PIP", "benefit type code")
	postcode := flag.String("postcode", "SW1A 1AA", "appellant postcode")
	seed := flag.Bool("seed", false, "insert the case into the case store before publishing")
	flag.Parse()

	cfg := config.Load()
	observability.InitLogger(cfg.Logging.Level)
	logger := observability.GetLogger()

	if *caseID == "" {
		*caseID = uuid.NewString()
	}

	ev := models.CaseEvent{
		EventID:        *eventID,
		EventTimestamp: time.Now().UTC(),
		CaseDetails: models.CaseDetails{
			ID:         *caseID,
			CaseTypeID: "Benefit",
			State:      "withDwp",
			CaseData: map[string]interface{}{
				"appeal": map[string]interface{}{
					"benefitType": map[string]interface{}{"code": *benefit},
					"appellant": map[string]interface{}{
						"name":    map[string]interface{}{"firstName": "Jane", "lastName": "Smith"},
						"address": map[string]interface{}{"line1": "1 Test Street", "postcode": *postcode},
					},
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *seed {
		caseStore := postgres.Connect(postgres.Options{
			Addr:     cfg.Database.Addr(),
			User:     cfg.Database.User,
			Password: cfg.Database.Pass,
			Database: cfg.Database.Name,
		})
		defer caseStore.Close()
		if err := caseStore.CreateSchema(); err != nil {
			logger.WithError(err).Fatal("Failed to create case store schema")
		}
		if err := caseStore.InsertCase(ctx, *caseID, ev.CaseDetails.CaseTypeID, ev.CaseDetails.State, map[string]interface{}{}); err != nil {
			logger.WithError(err).Fatal("Failed to seed case")
		}
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		logger.WithError(err).Fatal("Failed to encode case event")
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		Acks:       cfg.Producer.Acks,
		Retries:    cfg.Producer.Retries,
		Idempotent: cfg.Producer.Idempotent,
		Logger:     logger,
	})
	defer producer.Close()

	headers := map[string]string{
		models.HeaderMessageID: uuid.NewString(),
		models.HeaderEventID:   ev.EventID,
		models.HeaderCaseID:    ev.CaseDetails.ID,
	}
	if err := producer.Publish(ctx, cfg.Producer.CallbackTopic, ev.CaseDetails.ID, payload, headers); err != nil {
		logger.WithError(err).Fatal("Failed to publish case event")
	}

	logger.WithFields(logrus.Fields{
		"topic":    cfg.Producer.CallbackTopic,
		"case_id":  ev.CaseDetails.ID,
		"event_id": ev.EventID,
	}).Info("Case event published")
}
