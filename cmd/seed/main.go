package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindscreen/internal/artifact"
	"mindscreen/internal/config"
	"mindscreen/internal/engine"
	"mindscreen/internal/logging"
	"mindscreen/internal/model"
	"mindscreen/internal/repository"
	"mindscreen/internal/service"
)

// Sample questionnaires covering each scoring path
var samples = []model.SubmitRequest{
	{
		UserID: "demo-student-1",
		Responses: model.RawResponses{
			model.String("demo-student-1"), model.String("Female"), model.Number(20), model.String("Delhi"),
			model.String("Student"), model.Number(2), model.Number(0), model.Number(8.1), model.Number(4),
			model.Number(0), model.Number(8), model.String("Healthy"), model.String("BSc"),
			model.String("No"), model.Number(5), model.String("No"), model.String("No"),
		},
	},
	{
		UserID: "demo-student-2",
		Responses: model.RawResponses{
			model.String("demo-student-2"), model.String("Male"), model.Number(23), model.String("Pune"),
			model.String("Student"), model.Number(5), model.Number(5), model.Number(6.2), model.Number(1),
			model.Number(1), model.Number(5), model.String("Unhealthy"), model.String("BTech"),
			model.String("No"), model.Number(11), model.String("Yes"), model.String("Yes"),
		},
	},
	{
		UserID: "demo-student-3",
		Responses: model.RawResponses{
			model.String("demo-student-3"), model.String("Female"), model.Number(19), model.String("Chennai"),
			model.String("Student"), model.Number(3), model.Number(0), model.Number(7.4), model.Number(2),
			model.Number(0), model.Number(3), model.String("Average"), model.String("BA"),
			model.String("No"), model.Number(9), model.String("No"), model.String("No"),
		},
	},
	{
		UserID: "demo-student-4",
		Responses: model.RawResponses{
			model.String("demo-student-4"), model.String("Male"), model.Number(21), model.String("Kolkata"),
			model.String("Student"), model.Number(4), model.Number(0), model.Number(5.9), model.Number(2),
			model.Number(0), model.Number(6), model.String("Average"), model.String("BCom"),
			model.String("Yes"), model.Number(10), model.String("Yes"), model.String("No"),
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetDefault(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models := engine.DegradedContext()
	if a, err := artifact.NewLoader(artifact.WithRegion(cfg.AWSRegion), artifact.WithLogger(logger)).Load(ctx, cfg.ModelArtifact); err != nil {
		logger.Warn("seeding with fallback predictions", "error", err)
	} else {
		models = a.ModelContext()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("failed to ping MongoDB", "error", err)
		os.Exit(1)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("failed to create indexes", "error", err)
	}

	svc := service.NewAssessmentService(engine.New(models, logger), repository.NewAssessmentRepo(db), nil, logger)
	for i := range samples {
		resp, err := svc.Submit(ctx, &samples[i])
		if err != nil {
			logger.Error("failed to seed assessment", "user_id", samples[i].UserID, "error", err)
			continue
		}
		logger.Info("seeded assessment",
			"user_id", samples[i].UserID,
			"assessment_id", resp.AssessmentID,
			"risk_level", resp.Analysis.RiskLevel)
	}
}
