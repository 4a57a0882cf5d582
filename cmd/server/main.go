package main

import (
	"context"
	"log"
	"os"

	"labvault-api/config"
	"labvault-api/internal/assistant"
	"labvault-api/internal/auth"
	"labvault-api/internal/blob"
	"labvault-api/internal/document"
	"labvault-api/internal/experiment"
	"labvault-api/internal/graph"
	"labvault-api/internal/logs"
	"labvault-api/internal/project"
	"labvault-api/internal/protocol"
	"labvault-api/internal/sample"

	"cloud.google.com/go/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = db.AutoMigrate(
		&auth.User{},
		&project.Project{},
		&experiment.Experiment{},
		&sample.Sample{},
		&protocol.Protocol{},
		&document.DocumentVersion{},
		&graph.GraphNode{},
		&graph.GraphEdge{},
		&logs.SystemLog{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up blob storage:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	authService := &auth.AuthService{DB: db}
	auth.RegisterRoutes(r, authService, logService)

	projectService := &project.ProjectService{DB: db}
	project.RegisterRoutes(r, projectService, logService)

	experimentService := &experiment.ExperimentService{DB: db}
	experiment.RegisterRoutes(r, experimentService, logService)

	sampleService := &sample.SampleService{DB: db}
	sample.RegisterRoutes(r, sampleService)

	protocolService := &protocol.ProtocolService{DB: db}
	protocol.RegisterRoutes(r, protocolService)

	graphService := &graph.GraphService{DB: db}
	graph.RegisterRoutes(r, graphService)

	documentService := &document.DocumentService{DB: db, Blobs: blobStore, Linker: graphService}
	document.RegisterRoutes(r, documentService, logService)

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.GenAIProject,
		Location: cfg.GenAILocation,
	})
	if err != nil {
		log.Fatal("Failed to create genai client:", err)
	}

	assistantService := &assistant.AssistantService{DB: db, Client: genaiClient}
	assistant.RegisterRoutes(r, assistantService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}

func newBlobStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "memory" {
		return blob.NewMemoryStore(), nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return blob.NewGCSStore(client, cfg.GCSBucket), nil
}
