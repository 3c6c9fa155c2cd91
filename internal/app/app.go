package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/daveokon/medistaff/internal/config"
	"github.com/daveokon/medistaff/internal/core"
	db "github.com/daveokon/medistaff/internal/core/database"
	"github.com/daveokon/medistaff/internal/core/extraction"
	"github.com/daveokon/medistaff/internal/core/llm"
	objectclient "github.com/daveokon/medistaff/internal/core/object-client"
	uploadstore "github.com/daveokon/medistaff/internal/core/upload-store"
)

type App struct {
	DBClient     *db.DatabaseClient
	ObjectClient core.ObjectClient
	Extractor    core.DocumentExtractor
	Provider     core.ChatProvider
	Store        *uploadstore.Store
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	bootCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(bootCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	// Avatar storage is optional; chat must not depend on it.
	var objClient core.ObjectClient
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		s3Client, err := objectclient.NewS3Client(bootCtx, cfg)
		if err != nil {
			return nil, err
		}
		objClient = s3Client
	} else {
		log.Println("AWS credentials not set; avatar upload disabled.")
	}

	provider, err := newChatProvider(bootCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Chat provider %q ready.", cfg.ChatProvider)

	extractor := extraction.NewService(cfg.MaxDocumentChars)

	store, err := uploadstore.New(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	store.StartReaper(ctx, cfg.ReapInterval, cfg.RetentionWindow)

	server := NewServer(cfg, dbClient, objClient, extractor, provider, store)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Extractor:    extractor,
		Provider:     provider,
		Store:        store,
		Server:       server,
	}, nil
}

func newChatProvider(ctx context.Context, cfg *config.Config) (core.ChatProvider, error) {
	switch cfg.ChatProvider {
	case "openrouter":
		return llm.NewOpenRouterProvider(cfg.OpenRouterKey), nil
	case "groq":
		return llm.NewGroqProvider(cfg.GroqKey), nil
	case "gemini":
		return llm.NewGeminiProvider(ctx, cfg.GeminiKey)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.ChatProvider)
	}
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
	if closer, ok := a.Provider.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
