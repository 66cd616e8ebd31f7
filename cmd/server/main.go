package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"posttown/internal/controller"
	"posttown/internal/db"
	"posttown/internal/files"
	"posttown/internal/handlers"
	"posttown/internal/middleware"
	"posttown/internal/moderation"
	"posttown/internal/store"
	"posttown/internal/town"
	"posttown/internal/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	postStore, err := buildStore()
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	fileDir := os.Getenv("FILE_STORE_DIR")
	if fileDir == "" {
		fileDir = "./data/files"
	}
	fileStore, err := files.NewDiskStore(fileDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	cacheSize := utils.StringToInt(os.Getenv("SESSION_CACHE_SIZE"))
	if cacheSize <= 0 {
		cacheSize = 500
	}
	registry, err := town.NewRegistry(cacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize town registry: %v", err)
	}

	filter := buildFilter()

	towns := controller.New(postStore, registry, fileStore, filter)

	// Initialize Gin
	r := gin.Default()

	// Handlers
	townHandler := handlers.NewTownHandler(registry)
	postHandler := handlers.NewPostHandler(towns)
	commentHandler := handlers.NewCommentHandler(towns)
	fileHandler := handlers.NewFileHandler(towns)

	// Town lifecycle
	r.POST("/towns", townHandler.Create)
	r.GET("/towns", townHandler.List)
	r.PATCH("/towns/:townID", townHandler.Update)
	r.DELETE("/towns/:townID", townHandler.Delete)
	r.POST("/sessions", townHandler.Join)

	// Post/comment routes, all scoped to a town
	scoped := r.Group("/towns/:townID")
	scoped.Use(middleware.TownRequired(registry))
	{
		scoped.DELETE("/sessions", townHandler.Leave)

		scoped.POST("/posts", postHandler.Create)
		scoped.GET("/posts", postHandler.GetAll)
		scoped.GET("/posts/:postID", postHandler.Get)
		scoped.PATCH("/posts/:postID", postHandler.Update)
		scoped.DELETE("/posts/:postID", postHandler.Delete)
		scoped.GET("/posts/:postID/commentTree", postHandler.GetCommentTree)

		scoped.POST("/comments", commentHandler.Create)
		scoped.GET("/comments/:commentID", commentHandler.Get)
		scoped.PATCH("/comments/:commentID", commentHandler.Update)
		scoped.DELETE("/comments/:commentID", commentHandler.Delete)

		scoped.GET("/posts/:postID/file", fileHandler.Get)
		scoped.DELETE("/posts/:postID/file", fileHandler.Delete)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("PostTown server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// buildStore picks the persistence driver from STORE_DRIVER. Memory is the
// default so a bare checkout runs without any database.
func buildStore() (store.PostCommentStore, error) {
	switch os.Getenv("STORE_DRIVER") {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			dsn = "host=localhost user=postgres password=postgres dbname=posttown port=5432 sslmode=disable"
		}
		gdb, err := db.ConnectPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(gdb)
	case "mongo":
		uri := os.Getenv("MONGO_URL")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		client, err := db.ConnectMongo(context.Background(), uri)
		if err != nil {
			return nil, err
		}
		dbName := os.Getenv("MONGO_DB")
		if dbName == "" {
			dbName = "posttown"
		}
		return store.NewMongoStore(client.Database(dbName)), nil
	default:
		log.Println("STORE_DRIVER not set, using in-memory store")
		return store.NewMemoryStore(), nil
	}
}

// buildFilter extends the built-in dictionary with MODERATION_WORDS, a
// comma-separated list.
func buildFilter() *moderation.Filter {
	raw := os.Getenv("MODERATION_WORDS")
	if raw == "" {
		return moderation.NewFilter()
	}
	var extra []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			extra = append(extra, w)
		}
	}
	return moderation.NewFilter(extra...)
}
