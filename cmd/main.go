package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/interaction"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/logger"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/middleware"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/post"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/sessions"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user/api"
	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/user/records"
)

type EnvConfig map[string]string

func init() {
	rand.Seed(time.Now().UnixNano())
}

func main() {
	var cfg EnvConfig = readDotenv()

	db, err := sql.Open("pgx", "postgresql://localhost/"+cfg["POSTGRES_DB"]+"?sslmode=disable")
	if err != nil {
		log.Printf("Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("unable to reach PostgreSQL: %v", err)
	}

	redisConn, err := redis.DialURL(cfg["REDIS_ADDR"])
	if err != nil {
		log.Fatalf("main: can't connect to Redis")
	}

	mongoCtx, mongoCtxCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer mongoCtxCancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg["MONGODB_URI"]))
	if err != nil {
		log.Fatalln("main: can't connect to MongoDB,", err)
	}
	if err := mongoClient.Ping(mongoCtx, nil); err != nil {
		log.Fatalln("main: unable to connect to MongoDB,", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(mongoCtx); err != nil {
			log.Fatalln("main: failed disconnecting from MongoDB, ", err)
		}
	}()

	chatterDB := mongoClient.Database("chatter")
	postsRepo := post.NewPostRepo(chatterDB.Collection("posts"))
	usersRepo := user.NewUserRepo(chatterDB.Collection("users"))
	recordStore := records.NewStore(db)
	sessionManager := sessions.NewSessionManager(cfg["SECRET_KEY"], redisConn)

	postHandler := post.NewPostHandler(postsRepo)
	interactionHandler := interaction.NewHandler(
		interaction.NewService(postsRepo, usersRepo, recordStore))
	userHandler := api.NewUserHandler(recordStore, usersRepo, sessionManager)

	r := mux.NewRouter()

	// Generate fake content to have better UI experience
	// seed(recordStore, usersRepo, postsRepo)

	apiRouter := r.PathPrefix("/api").Subrouter()

	// Posts
	apiRouter.HandleFunc("/posts/", postHandler.List).Methods("GET")
	apiRouter.HandleFunc("/posts", postHandler.Add).Methods("POST")
	apiRouter.HandleFunc("/post/{post_id}", postHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/posts/{tag}", postHandler.GetTag).Methods("GET")
	apiRouter.HandleFunc("/user/{username}", postHandler.GetByUser).Methods("GET")

	// Engagement
	apiRouter.HandleFunc("/post/{post_id}/like", interactionHandler.ToggleLike).Methods("POST")
	apiRouter.HandleFunc("/post/{post_id}/bookmark", interactionHandler.ToggleBookmark).Methods("POST")
	apiRouter.HandleFunc("/bookmarks", interactionHandler.GetBookmarks).Methods("GET")
	apiRouter.HandleFunc("/post/{post_id}", interactionHandler.AddComment).Methods("POST")
	apiRouter.HandleFunc("/post/{post_id}/{comment_id}/reaction", interactionHandler.AddReaction).Methods("POST")

	// User
	apiRouter.HandleFunc("/register", userHandler.Register).Methods("POST")
	apiRouter.HandleFunc("/login", userHandler.LogIn).Methods("POST")

	auth := middleware.NewAuthMiddleware(sessionManager, usersRepo)
	r.Use(auth.Middleware)

	logMiddleware := middleware.NewLoggingMiddleware(logger.Run(cfg["LOG_LEVEL"]))
	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)

	log.Println("Serving at http://localhost:8080/")
	log.Fatalln(http.ListenAndServe(":8080", r))
}

func readDotenv() EnvConfig {
	env, err := godotenv.Read()
	if err != nil {
		log.Fatal("failed reading .env file:", err)
	}
	return env
}
