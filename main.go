package main

import (
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/beka-birhanu/labyrinth-duel/api"
	"github.com/beka-birhanu/labyrinth-duel/config"
	"github.com/beka-birhanu/labyrinth-duel/maze"
	"github.com/beka-birhanu/labyrinth-duel/service"
)

const uriWS = "/ws"

// Global variables for dependencies
var (
	envs      *config.Config
	appLogger *log.Logger
	directory *service.Directory
	wsServer  *api.Server
	router    *way.Router
)

func initDirectory() {
	directory = service.NewDirectory(&service.Config{
		MazeFactory: maze.Generate,
		Logger:      appLogger,
		MazeWidth:   envs.MazeWidth,
		MazeHeight:  envs.MazeHeight,
		IdleTTL:     envs.RoomIdleTTL,
	})
	appLogger.Info("room directory initialized")
}

func initAPIServer() {
	wsServer = api.NewServer(directory, appLogger)
	appLogger.Info("websocket server initialized")
}

func routes() {
	router = way.NewRouter()
	router.HandleFunc("GET", uriWS, wsServer.HandleWS())
	router.HandleFunc("GET", "/health", handleHealth)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func main() {
	appLogger = log.New()
	envs = config.New()

	initDirectory()
	initAPIServer()
	routes()
	defer directory.Stop()

	appLogger.Infof("websocket server listening on :%s", envs.Port)
	appLogger.Fatalln(http.ListenAndServe(":"+envs.Port, router))
}
