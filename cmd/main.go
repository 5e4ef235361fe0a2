package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rollbar/rollbar-go"

	"github.com/tlemaire/formation-backend/config"
	"github.com/tlemaire/formation-backend/routes"
	"github.com/tlemaire/formation-backend/services"
	"github.com/tlemaire/formation-backend/ws"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	if token := os.Getenv("ROLLBAR_TOKEN"); token != "" {
		rollbar.SetToken(token)
		rollbar.SetEnvironment(os.Getenv("ROLLBAR_ENV"))
		defer rollbar.Close()
	}

	// Duration engine wiring: cache -> calculation -> store -> propagation,
	// plus the async dispatch path controllers publish on.
	cache := services.NewMemoryDurationCache()
	calc := services.NewDurationCalculationService(cache)
	store := services.NewGormDurationStore(config.DB)
	propagation := services.NewDurationPropagationService(store, calc, cache)

	queue := services.NewChannelQueue(256)
	defer queue.Close()
	dispatcher := services.NewDurationUpdateDispatcher(queue)

	consumer := services.NewDurationUpdateConsumer(queue, propagation)
	consumer.OnError(func(err error) {
		if rollbar.Token() != "" {
			rollbar.Error(err)
		}
	})
	consumer.OnPropagated(func(msg services.DurationUpdateMessage, formationID uuid.UUID) {
		room := ""
		if formationID != uuid.Nil {
			room = formationID.String()
		}
		ws.SendDurationUpdate(string(msg.EntityType), msg.EntityID.String(), msg.Operation, room)
	})
	go consumer.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, config.DB, dispatcher, calc, store)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Formation server is running")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}
