package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/Camden-Kirkpatrick/helpdesk-api/api"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/handler"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const pathSwagger = "/swagger"

func New(ticketHandler *handler.TicketHandler, log *zap.Logger) http.Handler {
	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	tickets := r.Group("/tickets")
	{
		tickets.POST("/", ticketHandler.Create)
		tickets.GET("/", ticketHandler.List)
		tickets.GET("/search", ticketHandler.Search)
		tickets.GET("/:id", ticketHandler.Get)
		tickets.PATCH("/:id", ticketHandler.Update)
		tickets.DELETE("/:id", ticketHandler.Delete)
	}

	return r
}
