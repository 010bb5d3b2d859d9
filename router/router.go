package router

import (
	"github.com/Martyparty1988/Workmm/api"
	"github.com/Martyparty1988/Workmm/config"
	"github.com/Martyparty1988/Workmm/middleware"
	"github.com/Martyparty1988/Workmm/realtime"
	"github.com/Martyparty1988/Workmm/service"
	"github.com/Martyparty1988/Workmm/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps bundles what the routes need; the hub and engine are injected so no
// handler reaches for ambient globals.
type Deps struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *logrus.Logger
	Hub *realtime.Hub
}

// SetupRouter wires middlewares, handlers and routes.
func SetupRouter(d Deps) *gin.Engine {
	gin.SetMode(d.Cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())
	r.Use(middleware.Metrics())

	st := store.New(d.DB)
	engine := service.NewEngine(d.DB, st, &d.Cfg.Settlement, d.Log)
	timers := service.NewTimerService(d.DB, st, engine, &d.Cfg.Settlement, d.Log)

	workLogHandler := api.NewWorkLogHandler(engine, st, d.Hub)
	financeHandler := api.NewFinanceHandler(engine, st, d.Hub)
	debtHandler := api.NewDebtHandler(engine, st, d.Hub)
	timerHandler := api.NewTimerHandler(timers, d.Hub)
	exportHandler := api.NewExportHandler(st)
	wsHandler := api.NewWSHandler(d.Hub, d.Log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// The socket authenticates via its token query parameter.
		v1.GET("/ws", wsHandler.Serve)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			workLogs := authorized.Group("/work-logs")
			{
				workLogs.GET("", workLogHandler.List)
				workLogs.POST("", workLogHandler.Create)
				workLogs.GET("/earnings/today", workLogHandler.TodayEarnings)
				workLogs.PUT("/:id", workLogHandler.Update)
				workLogs.DELETE("/:id", workLogHandler.Delete)
			}

			finances := authorized.Group("/finances")
			{
				finances.GET("", financeHandler.List)
				finances.POST("", financeHandler.Create)
				finances.GET("/balance", financeHandler.Balance)
				finances.DELETE("/:id", financeHandler.Delete)
			}

			debts := authorized.Group("/debts")
			{
				debts.GET("", debtHandler.List)
				debts.POST("", debtHandler.Create)
				debts.PUT("/:id", debtHandler.Update)
				debts.POST("/:id/payment", debtHandler.Pay)
				debts.DELETE("/:id", debtHandler.Delete)
			}

			timer := authorized.Group("/timer")
			{
				timer.GET("/:person", timerHandler.State)
				timer.POST("/:person/start", timerHandler.Start)
				timer.POST("/:person/stop", timerHandler.Stop)
			}

			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	return r
}

// CORSMiddleware opens the API to the browser client.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Connection-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
