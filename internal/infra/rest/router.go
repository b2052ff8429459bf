// Package rest exposes the services over HTTP with gin.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/app"
)

// MaxBodyBytes limits request bodies.
const MaxBodyBytes = 10 << 20

// Pinger reports datastore liveness for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services are the handlers' dependencies.
type Services struct {
	Employees   *app.EmployeeService
	Educations  *app.EducationService
	Levelings   *app.LevelingService
	Structures  *app.StructureService
	CareerNotes *app.CareerNoteService
	Activities  *app.ActivityService
	KGB         *app.KGBService
	Dashboard   *app.DashboardService
	DB          Pinger // optional
}

type RouterConfig struct {
	CORSOrigins []string
	Now         func() time.Time // optional, for the banner timestamp
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(svc Services, cfg RouterConfig, log *logrus.Entry) *gin.Engine {
	binding.Validator = structValidator{}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	router := gin.New()
	router.Use(
		recovery(log),
		requestLogger(log),
		observe(),
		corsPolicy(cfg.CORSOrigins),
		limitBody(MaxBodyBytes),
	)
	router.NoRoute(func(c *gin.Context) {
		writeError(c, app.WrapNotFound(nil, "Route "+c.Request.Method+" "+c.Request.URL.Path+" tidak ditemukan"))
	})

	router.GET("/", banner(cfg.Now))
	router.GET("/health", health(svc.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerDocs(router)

	emp := &employeeHandler{svc: svc.Employees, kgb: svc.KGB, dashboard: svc.Dashboard}
	pegawai := router.Group("/pegawai")
	{
		pegawai.POST("", emp.create)
		pegawai.GET("", emp.findAll)
		pegawai.GET("/count", emp.count)
		pegawai.GET("/dashboard/stats", emp.dashboardStats)
		pegawai.GET("/kgb/notifikasi", emp.dueNotifications)
		pegawai.GET("/kgb/proses", emp.processDue)
		pegawai.GET("/:nip", emp.findOne)
		pegawai.PUT("/:nip", emp.update)
		pegawai.DELETE("/:nip", emp.remove)
	}

	edu := &educationHandler{svc: svc.Educations}
	pendidikan := router.Group("/pendidikan")
	{
		pendidikan.POST("", edu.create)
		pendidikan.GET("", edu.findAll)
		pendidikan.GET("/count/all", edu.count)
		pendidikan.GET("/:id", edu.findOne)
		pendidikan.PUT("/:id", edu.update)
		pendidikan.DELETE("/:id", edu.remove)
	}

	lvl := &levelingHandler{svc: svc.Levelings}
	penjenjangan := router.Group("/penjenjangan")
	{
		penjenjangan.POST("", lvl.create)
		penjenjangan.GET("", lvl.findAll)
		penjenjangan.GET("/:id", lvl.findOne)
		penjenjangan.PUT("/:id", lvl.update)
		penjenjangan.DELETE("/:id", lvl.remove)
	}

	str := &structureHandler{svc: svc.Structures}
	struktur := router.Group("/struktur")
	{
		struktur.POST("", str.create)
		struktur.GET("", str.findAll)
		struktur.GET("/count", str.count)
		struktur.GET("/:id", str.findOne)
		struktur.PUT("/:id", str.update)
		struktur.DELETE("/:id", str.remove)
	}

	cn := &careerNoteHandler{svc: svc.CareerNotes, kgb: svc.KGB}
	catatan := router.Group("/catatan-karir")
	{
		catatan.POST("", cn.create)
		catatan.GET("", cn.findAll)
		catatan.GET("/cek/:nip", cn.checkEligibility)
		catatan.GET("/:id", cn.findOne)
		catatan.PUT("/:id", cn.update)
		catatan.DELETE("/:id", cn.remove)
	}

	router.GET("/aktivitas/terbaru", recentActivity(svc.Activities))

	return router
}

func banner(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "SISNOMPEG Admin Backend aktif",
			"status":    "running",
			"timestamp": now().UTC().Format(time.RFC3339),
		})
	}
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}

func recentActivity(svc *app.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		recent, err := svc.Recent(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, recent)
	}
}
