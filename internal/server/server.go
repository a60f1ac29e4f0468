package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/brandkit/brandkit/internal/auth"
	authdomain "github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/config"
	"github.com/brandkit/brandkit/internal/frequency"
	frequencydomain "github.com/brandkit/brandkit/internal/frequency/domain"
	"github.com/brandkit/brandkit/internal/kit"
	kitdomain "github.com/brandkit/brandkit/internal/kit/domain"
	"github.com/brandkit/brandkit/internal/observability"
	obsmiddleware "github.com/brandkit/brandkit/internal/observability/logger"
	obsmetrics "github.com/brandkit/brandkit/internal/observability/metrics"
	"github.com/brandkit/brandkit/internal/product"
	productdomain "github.com/brandkit/brandkit/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(NewEngine),
	auth.Module,
	product.Module,
	frequency.Module,
	kit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	authsvc       authdomain.Service
	productSvc    productdomain.Service
	frequencyRepo frequencydomain.Repository
	kitSvc        kitdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	Authsvc       authdomain.Service
	ProductSvc    productdomain.Service
	FrequencyRepo frequencydomain.Repository
	KitSvc        kitdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		authsvc:       p.Authsvc,
		productSvc:    p.ProductSvc,
		frequencyRepo: p.FrequencyRepo,
		kitSvc:        p.KitSvc,
	}

	svc.registerAuthRoutes()
	svc.registerCatalogRoutes()
	svc.registerKitRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	grp := s.engine.Group("/auth")

	grp.POST("/signup", s.SignUp)
	grp.POST("/login", s.Login)
	grp.GET("/me", AuthRequired(s.authsvc), s.Me)
}

func (s *Server) registerCatalogRoutes() {
	products := s.engine.Group("/products")
	products.GET("", s.ListProducts)
	products.GET("/:id", s.GetProductByID)
	products.POST("",
		AuthRequired(s.authsvc),
		RequireRole(authdomain.RoleSeller, authdomain.RoleAdmin),
		s.CreateProduct,
	)

	s.engine.GET("/delivery-frequencies", s.ListDeliveryFrequencies)
}

func (s *Server) registerKitRoutes() {
	kits := s.engine.Group("/kits")

	kits.GET("", s.ListKits)
	kits.POST("", AuthOptional(s.authsvc), s.CreateKit)

	// Static segment first so gin does not shadow it with :id.
	kits.GET("/my-subscriptions", AuthRequired(s.authsvc), s.ListMySubscriptions)

	kits.GET("/:id", s.GetKitSummary)
	kits.POST("/:id/items", AuthRequired(s.authsvc), s.AddKitItem)
	kits.PATCH("/:id/items/:productId", AuthRequired(s.authsvc), s.UpdateKitItemQuantity)
	kits.DELETE("/:id/items/:productId", AuthRequired(s.authsvc), s.RemoveKitItem)
	kits.PATCH("/:id/frequency", AuthRequired(s.authsvc), s.SetKitFrequency)
	kits.POST("/:id/confirm", AuthRequired(s.authsvc), s.ConfirmKit)
}
