package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/highimexy/Bugly/internal/api/http"
	"github.com/highimexy/Bugly/internal/api/http/middleware"
	"github.com/highimexy/Bugly/internal/auth"
	"github.com/highimexy/Bugly/internal/tracker/cache"
	trackerhttp "github.com/highimexy/Bugly/internal/tracker/http"
	"github.com/highimexy/Bugly/internal/tracker/repository"
)

type RouterDeps struct {
	ServiceName   string
	Version       string
	JWTSecret     string
	TokenTTL      time.Duration
	ShareCacheTTL time.Duration
	DB            *pgxpool.Pool
	Redis         *redis.Client // nil disables the share cache
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	userRepo := auth.NewUserRepo(dep.DB)
	loginHandler := auth.NewHandler(userRepo, dep.JWTSecret, dep.TokenTTL)
	api.POST("/login", middleware.RateLimit(rate.Limit(5), 10), loginHandler.Login)

	var projectCache *cache.ProjectCache
	if dep.Redis != nil {
		projectCache = cache.New(dep.Redis, dep.ShareCacheTTL)
	}

	trackerRepo := repository.NewRepo(dep.DB)
	trackerHandler := trackerhttp.NewHandler(trackerRepo, projectCache)
	trackerHandler.Register(api, auth.Middleware(dep.JWTSecret))

	return r
}
