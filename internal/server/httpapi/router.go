package httpapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// BasePath prefixes every API route.
const BasePath = "/api"

// Router builds the gin engine with all routes and middleware.
func (a *API) Router() *gin.Engine {
	engine := gin.New()
	engine.MaxMultipartMemory = MaxUploadSize
	// route on the escaped path so "%2F" inside a category stays in one segment
	engine.UseRawPath = true
	engine.UnescapePathValues = true

	engine.Use(a.requestLogger())
	engine.Use(gin.CustomRecovery(a.recovered))
	engine.Use(cors.New(corsConfig(a.opts.FrontendURL)))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	api := engine.Group(BasePath)
	api.GET("/health", a.health)

	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("", a.rateLimit())
		limited.POST("/signup", a.signup)
		limited.POST("/verify-email", a.verifyEmail)
		limited.POST("/login", a.login)
		limited.POST("/forgot-password", a.forgotPassword)
		limited.POST("/reset-password", a.resetPassword)

		authGroup.GET("/me", a.requireAuth(), a.me)
		authGroup.PUT("/profile", a.requireAuth(), a.updateProfile)
	}

	admin := []gin.HandlerFunc{a.requireAuth(), requireRole(common.RoleAdmin)}

	products := api.Group("/products")
	{
		products.GET("", a.listProducts)
		products.GET("/category/:category", a.listProductsByCategory)
		products.GET("/:id", a.getProduct)
		products.POST("", append(admin, a.createProduct)...)
		products.PUT("/:id", append(admin, a.updateProduct)...)
		products.DELETE("/:id", append(admin, a.deleteProduct)...)
	}

	settings := api.Group("/settings")
	{
		settings.GET("/home", a.getHomeSettings)
		settings.GET("/about", a.getAboutSettings)
		settings.PUT("/home", append(admin, a.updateHomeSettings)...)
		settings.PUT("/about", append(admin, a.updateAboutSettings)...)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return engine
}

func corsConfig(frontendURL string) cors.Config {
	frontend := strings.TrimRight(frontendURL, "/")
	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return isLocalOrigin(origin) || (frontend != "" && origin == frontend)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
