package main

import (
	"context"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/hallvardkul/RateMate-Backend/config"
	"github.com/hallvardkul/RateMate-Backend/database"
	"github.com/hallvardkul/RateMate-Backend/handlers"
	"github.com/hallvardkul/RateMate-Backend/services"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.InitializeTables(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize tables")
	}

	mongoClient, err := database.ConnectMongo(config.AppConfig.MongoURI)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	mediaCollection := mongoClient.
		Database(config.AppConfig.MongoDatabase).
		Collection(config.AppConfig.MongoCollection)

	cld, err := cloudinary.NewFromURL(config.AppConfig.CloudinaryURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize Cloudinary")
	}

	commentService := services.NewCommentService(db.DB)
	reviewService := services.NewReviewService(db.DB)
	ratingService := services.NewRatingService(db.DB, commentService)
	mediaService := services.NewMediaService(db.DB, mediaCollection, cld)

	handlers.InitializeHandlers(db, reviewService, commentService, ratingService, mediaService)

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
	router.Use(handlers.RateLimitMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "RateMate backend is running",
		})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/validate", handlers.AuthMiddleware(), handlers.ValidateToken)
		}

		brandAuth := api.Group("/brands/auth")
		{
			brandAuth.POST("/register", handlers.RegisterBrand)
			brandAuth.POST("/login", handlers.LoginBrand)
		}

		public := api.Group("/public")
		{
			public.GET("/products", handlers.GetPublicProducts)
			public.GET("/products/categories", handlers.GetPublicProductCategories)
			public.GET("/products/:productId", handlers.GetPublicProduct)
			public.GET("/products/:productId/media", handlers.GetPublicProductMedia)
			public.GET("/brands", handlers.GetPublicBrands)
			public.GET("/brands/:brandId", handlers.GetPublicBrand)
		}

		api.GET("/dashboard/products/:productId", handlers.GetProductDashboard)

		products := api.Group("/products")
		{
			products.GET("", handlers.GetProducts)
			products.GET("/:id", handlers.GetProduct)
			products.POST("", handlers.AuthMiddleware(), handlers.CreateProduct)
			products.PUT("/:id", handlers.AuthMiddleware(), handlers.UpdateProduct)
			products.DELETE("/:id", handlers.AuthMiddleware(), handlers.DeleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", handlers.GetCategories)
			categories.GET("/:id", handlers.GetCategory)
			categories.GET("/:id/subcategories", handlers.GetCategorySubcategories)
			categories.POST("", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.CreateCategory)
			categories.PUT("/:id", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.UpdateCategory)
			categories.DELETE("/:id", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.DeleteCategory)
		}

		subcategories := api.Group("/subcategories")
		{
			subcategories.GET("", handlers.GetSubcategories)
			subcategories.GET("/:id", handlers.GetSubcategory)
			subcategories.POST("", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.CreateSubcategory)
			subcategories.PUT("/:id", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.UpdateSubcategory)
			subcategories.DELETE("/:id", handlers.AuthMiddleware(), handlers.AdminMiddleware(), handlers.DeleteSubcategory)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("", handlers.GetReviews)
			reviews.GET("/categories", handlers.GetRatingCategories)
			reviews.GET("/:id", handlers.GetReview)
			reviews.POST("", handlers.AuthMiddleware(), handlers.CreateReview)
			reviews.PUT("/:id", handlers.AuthMiddleware(), handlers.UpdateReview)
			reviews.DELETE("/:id", handlers.AuthMiddleware(), handlers.DeleteReview)
		}

		comments := api.Group("/comments")
		{
			comments.GET("", handlers.GetComments)
			comments.GET("/:id", handlers.GetComment)
			comments.POST("", handlers.AuthMiddleware(), handlers.CreateComment)
			comments.PUT("/:id", handlers.AuthMiddleware(), handlers.UpdateComment)
			comments.DELETE("/:id", handlers.AuthMiddleware(), handlers.DeleteComment)
		}

		users := api.Group("/users")
		users.Use(handlers.AuthMiddleware())
		{
			users.GET("/profile", handlers.GetUserProfile)
			users.PUT("/profile", handlers.UpdateUserProfile)
			users.GET("/reviews", handlers.GetUserReviews)
		}

		media := api.Group("/media")
		{
			media.GET("", handlers.GetMedia)
			media.POST("", handlers.AuthMiddleware(), handlers.UploadMedia)
			media.PATCH("/:id", handlers.AuthMiddleware(), handlers.UpdateMedia)
			media.DELETE("/:id", handlers.AuthMiddleware(), handlers.DeleteMedia)
		}

		brands := api.Group("/brands")
		brands.Use(handlers.BrandAuthMiddleware())
		{
			brands.GET("/profile", handlers.GetBrandProfile)
			brands.GET("/dashboard", handlers.GetBrandDashboard)
			brands.GET("/dashboard/products", handlers.GetBrandProducts)
			brands.POST("/products", handlers.CreateBrandProduct)
			brands.PUT("/products/:productId", handlers.UpdateBrandProduct)
			brands.GET("/products/:productId/reviews", handlers.GetBrandProductReviews)
			brands.POST("/products/:productId/media", handlers.UploadBrandProductMedia)
			brands.POST("/verification/submit", handlers.SubmitBrandVerification)
			brands.GET("/verification/status", handlers.GetBrandVerificationStatus)
		}

		admin := api.Group("/admin")
		admin.Use(handlers.AuthMiddleware(), handlers.AdminMiddleware())
		{
			admin.GET("/brands/verification/pending", handlers.GetPendingVerifications)
			admin.POST("/brands/verification/process", handlers.ProcessBrandVerification)
		}
	}

	addr := "0.0.0.0:" + config.AppConfig.ServerPort
	logrus.WithField("addr", addr).Info("starting RateMate backend")
	if err := http.ListenAndServe(addr, corsHandler.Handler(router)); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
