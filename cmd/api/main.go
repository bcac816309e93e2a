package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"animehub/internal/config"
	"animehub/internal/domain/model"
	"animehub/internal/handler"
	"animehub/internal/infra/db"
	"animehub/internal/infra/payment"
	infraRepo "animehub/internal/infra/repository"
	"animehub/internal/usecase"

	"github.com/caarlos0/env/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

func (i *jwtIssuer) Issue(user model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

func main() {
	//.envがあれば読む（本番では無くてよい）
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found (ok in prod)")
	}

	cfg := config.Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentTransaction{},
		&model.Review{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentTransactionGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	issuer := &jwtIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    30 * 24 * time.Hour,
	}

	//外部チェックアウトプロバイダ
	stripeClient := payment.NewStripeClient(cfg.Stripe)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, issuer, idGen, clock)
	productUC := usecase.NewProductUsecase(productRepo, idGen, clock)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo, idGen)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, userRepo, idGen, clock)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, cartItemRepo, productRepo, paymentRepo, stripeClient, idGen)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	reviewH := handler.NewReviewHandler(reviewUC)
	orderH := handler.NewOrderHandler(orderUC)
	paymentH := handler.NewPaymentHandler(checkoutUC)
	adminH := handler.NewAdminHandler(orderUC, authUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	api := e.Group("/api")
	authH.RegisterRoutes(api, cfg)
	productH.RegisterRoutes(api, cfg)
	cartH.RegisterRoutes(api, cfg)
	reviewH.RegisterRoutes(api, cfg)
	orderH.RegisterRoutes(api, cfg)
	paymentH.RegisterRoutes(api, cfg)
	adminH.RegisterRoutes(api, cfg)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	//SIGTERM/SIGINTでgraceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
