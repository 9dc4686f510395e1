package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/controllers"
	"github.com/yeremiapane/coffee-order-app/middlewares"
	"github.com/yeremiapane/coffee-order-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Services
	walletSvc := services.NewWalletService(db)
	if gw := services.GetTopUpGateway(); gw != nil {
		walletSvc.UseGateway(gw)
	}
	codeSvc := services.NewPaymentCodeService(db)
	orderSvc := services.NewOrderService(db, walletSvc)
	cartSvc := services.NewCartService(db)
	reservationSvc := services.NewReservationService(db)

	// Controllers
	userCtrl := controllers.NewUserController(db)
	menuCtrl := controllers.NewMenuController(db)
	cartCtrl := controllers.NewCartController(cartSvc, orderSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	walletCtrl := controllers.NewWalletController(walletSvc, codeSvc, services.GetTopUpGateway())
	reservationCtrl := controllers.NewReservationController(reservationSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Menu browsing needs no session
	r.GET("/categories", menuCtrl.GetAllCategories)
	r.GET("/products", menuCtrl.GetAllProducts)
	r.GET("/products/by-category", menuCtrl.GetProductsByCategory)

	// Mobile-money provider callback (signature-verified, no session)
	r.POST("/wallet/topup/callback", walletCtrl.HandleTopUpCallback)

	// Realtime events; token arrives as a query parameter
	events := r.Group("/events")
	events.Use(middlewares.WebSocketAuthMiddleware())
	events.GET("/ws", controllers.EventsHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)

	// MENU (staff/admin writes)
	api.POST("/categories", menuCtrl.CreateCategory)
	api.POST("/products", menuCtrl.CreateProduct)

	// CART
	api.GET("/cart", cartCtrl.GetCart)
	api.POST("/cart/items", cartCtrl.AddItem)
	api.DELETE("/cart/items", cartCtrl.RemoveItem)
	api.POST("/cart/checkout", cartCtrl.Checkout)

	// ORDERS
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders", orderCtrl.GetMyOrders)
	api.GET("/orders/:order_ref", orderCtrl.GetOrderByRef)
	api.POST("/orders/:order_ref/cancel", orderCtrl.CancelOrder)

	// SETTLEMENT (staff terminal; rate limited against code guessing)
	api.POST("/orders/settle", middlewares.NewSettlementRateLimiter(), orderCtrl.SettleOrder)

	// Staff board
	api.GET("/staff/orders", orderCtrl.GetActiveOrders)
	api.PATCH("/staff/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	api.POST("/staff/orders/:order_id/refund", orderCtrl.RefundOrder)
	api.POST("/staff/orders/:order_id/fail", orderCtrl.FailOrder)

	// WALLET
	api.GET("/wallet", walletCtrl.GetBalance)
	api.POST("/wallet/topup", walletCtrl.TopUp)
	api.GET("/wallet/transactions", walletCtrl.GetTransactions)
	api.POST("/wallet/payment-code", walletCtrl.GeneratePaymentCode)

	// RESERVATIONS
	api.POST("/reservations", reservationCtrl.CreateReservation)
	api.GET("/reservations", reservationCtrl.GetMyReservations)
	api.POST("/reservations/:reservation_id/check-in", reservationCtrl.CheckIn)
	api.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

	return r
}
