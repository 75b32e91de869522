package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/api/controllers"
	"backoffice/internal/config"
	"backoffice/internal/services"
	"backoffice/pkg/middleware"
	"backoffice/pkg/observability"
	"backoffice/pkg/rbac"
)

type RouterParams struct {
	fx.In

	Config  *config.Config
	Logger  *zerolog.Logger
	Metrics *observability.Metrics

	Accounts    services.AccountServiceInterface
	Permissions services.PermissionServiceInterface
	Audit       services.AuditServiceInterface

	Account      *controllers.AccountController
	OAuth        *controllers.OAuthController
	User         *controllers.UserController
	Role         *controllers.RoleController
	Setting      *controllers.SettingController
	Plan         *controllers.PlanController
	Subscription *controllers.SubscriptionController
	Payment      *controllers.PaymentController
	Transaction  *controllers.TransactionController
	AuditLog     *controllers.AuditLogController
	Email        *controllers.EmailController
	Notification *controllers.NotificationController
	Device       *controllers.DeviceController
	Mobile       *controllers.MobileController
	Dashboard    *controllers.DashboardController
	Health       *controllers.HealthController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.Metrics(p.Metrics))
	r.Use(middleware.CORSMiddleware(p.Config.AllowedOrigins()))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.JWTAuthMiddleware(p.Accounts)
	perm := func(perms ...string) gin.HandlerFunc {
		return middleware.RequirePermission(p.Permissions, perms...)
	}
	audit := func(action, entityType string) gin.HandlerFunc {
		return middleware.Audit(p.Audit, action, entityType)
	}

	r.GET("/health", p.Health.Health)
	r.GET("/metrics", p.Health.Metrics)

	// auth
	r.POST("/register", p.Account.Register)
	r.POST("/login", p.Account.Login)
	r.POST("/social-login", p.Account.SocialLogin)
	r.POST("/forgot-password", p.Account.ForgotPassword)
	r.POST("/reset-password", p.Account.ResetPassword)
	r.POST("/change-password", auth, p.Account.ChangePassword)
	r.GET("/auth/google", p.OAuth.GoogleLogin)
	r.GET("/auth/google/callback", p.OAuth.GoogleCallback)

	// users
	users := r.Group("/users", auth)
	users.GET("", perm(rbac.UserRead), p.User.ListUsers)
	users.GET("/:id", perm(rbac.UserRead), p.User.GetUser)
	users.POST("", perm(rbac.UserCreate), audit("USER_CREATE", "user"), p.User.CreateUser)
	users.PUT("/:id", perm(rbac.UserUpdate), audit("USER_UPDATE", "user"), p.User.UpdateUser)
	users.DELETE("/:id", perm(rbac.UserDelete), audit("USER_DELETE", "user"), p.User.DeleteUser)
	users.PATCH("/:id/status", perm(rbac.UserStatusUpdate), audit("USER_STATUS_UPDATE", "user"), p.User.UpdateStatus)
	users.PATCH("/:id/suspend", perm(rbac.UserSuspend), audit("USER_SUSPEND", "user"), p.User.Suspend)
	users.PATCH("/:id/ban", perm(rbac.UserBan), audit("USER_BAN", "user"), p.User.Ban)
	users.PATCH("/:id/activate", perm(rbac.UserActivate), audit("USER_ACTIVATE", "user"), p.User.Activate)
	users.GET("/:id/login-history", perm(rbac.UserRead), p.User.LoginHistory)
	users.POST("/bulk/status", perm(rbac.BulkOperations), audit("USER_BULK_STATUS_UPDATE", "user"), p.User.BulkUpdateStatus)
	users.POST("/bulk/email", perm(rbac.BulkOperations), p.User.BulkEmail)

	r.GET("/profile", auth, perm(rbac.ProfileRead), p.User.Profile)
	r.GET("/preferences", auth, p.User.GetPreferences)
	r.PUT("/preferences", auth, p.User.UpdatePreferences)
	r.DELETE("/my-account", auth, p.User.DeleteMyAccount)

	// roles and permissions
	roles := r.Group("/roles", auth)
	roles.GET("", perm(rbac.RoleRead), p.Role.ListRoles)
	roles.GET("/:id", perm(rbac.RoleRead), p.Role.GetRole)
	roles.POST("", perm(rbac.RoleCreate), p.Role.CreateRole)
	roles.PUT("/:id", perm(rbac.RoleUpdate), p.Role.UpdateRole)
	roles.DELETE("/:id", perm(rbac.RoleDelete), p.Role.DeleteRole)
	r.GET("/permissions", auth, perm(rbac.PermissionRead), p.Role.ListPermissions)

	// settings and waiting list
	r.GET("/settings/general", p.Setting.General)
	r.PUT("/settings/general", auth, perm(rbac.Admin), p.Setting.UpdateGeneral)
	r.GET("/settings/waiting-page-status", p.Setting.WaitingPageStatus)
	r.POST("/settings/waiting-page-status", auth, perm(rbac.Admin), p.Setting.SetWaitingPageStatus)

	r.POST("/waiting-list", p.Setting.JoinWaitingList)
	waiting := r.Group("/waiting-list", auth)
	waiting.GET("", perm(rbac.UserRead), p.Setting.ListWaitingList)
	waiting.GET("/stats", perm(rbac.UserRead), p.Setting.WaitingListStats)
	waiting.POST("/bulk-email", perm(rbac.BulkOperations), p.Setting.WaitingListBulkEmail)
	waiting.DELETE("/:id", perm(rbac.UserDelete), p.Setting.RemoveWaitingListEntry)

	// plans
	r.GET("/getPlans", p.Plan.PublicPlans)
	plans := r.Group("/plans", auth)
	plans.GET("", perm(rbac.PlanRead), p.Plan.ListPlans)
	plans.GET("/:id", perm(rbac.PlanRead), p.Plan.GetPlan)
	plans.POST("", perm(rbac.PlanCreate), p.Plan.CreatePlan)
	plans.PUT("/:id", perm(rbac.PlanUpdate), p.Plan.UpdatePlan)
	plans.DELETE("/:id", perm(rbac.PlanDelete), p.Plan.DeletePlan)

	// subscriptions and billing
	subs := r.Group("/subscriptions", auth)
	subs.GET("", perm(rbac.SubscriptionRead), p.Subscription.ListSubscriptions)
	subs.GET("/:id", perm(rbac.SubscriptionRead), p.Subscription.GetSubscription)
	subs.POST("", perm(rbac.SubscriptionCreate), p.Subscription.CreateSubscription)
	subs.PUT("/:id", perm(rbac.SubscriptionUpdate), p.Subscription.UpdateSubscription)
	subs.DELETE("/:id", perm(rbac.SubscriptionDelete), p.Subscription.DeleteSubscription)
	subs.POST("/:id/cancel", perm(rbac.SubscriptionCancel), audit("SUBSCRIPTION_CANCEL", "subscription"), p.Subscription.CancelSubscription)
	subs.POST("/revenuecat/sync", p.Subscription.SyncRevenueCat)
	subs.GET("/revenuecat/my", p.Subscription.MyMobileSubscription)

	r.POST("/create-checkout-session", auth, p.Payment.CreateCheckoutSession)
	r.POST("/webhooks/stripe", p.Payment.StripeWebhook)
	r.POST("/webhook", p.Payment.StripeWebhook)
	r.POST("/webhooks/revenuecat", p.Payment.RevenueCatWebhook)

	// email templates
	templates := r.Group("/email-templates", auth)
	templates.GET("", p.Email.ListTemplates)
	templates.GET("/:id", p.Email.GetTemplate)
	templates.POST("", p.Email.CreateTemplate)
	templates.PUT("/:id", p.Email.UpdateTemplate)
	templates.DELETE("/:id", p.Email.DeleteTemplate)

	// devices
	r.POST("/devices", auth, p.Device.Register)

	// mobile runtime, client side
	r.GET("/app-versions/latest/:platform", p.Mobile.LatestVersion)
	r.GET("/app-versions/check-update", p.Mobile.CheckUpdate)
	r.GET("/feature-flags", auth, p.Mobile.ClientFlags)
	r.GET("/remote-configs", auth, p.Mobile.ClientConfigs)

	registerAdminRoutes(r.Group("/admin", auth), p, perm)
}

func registerAdminRoutes(admin *gin.RouterGroup, p RouterParams, perm func(...string) gin.HandlerFunc) {
	analytics := admin.Group("/analytics", perm(rbac.AnalyticsRead))
	analytics.GET("/dashboard", p.Dashboard.GetDashboard)
	analytics.GET("/revenue", p.Dashboard.RevenueAnalytics)
	analytics.GET("/user-growth", p.Dashboard.UserGrowth)

	logs := admin.Group("/audit-logs", perm(rbac.AuditLogRead))
	logs.GET("", p.AuditLog.ListLogs)
	logs.GET("/stats", p.AuditLog.Stats)
	logs.GET("/user/:userId", p.AuditLog.UserLogs)
	logs.GET("/:id", p.AuditLog.GetLog)

	txns := admin.Group("/transactions")
	txns.GET("", perm(rbac.TransactionRead), p.Transaction.ListTransactions)
	txns.GET("/stats", perm(rbac.TransactionRead), p.Transaction.Stats)
	txns.GET("/:id", perm(rbac.TransactionRead), p.Transaction.GetTransaction)
	txns.POST("/:id/refund", perm(rbac.TransactionRefund), p.Transaction.Refund)

	emailLogs := admin.Group("/email-logs", perm(rbac.EmailLogRead))
	emailLogs.GET("", p.Email.ListLogs)
	emailLogs.GET("/stats", p.Email.LogStats)
	emailLogs.GET("/:id", p.Email.GetLog)
	emailLogs.POST("/:id/resend", p.Email.Resend)

	notifications := admin.Group("/notifications", perm(rbac.NotificationRead))
	notifications.GET("", p.Notification.ListNotifications)
	notifications.GET("/stats", p.Notification.Stats)
	notifications.GET("/:id", p.Notification.GetNotification)
	notifications.POST("", p.Notification.CreateNotification)
	notifications.POST("/bulk", p.Notification.BulkCreate)
	notifications.PATCH("/:id/read", p.Notification.MarkRead)
	notifications.PATCH("/user/:userId/read-all", p.Notification.MarkAllRead)
	notifications.DELETE("/:id", p.Notification.DeleteNotification)

	pushes := admin.Group("/push-notifications")
	pushes.GET("", perm(rbac.PushNotificationRead), p.Notification.ListPushes)
	pushes.GET("/stats", perm(rbac.PushNotificationRead), p.Notification.PushStats)
	pushes.GET("/:id", perm(rbac.PushNotificationRead), p.Notification.GetPush)
	pushes.POST("", perm(rbac.PushNotificationSend), p.Notification.SendPush)
	pushes.POST("/bulk", perm(rbac.PushNotificationSend), p.Notification.SendBulkPush)

	devices := admin.Group("/devices")
	devices.GET("", perm(rbac.DeviceRead), p.Device.ListDevices)
	devices.GET("/stats", perm(rbac.DeviceRead), p.Device.Stats)
	devices.GET("/:id", perm(rbac.DeviceRead), p.Device.GetDevice)
	devices.POST("/:id/ban", perm(rbac.DeviceBan), p.Device.Ban)
	devices.POST("/:id/unban", perm(rbac.DeviceBan), p.Device.Unban)
	devices.DELETE("/:id", perm(rbac.DeviceRead), p.Device.DeleteDevice)

	byUser := admin.Group("/users/:userId")
	byUser.GET("/transactions", perm(rbac.TransactionRead), p.Transaction.UserTransactions)
	byUser.GET("/email-logs", perm(rbac.EmailLogRead), p.Email.UserLogs)
	byUser.GET("/notifications", perm(rbac.NotificationRead), p.Notification.UserNotifications)
	byUser.GET("/devices", perm(rbac.DeviceRead), p.Device.UserDevices)

	versions := admin.Group("/app-versions")
	versions.GET("", perm(rbac.AppVersionCreate), p.Mobile.ListVersions)
	versions.GET("/:id", perm(rbac.AppVersionCreate), p.Mobile.GetVersion)
	versions.POST("", perm(rbac.AppVersionCreate), p.Mobile.CreateVersion)
	versions.PUT("/:id", perm(rbac.AppVersionUpdate), p.Mobile.UpdateVersion)
	versions.DELETE("/:id", perm(rbac.AppVersionDelete), p.Mobile.DeleteVersion)

	flags := admin.Group("/feature-flags")
	flags.GET("", perm(rbac.FeatureFlagCreate), p.Mobile.ListFlags)
	flags.GET("/:id", perm(rbac.FeatureFlagCreate), p.Mobile.GetFlag)
	flags.POST("", perm(rbac.FeatureFlagCreate), p.Mobile.CreateFlag)
	flags.PUT("/:id", perm(rbac.FeatureFlagUpdate), p.Mobile.UpdateFlag)
	flags.POST("/:id/toggle", perm(rbac.FeatureFlagToggle), p.Mobile.ToggleFlag)
	flags.DELETE("/:id", perm(rbac.FeatureFlagDelete), p.Mobile.DeleteFlag)

	configs := admin.Group("/remote-configs")
	configs.GET("", perm(rbac.RemoteConfigUpdate), p.Mobile.ListConfigs)
	configs.GET("/:id", perm(rbac.RemoteConfigRead), p.Mobile.GetConfig)
	configs.POST("", perm(rbac.RemoteConfigUpdate), p.Mobile.CreateConfig)
	configs.PUT("/:id", perm(rbac.RemoteConfigUpdate), p.Mobile.UpdateConfig)
	configs.DELETE("/:id", perm(rbac.RemoteConfigUpdate), p.Mobile.DeleteConfig)
}
