package rbac

// Permission names checked by the router.
const (
	UserCreate       = "USER_CREATE"
	UserRead         = "USER_READ"
	UserUpdate       = "USER_UPDATE"
	UserDelete       = "USER_DELETE"
	PermissionCreate = "PERMISSION_CREATE"
	PermissionRead   = "PERMISSION_READ"
	PermissionUpdate = "PERMISSION_UPDATE"
	PermissionDelete = "PERMISSION_DELETE"
	RoleCreate       = "ROLE_CREATE"
	RoleRead         = "ROLE_READ"
	RoleUpdate       = "ROLE_UPDATE"
	RoleDelete       = "ROLE_DELETE"
	Admin            = "ADMIN"
	Member           = "MEMBER"
	ProfileRead      = "PROFILE_READ"

	SubscriptionRead   = "SUBSCRIPTION_READ"
	SubscriptionCreate = "SUBSCRIPTION_CREATE"
	SubscriptionUpdate = "SUBSCRIPTION_UPDATE"
	SubscriptionDelete = "SUBSCRIPTION_DELETE"
	SubscriptionCancel = "SUBSCRIPTION_CANCEL"
	PlanRead           = "PLAN_READ"
	PlanCreate         = "PLAN_CREATE"
	PlanUpdate         = "PLAN_UPDATE"
	PlanDelete         = "PLAN_DELETE"

	AnalyticsRead     = "ANALYTICS_READ"
	AuditLogRead      = "AUDIT_LOG_READ"
	TransactionRead   = "TRANSACTION_READ"
	TransactionRefund = "TRANSACTION_REFUND"
	EmailLogRead      = "EMAIL_LOG_READ"
	NotificationRead  = "NOTIFICATION_READ"

	UserSuspend      = "USER_SUSPEND"
	UserBan          = "USER_BAN"
	UserStatusUpdate = "USER_STATUS_UPDATE"
	UserActivate     = "USER_ACTIVATE"
	BulkOperations   = "BULK_OPERATIONS"

	PushNotificationSend = "PUSH_NOTIFICATION_SEND"
	PushNotificationRead = "PUSH_NOTIFICATION_READ"
	DeviceRead           = "DEVICE_READ"
	DeviceBan            = "DEVICE_BAN"
	AppVersionCreate     = "APP_VERSION_CREATE"
	AppVersionUpdate     = "APP_VERSION_UPDATE"
	AppVersionDelete     = "APP_VERSION_DELETE"
	FeatureFlagCreate    = "FEATURE_FLAG_CREATE"
	FeatureFlagUpdate    = "FEATURE_FLAG_UPDATE"
	FeatureFlagDelete    = "FEATURE_FLAG_DELETE"
	FeatureFlagToggle    = "FEATURE_FLAG_TOGGLE"
	RemoteConfigUpdate   = "REMOTE_CONFIG_UPDATE"
	RemoteConfigRead     = "REMOTE_CONFIG_READ"
	AnnouncementCreate   = "ANNOUNCEMENT_CREATE"
	AnnouncementUpdate   = "ANNOUNCEMENT_UPDATE"
	AnnouncementDelete   = "ANNOUNCEMENT_DELETE"
	MobileAnalyticsRead  = "MOBILE_ANALYTICS_READ"
	CrashReportRead      = "CRASH_REPORT_READ"
)

type CatalogEntry struct {
	Name        string
	Description string
}

// Catalog is the seeded permission set, in display order.
var Catalog = []CatalogEntry{
	{UserCreate, "Create a new user"},
	{UserRead, "Read user details"},
	{UserUpdate, "Update user details"},
	{UserDelete, "Delete a user"},
	{PermissionCreate, "Create a new permission"},
	{PermissionRead, "Read permission details"},
	{PermissionUpdate, "Update permission details"},
	{PermissionDelete, "Delete a permission"},
	{RoleCreate, "Create a new role"},
	{RoleRead, "Read role details"},
	{RoleUpdate, "Update role details"},
	{RoleDelete, "Delete a role"},
	{Admin, "Admin"},
	{Member, "Member"},
	{ProfileRead, "Read user profile"},
	{SubscriptionRead, "Read subscriptions"},
	{SubscriptionCreate, "Create a new subscription"},
	{SubscriptionUpdate, "Update a subscription"},
	{SubscriptionDelete, "Delete a subscription"},
	{PlanRead, "Read plan details"},
	{PlanCreate, "Create a new plan"},
	{PlanUpdate, "Update a plan"},
	{PlanDelete, "Delete a plan"},
	{AnalyticsRead, "Read analytics and dashboard statistics"},
	{AuditLogRead, "Read audit logs"},
	{TransactionRead, "Read transaction details"},
	{TransactionRefund, "Process refunds"},
	{EmailLogRead, "Read email logs"},
	{NotificationRead, "Read notifications"},
	{UserSuspend, "Suspend user accounts"},
	{UserBan, "Ban user accounts"},
	{UserStatusUpdate, "Update user status"},
	{UserActivate, "Activate user accounts"},
	{SubscriptionCancel, "Cancel subscriptions"},
	{BulkOperations, "Perform bulk operations"},
	{PushNotificationSend, "Send push notifications"},
	{PushNotificationRead, "Read push notification history"},
	{DeviceRead, "Read device information"},
	{DeviceBan, "Ban devices"},
	{AppVersionCreate, "Create app versions"},
	{AppVersionUpdate, "Update app versions"},
	{AppVersionDelete, "Delete app versions"},
	{FeatureFlagCreate, "Create feature flags"},
	{FeatureFlagUpdate, "Update feature flags"},
	{FeatureFlagDelete, "Delete feature flags"},
	{FeatureFlagToggle, "Toggle feature flags"},
	{RemoteConfigUpdate, "Update remote config"},
	{RemoteConfigRead, "Read remote config"},
	{AnnouncementCreate, "Create announcements"},
	{AnnouncementUpdate, "Update announcements"},
	{AnnouncementDelete, "Delete announcements"},
	{MobileAnalyticsRead, "Read mobile analytics"},
	{CrashReportRead, "Read crash reports"},
}
