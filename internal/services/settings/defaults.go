package settings

const (
	CategoryGeneral       = "general"
	CategoryNotifications = "notificaciones"
	CategoryWooCommerce   = "woocommerce"
)

// DefaultSettings is the initial configuration written by cmd/configinit.
func DefaultSettings() []Default {
	return []Default{
		{Key: "company_name", Value: "", Category: CategoryGeneral, Description: "Business name shown on documents"},
		{Key: "company_tax_id", Value: "", Category: CategoryGeneral, Description: "Tax identification number"},
		{Key: "currency", Value: "EUR", Category: CategoryGeneral, Description: "Currency for part prices"},
		{Key: "vat_rate", Value: 21, Category: CategoryGeneral, Description: "VAT percentage applied to sales"},
		{Key: "items_per_page", Value: 20, Category: CategoryGeneral, Description: "Default page size for listings"},
		{Key: "email_enabled", Value: false, Category: CategoryNotifications, Description: "Send e-mail notifications"},
		{Key: "notification_email", Value: "", Category: CategoryNotifications, Description: "Recipient of notifications"},
		{Key: "low_stock_alert", Value: true, Category: CategoryNotifications, Description: "Warn when a part runs out of stock"},
		{Key: "url", Value: "", Category: CategoryWooCommerce, Description: "WooCommerce store URL"},
		{Key: "consumer_key", Value: "", Category: CategoryWooCommerce, Description: "WooCommerce REST API consumer key"},
		{Key: "consumer_secret", Value: "", Category: CategoryWooCommerce, Description: "WooCommerce REST API consumer secret"},
		{Key: "version", Value: "wc/v3", Category: CategoryWooCommerce, Description: "WooCommerce REST API version"},
		{Key: "webhook_secret", Value: "", Category: CategoryWooCommerce, Description: "Secret of the WooCommerce product webhooks"},
		{Key: "sync_enabled", Value: false, Category: CategoryWooCommerce, Description: "Publish parts to the shop automatically"},
	}
}
