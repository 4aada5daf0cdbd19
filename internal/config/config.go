package config

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"

	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
)

type Config struct {
	AppPort  string
	MySQLDSN string

	MigrationsPath string

	JWTSecret string

	GatewayBaseURL string
	GatewayKeyID   string
	GatewaySecret  string
	Currency       string

	KafkaBrokers      []string
	NotificationTopic string

	DeliveryRule domproduct.DeliveryRule
}

func Load() Config {
	return Config{
		AppPort:  getenv("APP_PORT", "8080"),
		MySQLDSN: getenv("MYSQL_DSN", "user:pass@tcp(mysql:3306)/storedb?parseTime=true"),

		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret: getenv("JWT_SECRET", "dev-secret"),

		GatewayBaseURL: getenv("GATEWAY_BASE_URL", "https://api.gateway.example"),
		GatewayKeyID:   getenv("GATEWAY_KEY_ID", ""),
		GatewaySecret:  getenv("GATEWAY_SECRET", ""),
		Currency:       getenv("CURRENCY", "INR"),

		KafkaBrokers:      strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ","),
		NotificationTopic: getenv("NOTIFICATION_TOPIC", "store.notifications"),

		DeliveryRule: domproduct.DeliveryRule{
			FlatCharge:         getenvDecimal("DELIVERY_FLAT_CHARGE", "59"),
			FreeAboveThreshold: getenvDecimal("DELIVERY_FREE_ABOVE", "2500"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDecimal(k, def string) decimal.Decimal {
	v := getenv(k, def)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.RequireFromString(def)
	}
	return d
}
