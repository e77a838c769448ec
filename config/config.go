package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort          string
	MongoURI            string
	MongoDB             string
	AccessTokenSecret   string
	AccessTokenLifetime time.Duration
	BaseURL             string
	KafkaBroker         string
	KafkaTopic          string
	KafkaGroupID        string
	KafkaUsername       string
	KafkaPassword       string
	GmailUser           string
	GmailAppPassword    string
	MailFrom            string
	MailFromName        string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	lifetime := 24 * time.Hour
	if v := os.Getenv("ACCESS_TOKEN_LIFE_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Warning: invalid ACCESS_TOKEN_LIFE_TIME %q, using default: %v", v, err)
		} else {
			lifetime = d
		}
	}

	return Config{
		ServerPort:          os.Getenv("SERVER_PORT"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getenv("MONGO_DB", "account_service"),
		AccessTokenSecret:   os.Getenv("ACCESS_TOKEN_SECRET"),
		AccessTokenLifetime: lifetime,
		BaseURL:             os.Getenv("BASE_URL"),
		KafkaBroker:         os.Getenv("KAFKA_BROKER"),
		KafkaTopic:          os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:        os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername:       os.Getenv("KAFKA_USERNAME"),
		KafkaPassword:       os.Getenv("KAFKA_PASSWORD"),
		GmailUser:           os.Getenv("GMAIL_USER"),
		GmailAppPassword:    os.Getenv("GMAIL_APP_PASSWORD"),
		MailFrom:            os.Getenv("MAIL_FROM"),
		MailFromName:        os.Getenv("MAIL_FROM_NAME"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
