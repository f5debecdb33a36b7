package config

import (
	"cmp"
	"flag"
	"fmt"
	"os"
)

const (
	defaultAddr      = ":8080"
	defaultDBHost    = "postgres"
	defaultDBPort    = "5432"
	defaultDBUser    = "program"
	defaultDBPass    = "test"
	defaultDBName    = "library"
	defaultJWTSecret = "change-me"
)

type Config struct {
	Addr       string
	Debug      bool
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
}

func Read() *Config {
	var addr string
	var debug bool
	flag.StringVar(&addr, "addr", defaultAddr, "address the server listens on")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	return &Config{
		Addr:       cmp.Or(os.Getenv("SERVER_ADDR"), addr),
		Debug:      debug,
		DBHost:     cmp.Or(os.Getenv("DB_HOST"), defaultDBHost),
		DBPort:     cmp.Or(os.Getenv("DB_PORT"), defaultDBPort),
		DBUser:     cmp.Or(os.Getenv("DB_USER"), defaultDBUser),
		DBPassword: cmp.Or(os.Getenv("DB_PASSWORD"), defaultDBPass),
		DBName:     cmp.Or(os.Getenv("DB_NAME"), defaultDBName),
		JWTSecret:  cmp.Or(os.Getenv("JWT_SECRET"), defaultJWTSecret),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
