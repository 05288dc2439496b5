package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database pointed at by the environment.
// The default is a local sqlite file (DB_PATH, falling back to dineflow.db);
// DB_DRIVER=mysql builds a MySQL DSN from the usual DB_* variables.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") != "mysql" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "dineflow.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3306"
	}
	if name == "" {
		name = "dineflow"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, name)

	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
