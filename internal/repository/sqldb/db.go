package sqldb

import (
	"blogicum/config"
	"blogicum/internal/util"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open 根据全局配置选择驱动建立数据库连接
func Open() (*sql.DB, error) {
	switch config.AppConfig.DBDriver {
	case "mysql":
		return openMySQL()
	case "sqlite":
		return OpenSQLite(config.AppConfig.SQLitePath)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", config.AppConfig.DBDriver)
	}
}

func openMySQL() (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite 打开 SQLite 数据库，path 可为 ":memory:"（本地开发和测试）
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// 内存库和单个连接绑定，连接池超过 1 会各自拿到独立的空库
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		slug VARCHAR(64) NOT NULL UNIQUE,
		title VARCHAR(256) NOT NULL,
		description TEXT NOT NULL,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(256) NOT NULL UNIQUE,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(256) NOT NULL,
		text TEXT NOT NULL,
		pub_date DATETIME NOT NULL,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		author_id INT NOT NULL,
		category_id INT NOT NULL,
		location_id INT NULL,
		image_url VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (author_id) REFERENCES users(id),
		FOREIGN KEY (category_id) REFERENCES categories(id),
		FOREIGN KEY (location_id) REFERENCES locations(id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		post_id INT NOT NULL,
		author_id INT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (post_id) REFERENCES posts(id),
		FOREIGN KEY (author_id) REFERENCES users(id)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		is_published BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		is_published BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		pub_date DATETIME NOT NULL,
		is_published BOOLEAN NOT NULL DEFAULT 1,
		author_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL,
		location_id INTEGER,
		image_url TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (author_id) REFERENCES users(id),
		FOREIGN KEY (category_id) REFERENCES categories(id),
		FOREIGN KEY (location_id) REFERENCES locations(id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (post_id) REFERENCES posts(id),
		FOREIGN KEY (author_id) REFERENCES users(id)
	)`,
}

// Migrate 建表，重复执行安全
func Migrate(db *sql.DB, driver string) error {
	schema := mysqlSchema
	if driver == "sqlite" {
		schema = sqliteSchema
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			util.Logger.Error("执行建表语句失败", zap.Error(err))
			return err
		}
	}
	util.Logger.Info("数据库表结构就绪", zap.String("driver", driver))
	return nil
}

var seedCategories = []struct {
	Slug        string
	Title       string
	Description string
}{
	{"life", "生活", "日常随笔和碎碎念"},
	{"tech", "技术", "技术学习与踩坑记录"},
	{"travel", "旅行", "旅途中的见闻"},
}

var seedLocations = []string{"北京", "上海", "杭州", "成都"}

// Seed 写入预置的分类和地点，按唯一键去重，重复执行安全
func Seed(db *sql.DB, driver string) error {
	insert := "INSERT IGNORE INTO"
	if driver == "sqlite" {
		insert = "INSERT OR IGNORE INTO"
	}

	now := time.Now()
	for _, c := range seedCategories {
		_, err := db.Exec(insert+` categories (slug, title, description, is_published, created_at) VALUES (?, ?, ?, TRUE, ?)`,
			c.Slug, c.Title, c.Description, now)
		if err != nil {
			util.Logger.Error("写入预置分类失败", zap.Error(err), zap.String("slug", c.Slug))
			return err
		}
	}
	for _, name := range seedLocations {
		_, err := db.Exec(insert+` locations (name, is_published, created_at) VALUES (?, TRUE, ?)`, name, now)
		if err != nil {
			util.Logger.Error("写入预置地点失败", zap.Error(err), zap.String("name", name))
			return err
		}
	}
	return nil
}
