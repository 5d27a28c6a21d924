package config

import (
	"flag"
	"os"
	"strings"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr       string
	GRPCAddr      string
	DatabaseDSN   string
	AdminUser     string
	AdminPassword string
	TrustedSubnet string
	Debug         bool
}

// NewConfig создает и возвращает новый объект Config с настройками по умолчанию и парсит флаги командной строки
func NewConfig() (*Config, error) {
	cfg := &Config{
		RunAddr: ":8080",
	}

	// Регистрируем флаги
	flagRunAddr := flag.String("a", ":8080", "address and port to run HTTP server")
	flagGRPCAddr := flag.String("g", "", "address and port to run gRPC server")
	flagDatabaseDSN := flag.String("d", "", "database DSN for PostgreSQL")
	flagAdminUser := flag.String("u", "", "admin username for basic auth")
	flagAdminPassword := flag.String("p", "", "admin password for basic auth")
	flagTrustedSubnet := flag.String("t", "", "trusted subnet in CIDR notation for internal endpoints")
	flagDebug := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	// Проверяем переменные окружения
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else if *flagRunAddr != "" {
		cfg.RunAddr = *flagRunAddr
	}

	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	} else if *flagGRPCAddr != "" {
		cfg.GRPCAddr = *flagGRPCAddr
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	} else if *flagDatabaseDSN != "" {
		cfg.DatabaseDSN = *flagDatabaseDSN
	}

	if user := os.Getenv("ADMIN_USERNAME"); user != "" {
		cfg.AdminUser = user
	} else if *flagAdminUser != "" {
		cfg.AdminUser = *flagAdminUser
	}

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.AdminPassword = password
	} else if *flagAdminPassword != "" {
		cfg.AdminPassword = *flagAdminPassword
	}

	if subnet := os.Getenv("TRUSTED_SUBNET"); subnet != "" {
		cfg.TrustedSubnet = subnet
	} else if *flagTrustedSubnet != "" {
		cfg.TrustedSubnet = *flagTrustedSubnet
	}

	if debug := os.Getenv("DEBUG"); debug != "" {
		cfg.Debug = debug == "true" || debug == "1"
	} else {
		cfg.Debug = *flagDebug
	}

	// Валидация значений
	cfg.RunAddr = validateAddress(cfg.RunAddr)
	if cfg.GRPCAddr != "" {
		cfg.GRPCAddr = validateAddress(cfg.GRPCAddr)
	}

	return cfg, nil
}

// validateAddress дополняет адрес двоеточием, если указан только порт
func validateAddress(addr string) string {
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
