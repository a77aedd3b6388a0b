package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	Freshservice FreshserviceConfig
	Schedule     ScheduleConfig
	CORS         CORSConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool   // 是否启用统计缓存
	Host     string // Redis主机地址
	Port     int    // Redis端口
	Password string // Redis密码
	DB       int    // Redis数据库编号
	Prefix   string // 缓存键前缀
	TTL      int    // 统计缓存有效期（分钟）
}

type LogConfig struct {
	Level      string
	FilePath   string
	MaxSize    int    // MB
	MaxBackups int    // 保留的备份文件数
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩
	Format     string // json 或 text
}

// FreshserviceConfig 上游工单系统配置
type FreshserviceConfig struct {
	Domain         string // 如 example.freshservice.com
	APIKey         string // API密钥，优先于TokenFile
	TokenFile      string // 密钥文件路径（兼容旧部署的token.txt）
	PageSize       int    // 通用列表每页条数
	TicketPageSize int    // 工单搜索每页条数
	RequestTimeout int    // 单次请求超时（秒）
	TicketDelayMs  int    // 逐工单处理间隔（毫秒）
	SubDelayMs     int    // 子资源请求间隔（毫秒）
	MaxTicketPages int    // 工单搜索最大页数（防失控）
	MaxListPages   int    // 实体列表最大页数
}

// ScheduleConfig 定时采集配置
type ScheduleConfig struct {
	Enabled bool   // 是否启用每月自动采集
	Cron    string // cron表达式，默认每月1日凌晨2点
}

type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int // 预检请求缓存时间（小时）
}

// 全局配置实例和同步锁
var (
	globalConfig *Config
	once         sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		var err error
		globalConfig, err = LoadConfig()
		if err != nil {
			panic("Failed to load config: " + err.Error())
		}
	})
	return globalConfig
}

// 获取环境变量，如果不存在则使用默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 获取环境变量转换为int
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// 获取环境变量转换为bool
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true"
	}
	return defaultValue
}

// 获取环境变量转换为字符串数组（逗号分隔）
func getEnvAsStringArray(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("SERVER_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "integoreport"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "integoreport"),
			TTL:      getEnvAsInt("REDIS_SUMMARY_TTL", 60),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/integoreport.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 30),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
			Format:     getEnv("LOG_FORMAT", "text"),
		},
		Freshservice: FreshserviceConfig{
			Domain:         getEnv("FRESHSERVICE_DOMAIN", ""),
			APIKey:         getEnv("FRESHSERVICE_API_KEY", ""),
			TokenFile:      getEnv("FRESHSERVICE_TOKEN_FILE", "token.txt"),
			PageSize:       getEnvAsInt("FRESHSERVICE_PAGE_SIZE", 30),
			TicketPageSize: getEnvAsInt("FRESHSERVICE_TICKET_PAGE_SIZE", 30),
			RequestTimeout: getEnvAsInt("FRESHSERVICE_REQUEST_TIMEOUT", 30),
			TicketDelayMs:  getEnvAsInt("FRESHSERVICE_TICKET_DELAY_MS", 250),
			SubDelayMs:     getEnvAsInt("FRESHSERVICE_SUB_DELAY_MS", 100),
			MaxTicketPages: getEnvAsInt("FRESHSERVICE_MAX_TICKET_PAGES", 100),
			MaxListPages:   getEnvAsInt("FRESHSERVICE_MAX_LIST_PAGES", 200),
		},
		Schedule: ScheduleConfig{
			Enabled: getEnvAsBool("SCHEDULE_ENABLED", false),
			Cron:    getEnv("SCHEDULE_CRON", "0 2 1 * *"),
		},
		CORS: CORSConfig{
			AllowOrigins:     getEnvAsStringArray("CORS_ALLOW_ORIGINS", []string{"*"}),
			AllowMethods:     getEnvAsStringArray("CORS_ALLOW_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowHeaders:     getEnvAsStringArray("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}),
			ExposeHeaders:    getEnvAsStringArray("CORS_EXPOSE_HEADERS", []string{"Content-Length", "Content-Type"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 12),
		},
	}

	return config, nil
}

// Credential 解析上游API密钥：环境变量优先，其次读取密钥文件
func (c *FreshserviceConfig) Credential() (string, error) {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, nil
	}
	if c.TokenFile == "" {
		return "", errors.New("未配置上游API密钥")
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("读取密钥文件 %s 失败: %v", c.TokenFile, err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("密钥文件 %s 为空", c.TokenFile)
	}
	return key, nil
}

// Validate 启动前校验必填配置
func (c *FreshserviceConfig) Validate() error {
	if c.Domain == "" {
		return errors.New("未配置 FRESHSERVICE_DOMAIN")
	}
	if _, err := c.Credential(); err != nil {
		return err
	}
	return nil
}
