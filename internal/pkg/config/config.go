// internal/pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration 让 time.Duration 可以直接写成 "10s"、"1m" 这样的 YAML 字符串。
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std 转回标准库类型。
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config 是所有 mall 服务共享的配置结构。
type Config struct {
	App   AppConfig   `yaml:"app"`
	Infra InfraConfig `yaml:"infra"`
}

type AppConfig struct {
	LogLevel  string      `yaml:"logLevel"`
	JWTSecret string      `yaml:"jwtSecret"`
	Order     OrderConfig `yaml:"order"`
}

// OrderConfig 聚合了订单编排相关的业务配置。
type OrderConfig struct {
	// 各延迟档位的超时序列。订单按 DelayPolicy 选中其中一个档位。
	DelayProfiles map[string][]Duration `yaml:"delayProfiles"`
	// CEL 表达式，入参为订单事实（order.*），返回档位名称。
	DelayPolicy    string `yaml:"delayPolicy"`
	DefaultProfile string `yaml:"defaultProfile"`

	// 运营侧通知收件人
	OpsEmail string `yaml:"opsEmail"`
	OpsName  string `yaml:"opsName"`
}

type InfraConfig struct {
	Mysql     MysqlConfig     `yaml:"mysql"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Services  ServicesConfig  `yaml:"services"`
	SMTP      SMTPConfig      `yaml:"smtp"`
}

type MysqlConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

type RedisConfig struct {
	Addrs []string `yaml:"addrs"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ZookeeperConfig struct {
	// 为空表示不启用基于 ZooKeeper 的取消写入锁
	Addrs []string `yaml:"addrs"`
}

// ServicesConfig 存放各下游服务的基础地址。
type ServicesConfig struct {
	CustomerServiceURL string `yaml:"customerServiceUrl"`
	ProductServiceURL  string `yaml:"productServiceUrl"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	From string `yaml:"from"`
}

// Default 返回一套可以在本地直接跑起来的配置。
func Default() *Config {
	cfg := &Config{}
	cfg.App.LogLevel = "info"
	cfg.App.JWTSecret = "mall-dev-secret"
	cfg.App.Order = OrderConfig{
		DelayProfiles: map[string][]Duration{
			"standard": durations(10*time.Second, 10*time.Second, 10*time.Second,
				15*time.Second, 15*time.Second, 30*time.Second, 30*time.Second),
			"extended": durations(time.Minute, 5*time.Minute, 10*time.Minute),
		},
		DelayPolicy:    `order.payment_amount >= 100.0 ? "extended" : "standard"`,
		DefaultProfile: "standard",
		OpsEmail:       "ops@mall.local",
		OpsName:        "Mall Operations",
	}
	cfg.Infra.Mysql = MysqlConfig{Host: "localhost", Port: 3306, User: "root", Password: "root", Database: "mall"}
	cfg.Infra.Kafka = KafkaConfig{Brokers: []string{"localhost:9092"}}
	cfg.Infra.Redis = RedisConfig{Addrs: []string{"localhost:6379"}}
	cfg.Infra.Jaeger = JaegerConfig{Endpoint: "http://localhost:14268/api/traces"}
	cfg.Infra.Services = ServicesConfig{
		CustomerServiceURL: "http://localhost:8082",
		ProductServiceURL:  "http://localhost:8083",
	}
	cfg.Infra.SMTP = SMTPConfig{Host: "localhost", Port: "1025", From: "no-reply@mall.local"}
	return cfg
}

// Load 按以下顺序组装配置: 默认值 <- YAML 文件 <- 环境变量。
// path 为空时跳过文件加载。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// Parse 从 YAML 内容直接解析（Nacos 配置中心下发时使用）。
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Infra.Kafka.Brokers = splitCSV(v)
	}
	if v := os.Getenv("REDIS_ADDRS"); v != "" {
		cfg.Infra.Redis.Addrs = splitCSV(v)
	}
	if v := os.Getenv("JAEGER_ENDPOINT"); v != "" {
		cfg.Infra.Jaeger.Endpoint = v
	}
	if v := os.Getenv("ZOOKEEPER_ADDRS"); v != "" {
		cfg.Infra.Zookeeper.Addrs = splitCSV(v)
	}
	if v := os.Getenv("CUSTOMER_SERVICE_URL"); v != "" {
		cfg.Infra.Services.CustomerServiceURL = v
	}
	if v := os.Getenv("PRODUCT_SERVICE_URL"); v != "" {
		cfg.Infra.Services.ProductServiceURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.App.JWTSecret = v
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durations(ds ...time.Duration) []Duration {
	out := make([]Duration, len(ds))
	for i, d := range ds {
		out[i] = Duration(d)
	}
	return out
}

// Stages 把某个档位的配置时长转成标准库类型；档位不存在时返回 nil。
func (o OrderConfig) Stages(profile string) []time.Duration {
	ds, ok := o.DelayProfiles[profile]
	if !ok {
		return nil
	}
	out := make([]time.Duration, len(ds))
	for i, d := range ds {
		out[i] = d.Std()
	}
	return out
}
