package config

import "os"

const defaultSqlDsn = "root:123456@tcp(127.0.0.1:3306)/reactsense?charset=utf8mb4&parseTime=True&loc=Local"

type DBConfig struct {
	DSN          string `yaml:"dsn"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	Region          string `yaml:"region"`
}

type NSQConfig struct {
	NSQDAddr   string   `yaml:"nsqdAddr"`
	NSQDAddrs  []string `yaml:"nsqdAddrs"`
	JobTopic   string   `yaml:"jobTopic"`
	EventTopic string   `yaml:"eventTopic"`
}

// HumeConfig holds the connection settings for the hosted
// expression-measurement service.
type HumeConfig struct {
	APIKey           string `yaml:"apiKey"`
	BatchURL         string `yaml:"batchURL"`
	StreamURL        string `yaml:"streamURL"`
	ForceMock        bool   `yaml:"forceMock"`
	StreamingEnabled bool   `yaml:"streamingEnabled"`
}

type Config struct {
	Addr       string     `yaml:"addr"`
	SSLCert    string     `yaml:"sslCert"`
	SSLKey     string     `yaml:"sslKey"`
	SampleRate int        `yaml:"sampleRate"`
	DB         DBConfig   `yaml:"db"`
	S3         S3Config   `yaml:"s3"`
	NSQ        NSQConfig  `yaml:"nsq"`
	Hume       HumeConfig `yaml:"hume"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:       "127.0.0.1:8081",
		SampleRate: 2,
		DB: DBConfig{
			DSN:          defaultSqlDsn,
			MaxIdleConns: 100,
			MaxOpenConns: 1000,
			MaxLifetime:  60,
		},
		S3: S3Config{
			Bucket:   "reactsense",
			Endpoint: "127.0.0.1:9000",
			UseSSL:   false,
			Region:   "us-east-1",
		},
		NSQ: NSQConfig{
			NSQDAddr:   "127.0.0.1:4150",
			NSQDAddrs:  []string{"127.0.0.1:4150"},
			JobTopic:   "emotion_analysis",
			EventTopic: "job_events",
		},
		Hume: HumeConfig{
			APIKey:    os.Getenv("HUME_API_KEY"),
			BatchURL:  "https://api.hume.ai/v0/batch",
			StreamURL: "wss://api.hume.ai/v0/stream/models",
		},
	}
}
