package config

import (
	"os"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetR2Config() *R2Config {
	return &R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          "auto",
	}
}

type MuxConfig struct {
	TokenID     string
	TokenSecret string
	BaseURL     string
	CORSOrigin  string
}

func GetMuxConfig() *MuxConfig {
	return &MuxConfig{
		TokenID:     os.Getenv("MUX_TOKEN_ID"),
		TokenSecret: os.Getenv("MUX_TOKEN_SECRET"),
		BaseURL:     getEnv("MUX_BASE_URL", "https://api.mux.com"),
		CORSOrigin:  getEnv("MUX_CORS_ORIGIN", "*"),
	}
}

// Configured reports whether pipeline credentials are present.
func (m *MuxConfig) Configured() bool {
	return m.TokenID != "" && m.TokenSecret != ""
}
