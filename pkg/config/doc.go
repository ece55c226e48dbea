// Package config loads environment-based configuration into typed structs.
//
// It wraps env tag parsing with optional .env file support, so the same
// struct works in development (dotenv) and production (real environment).
// Config structs live next to the components they configure; this package
// only provides the loading mechanics.
//
//	var cfg kv.RedisConfig
//	config.MustLoad(&cfg)
package config
