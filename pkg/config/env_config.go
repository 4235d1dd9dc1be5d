// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/opd-ai/go-collide/pkg/kinematic"
	"github.com/opd-ai/go-collide/pkg/validation"
)

// Environment variables read by LoadConfigFromEnv
const (
	EnvConfigPath     = "COLLIDE_CONFIG"
	EnvSceneTemplate  = "COLLIDE_SCENE"
	EnvMaxIterations  = "COLLIDE_MAX_ITERATIONS"
	EnvSkin           = "COLLIDE_SKIN"
	EnvNormalNudge    = "COLLIDE_NORMAL_NUDGE"
	EnvCharacterSpeed = "COLLIDE_CHARACTER_SPEED"
	EnvSlide          = "COLLIDE_SLIDE"
	EnvTickRate       = "COLLIDE_TICK_RATE"
	EnvRunDuration    = "COLLIDE_RUN_DURATION"
)

// EnvironmentConfig holds settings that may come from the environment
type EnvironmentConfig struct {
	ConfigPath     string
	SceneTemplate  string
	MaxIterations  int
	Skin           float32
	NormalNudge    float32
	CharacterSpeed float32
	Slide          bool
	TickRate       int
	// RunDuration bounds a headless run; zero means run until cancelled.
	RunDuration time.Duration
}

// ValidationError names the setting that failed validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

// LoadConfigFromEnv reads the environment, falling back to defaults
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		ConfigPath:     getEnvOrDefault(EnvConfigPath, ""),
		SceneTemplate:  getEnvOrDefault(EnvSceneTemplate, ""),
		MaxIterations:  getEnvAsIntOrDefault(EnvMaxIterations, kinematic.DefaultMaxIterations),
		Skin:           getEnvAsFloatOrDefault(EnvSkin, kinematic.DefaultSkin),
		NormalNudge:    getEnvAsFloatOrDefault(EnvNormalNudge, kinematic.DefaultNormalNudge),
		CharacterSpeed: getEnvAsFloatOrDefault(EnvCharacterSpeed, 64),
		Slide:          getEnvAsBoolOrDefault(EnvSlide, true),
		TickRate:       getEnvAsIntOrDefault(EnvTickRate, 60),
		RunDuration:    getEnvAsDurationOrDefault(EnvRunDuration, 0),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, fmt.Errorf("environment configuration validation failed: %w", err)
	}

	return config, nil
}

// validateEnvironmentConfig checks every field and reports the first bad one
func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if err := validation.ValidateMovement(config.MaxIterations, 0, 0); err != nil {
		return &ValidationError{Field: "MaxIterations", Value: config.MaxIterations, Message: err.Error()}
	}
	if err := validation.ValidateMovement(1, config.Skin, 0); err != nil {
		return &ValidationError{Field: "Skin", Value: config.Skin, Message: err.Error()}
	}
	if err := validation.ValidateMovement(1, 0, config.NormalNudge); err != nil {
		return &ValidationError{Field: "NormalNudge", Value: config.NormalNudge, Message: err.Error()}
	}
	if err := validation.ValidateSpeed(config.CharacterSpeed); err != nil {
		return &ValidationError{Field: "CharacterSpeed", Value: config.CharacterSpeed, Message: err.Error()}
	}
	if err := validation.ValidateTickRate(config.TickRate); err != nil {
		return &ValidationError{Field: "TickRate", Value: config.TickRate, Message: err.Error()}
	}
	if config.RunDuration < 0 {
		return &ValidationError{Field: "RunDuration", Value: config.RunDuration, Message: "must not be negative"}
	}
	if config.SceneTemplate != "" && GetSceneTemplate(config.SceneTemplate) == nil {
		return &ValidationError{Field: "SceneTemplate", Value: config.SceneTemplate, Message: "unknown scene template"}
	}
	return nil
}

// ApplyEnvironmentOverrides overwrites cfg with every variable that is set
func ApplyEnvironmentOverrides(cfg *Config) error {
	m := &cfg.Movement
	m.MaxIterations = getEnvAsIntOrDefault(EnvMaxIterations, m.MaxIterations)
	m.Skin = getEnvAsFloatOrDefault(EnvSkin, m.Skin)
	m.NormalNudge = getEnvAsFloatOrDefault(EnvNormalNudge, m.NormalNudge)
	m.CharacterSpeed = getEnvAsFloatOrDefault(EnvCharacterSpeed, m.CharacterSpeed)
	m.Slide = getEnvAsBoolOrDefault(EnvSlide, m.Slide)
	cfg.Sandbox.TickRate = getEnvAsIntOrDefault(EnvTickRate, cfg.Sandbox.TickRate)

	if name := os.Getenv(EnvSceneTemplate); name != "" {
		if err := ApplySceneTemplate(cfg, name); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config invalid after environment overrides: %w", err)
	}
	return nil
}

// Load resolves the full configuration: the file named by COLLIDE_CONFIG
// (or the defaults), then the scene template, then variable overrides.
func Load() (*Config, *EnvironmentConfig, error) {
	env, err := LoadConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := LoadConfigWithTemplate(env.ConfigPath, env.SceneTemplate)
	if err != nil {
		return nil, nil, err
	}

	if err := ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, env, nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
