// FILE: example/resolve_demo.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lixenwraith/bind"
)

// RetryConfig is bound from the "Retry" section.
type RetryConfig struct {
	MaxAttempts int           `cfg:"MaxAttempts"`
	Timeout     time.Duration `cfg:"Timeout"`
}

// LogLevel is an application enum resolved by member name.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Declared binding sites: key fixed at authoring time, type static.
var (
	maxAttempts = bind.NewParam[int]("Retry:MaxAttempts")
	timeout     = bind.NewParam[time.Duration]("Retry:Timeout")
	tags        = bind.NewParam[[]string]("Feature:Tags")
	level       = bind.NewParam[LogLevel]("Log:Level")
)

func main() {
	bind.RegisterEnum(map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	})

	// Layer CLI args over environment over file
	args, err := bind.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal("failed to parse args:", err)
	}

	tree, err := bind.LoadFile("config.toml")
	if err != nil {
		if !errors.Is(err, bind.ErrConfigNotFound) {
			log.Fatal("failed to load config:", err)
		}
		tree = bind.NewTree(map[string]any{
			"Retry": map[string]any{
				"MaxAttempts": 5,
				"Timeout":     "30s",
			},
			"Feature": map[string]any{
				"Tags": []any{"a", "b", "c"},
			},
			"Log": map[string]any{
				"Level": "warn",
			},
		})
	}

	provider := bind.NewLayered(args, bind.NewEnv("DEMO_"), tree)

	reg := bind.NewRegistry()
	bind.RegisterAs[bind.Provider](reg, provider)

	attempts, err := maxAttempts.Resolve(reg)
	if err != nil {
		log.Fatal(err)
	}
	to, _ := timeout.Resolve(reg)
	ts, _ := tags.Resolve(reg)
	lv, _ := level.Resolve(reg)

	fmt.Printf("attempts=%d timeout=%s tags=%v level=%d\n", attempts, to, ts, lv)

	// Whole-section binding through the same coercion registry
	var retry RetryConfig
	if err := bind.Scan(provider, "Retry", &retry); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("retry=%+v\n", retry)
}
