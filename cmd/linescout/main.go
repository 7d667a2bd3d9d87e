package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/linescout/linescout/internal/config"
	"github.com/linescout/linescout/internal/fs"
	"github.com/linescout/linescout/internal/logger"
	"github.com/linescout/linescout/internal/reader"
	"github.com/linescout/linescout/internal/session"
	"github.com/linescout/linescout/internal/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	configPath := flag.String("config", config.GetConfigPath(), "path to config file")
	offset := flag.Int("offset", 0, "number of lines to skip before reading (0-indexed)")
	nLines := flag.Int("lines", 0, "number of lines to read (default: maximum page size)")
	schema := flag.Bool("schema", false, "print the tool JSON schema and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Allow environment variables to override config file values for logging.
	if envLevel := strings.TrimSpace(os.Getenv("LINESCOUT_LOG_LEVEL")); envLevel != "" {
		cfg.LogLevel = envLevel
	}
	if envPath := strings.TrimSpace(os.Getenv("LINESCOUT_LOG_PATH")); envPath != "" {
		cfg.LogPath = envPath
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err != nil {
			logger.Error("Fatal error: %v", err)
		}
		if closeErr := logger.Global().Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close logger: %v\n", closeErr)
		}
	}()

	filesystem := fs.NewOSFS(cfg.WorkingDir)
	sess := session.NewSession(session.GenerateID(), cfg.WorkingDir)
	fileReader := reader.New(filesystem, reader.Limits{
		MaxLines:      cfg.MaxReadLines,
		MaxLineLength: cfg.MaxReadLineLength,
	})

	registry := tools.NewRegistry()
	registry.RegisterSpec(tools.NewReadFileSpec(fileReader.Limits()), tools.NewReadFileFactory(fileReader, sess))

	if *schema {
		data, err := json.MarshalIndent(registry.ToJSONSchema(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tool schema: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: linescout [-offset N] [-lines N] <path>")
	}

	params := map[string]interface{}{
		"path": flag.Arg(0),
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "offset":
			params["line_offset"] = *offset
		case "lines":
			params["n_lines"] = *nLines
		}
	})

	call := &tools.ToolCall{
		ID:         uuid.NewString(),
		Name:       tools.ToolNameReadFile,
		Parameters: params,
	}

	result := registry.Execute(context.Background(), call)
	if result.Error != "" {
		return fmt.Errorf("%s", result.Error)
	}

	content := result.Result.(map[string]interface{})["content"].(string)
	fmt.Println(content)
	return nil
}
