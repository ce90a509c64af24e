// Package register implements the `codescope register` subcommand, which
// writes an MCP server entry for this binary into a project .mcp.json or
// the user-level config.
package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ServerName is the key written into the mcpServers config block.
const ServerName = "codescope"

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Run executes the register subcommand. args is everything after
// "register" on the command line. It returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	scope := args[0]
	if scope != "project" && scope != "user" {
		fmt.Fprintf(os.Stderr, "Error: unknown scope %q (must be \"project\" or \"user\")\n", scope)
		printUsage()
		return 1
	}

	directory := "."
	var serverArgs []string
	rest := args[1:]
	for i, arg := range rest {
		if arg == "--" {
			serverArgs = rest[i+1:]
			break
		}
		if i == 0 && scope == "project" {
			directory = arg
		}
	}

	binary, err := binaryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error detecting binary path: %v\n", err)
		return 1
	}
	configPath, err := configPathFor(scope, directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config path: %v\n", err)
		return 1
	}

	if err := writeConfig(configPath, buildEntry(binary, serverArgs)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		return 1
	}

	fmt.Printf("Registered %q in %s\n", ServerName, configPath)
	return 0
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s register project [directory]  # → <directory>/.mcp.json (default: .)\n", name)
	fmt.Fprintf(os.Stderr, "  %s register user                 # → ~/.claude.json\n", name)
	fmt.Fprintf(os.Stderr, "  %s register project . -- -root /path  # forward flags to the server\n", name)
}

func binaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func configPathFor(scope, directory string) (string, error) {
	if scope == "project" {
		abs, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(abs, ".mcp.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".claude.json"), nil
}

func buildEntry(binary string, serverArgs []string) serverEntry {
	if runtime.GOOS == "windows" {
		return serverEntry{Command: "cmd", Args: append([]string{"/C", binary}, serverArgs...)}
	}
	return serverEntry{Command: binary, Args: serverArgs}
}

// writeConfig merges the entry into an existing config (or starts a new
// one) and replaces the file atomically via a temp file rename.
func writeConfig(configPath string, entry serverEntry) error {
	config := map[string]interface{}{
		"mcpServers": map[string]interface{}{},
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		if _, exists := config["mcpServers"]; exists {
			return fmt.Errorf("mcpServers in %s is not an object", configPath)
		}
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}
	servers[ServerName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	dir := filepath.Dir(configPath)
	tmp, err := os.CreateTemp(dir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(output); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
