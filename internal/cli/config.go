package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/spool/internal/config"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/wizard"
)

var configInteractive bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing spool configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including defaults and SPOOL_* overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), getConfigPath())
		return err
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values.

With --interactive, prompts for the common settings first. Prompts are
skipped when spool is not attached to a terminal.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  player.artist              Artist shown for added tracks
  player.end_of_track        next, repeat or stop
  player.autoplay            Start playing when files are added (true/false)
  audio.sample_rate          Output sample rate in Hz
  audio.buffer_ms            Output buffer length
  audio.update_interval_ms   How often the position display updates
  library.extensions         Comma-separated list, e.g. .mp3,.flac
  library.watch_dir          Directory to add new files from
  library.max_memory_mb      Upload memory limit
  tui.theme                  auto, dark or light
  tui.hide_cover             Hide the cover art block (true/false)
  remote.mpris               Enable desktop media keys (true/false)
  log.level                  debug, info, warn or error
  log.file                   Write logs to this file
  log.max_size_mb            Rotate the log file at this size
  log.max_backups            Rotated files to keep
  log.max_age_days           Days to keep rotated files
  log.compress               Gzip rotated files (true/false)

Examples:
  spool config set player.end_of_track repeat
  spool config set library.extensions .mp3,.ogg`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInteractive, "interactive", "i", false, "prompt for settings")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if JSONOutput() {
		return json.NewEncoder(out).Encode(cfg)
	}

	encoder := toml.NewEncoder(out)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", configPath, spoolerrors.ErrConfigNotFound)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if configInteractive && wizard.IsTerminal() {
		if err := wizard.RunSetup(newCfg); err != nil {
			return err
		}
	}

	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return json.NewEncoder(out).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Fprintf(out, "Created config file: %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Review the settings with 'spool config show'")
	fmt.Fprintln(out, "  2. Run 'spool ui' and press 'a' to add audio files")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// writeConfigFile encodes v as TOML under a header comment.
func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Spool Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", configPath, spoolerrors.ErrConfigNotFound)
	}

	if err := setConfigValue(configPath, key, value); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return json.NewEncoder(out).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// setConfigValue rewrites one key of the TOML file at path. The result must
// still validate.
func setConfigValue(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" || strings.Contains(field, ".") {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., player.artist)")
	}

	typed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	if err := validateRaw(raw); err != nil {
		return err
	}
	return writeConfigFile(path, raw)
}

func parseConfigValue(key, value string) (any, error) {
	switch key {
	case "audio.sample_rate", "audio.buffer_ms", "audio.update_interval_ms", "library.max_memory_mb",
		"log.max_size_mb", "log.max_backups", "log.max_age_days":
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return i, nil
	case "player.autoplay", "tui.hide_cover", "remote.mpris", "log.compress":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false for %s", key)
		}
		return b, nil
	case "library.extensions":
		var exts []string
		for _, e := range strings.Split(value, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		return exts, nil
	case "player.artist", "player.end_of_track", "library.watch_dir", "tui.theme", "log.level", "log.file":
		return value, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// validateRaw round-trips raw through Config so bad values never reach disk.
func validateRaw(raw map[string]any) error {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}

	var c config.Config
	if _, err := toml.Decode(buf.String(), &c); err != nil {
		return fmt.Errorf("%w: %w", spoolerrors.ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", spoolerrors.ErrInvalidConfig, err)
	}
	return nil
}
