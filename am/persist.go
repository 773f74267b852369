package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/logger"
)

// ErrConfigExists is returned by WriteStarter when the file is already there
var ErrConfigExists = errors.New("config file already exists")

// starterConfig mirrors Config with toml tags so the written file has sections in a stable order
type starterConfig struct {
	Data struct {
		Path          string `toml:"path"`
		NarrativeFile string `toml:"narrative_file"`
	} `toml:"data"`
	Chart struct {
		Width         float64 `toml:"width"`
		Height        float64 `toml:"height"`
		PointRadius   float64 `toml:"point_radius"`
		LabelFontSize float64 `toml:"label_font_size"`
		TickCount     int     `toml:"tick_count"`
		Margin        struct {
			Top    float64 `toml:"top"`
			Right  float64 `toml:"right"`
			Bottom float64 `toml:"bottom"`
			Left   float64 `toml:"left"`
		} `toml:"margin"`
		Padding struct {
			Low  float64 `toml:"low"`
			High float64 `toml:"high"`
		} `toml:"padding"`
	} `toml:"chart"`
	Selection struct {
		X string `toml:"x"`
		Y string `toml:"y"`
	} `toml:"selection"`
	Transition struct {
		DurationMS int `toml:"duration_ms"`
	} `toml:"transition"`
	Output struct {
		Page   string `toml:"page"`
		Export string `toml:"export"`
	} `toml:"output"`
	Log struct {
		Theme string `toml:"theme"`
		JSON  bool   `toml:"json"`
	} `toml:"log"`
}

func toStarter(c *Config) starterConfig {
	var s starterConfig
	s.Data.Path = c.Data.Path
	s.Data.NarrativeFile = c.Data.NarrativeFile
	s.Chart.Width = c.Chart.Width
	s.Chart.Height = c.Chart.Height
	s.Chart.PointRadius = c.Chart.PointRadius
	s.Chart.LabelFontSize = c.Chart.LabelFontSize
	s.Chart.TickCount = c.Chart.TickCount
	s.Chart.Margin.Top = c.Chart.Margin.Top
	s.Chart.Margin.Right = c.Chart.Margin.Right
	s.Chart.Margin.Bottom = c.Chart.Margin.Bottom
	s.Chart.Margin.Left = c.Chart.Margin.Left
	s.Chart.Padding.Low = c.Chart.Padding.Low
	s.Chart.Padding.High = c.Chart.Padding.High
	s.Selection.X = c.Selection.X
	s.Selection.Y = c.Selection.Y
	s.Transition.DurationMS = c.Transition.DurationMS
	s.Output.Page = c.Output.Page
	s.Output.Export = c.Output.Export
	s.Log.Theme = c.Log.Theme
	s.Log.JSON = c.Log.JSON
	return s
}

// MarshalTOML encodes the configuration as an am.toml document
func MarshalTOML(c *Config) ([]byte, error) {
	data, err := toml.Marshal(toStarter(c))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// WriteStarter writes c to path as a starter am.toml.
// An existing file is only replaced when force is set, after a rotating backup.
func WriteStarter(path string, c *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Wrapf(ErrConfigExists, "%s", path),
			"pass --force to overwrite (the old file is kept as .back1)",
		)
	}
	data, err := MarshalTOML(c)
	if err != nil {
		return err
	}
	header := "# censusplot configuration\n# Environment variables override these values, e.g. CENSUSPLOT_CHART_WIDTH=1200\n\n"
	return saveConfig(path, append([]byte(header), data...))
}

// SetValue updates one dotted key in the TOML file at path, creating the file if needed.
// Values that parse as bool, integer or float are stored typed; everything else is a string.
func SetValue(path, key, value string) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return errors.Wrapf(errors.ErrInvalidRequest, "invalid key %q", key)
	}

	config := make(map[string]interface{})
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return errors.Wrapf(err, "failed to parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	parts := strings.Split(key, ".")
	section := config
	for _, p := range parts[:len(parts)-1] {
		next, ok := section[p].(map[string]interface{})
		if !ok {
			if _, exists := section[p]; exists {
				return errors.Wrapf(errors.ErrInvalidRequest, "%s is a value, not a section", p)
			}
			next = make(map[string]interface{})
			section[p] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = parseValue(value)

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return saveConfig(path, data)
}

func parseValue(s string) interface{} {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// saveConfig writes the config file with backup
func saveConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}
