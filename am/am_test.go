package am

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

// isolate points HOME and the working directory at empty temp dirs
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)
	Reset()
	t.Cleanup(Reset)
	return home, project
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, DefaultDataPath, cfg.Data.Path)
	assert.Equal(t, 960.0, cfg.Chart.Width)
	assert.Equal(t, 600.0, cfg.Chart.Height)
	assert.Equal(t, 0.8, cfg.Chart.Padding.Low)
	assert.Equal(t, 1.2, cfg.Chart.Padding.High)
	assert.Equal(t, "poverty", cfg.Selection.X)
	assert.Equal(t, "healthcare", cfg.Selection.Y)
	assert.Equal(t, 1000, cfg.Transition.DurationMS)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	require.NoError(t, cfg.Validate())
}

func TestDefaults_MatchScatterLayout(t *testing.T) {
	cfg := defaultConfig(t)
	assert.Equal(t, scatter.DefaultLayout(), cfg.Layout())

	loop, err := cfg.LoopConfig()
	require.NoError(t, err)
	assert.Equal(t, selection.Default, loop.Initial)
	assert.Equal(t, time.Second, loop.Duration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero duration is valid (no animation)", func(c *Config) { c.Transition.DurationMS = 0 }, false},
		{"negative duration is invalid", func(c *Config) { c.Transition.DurationMS = -1 }, true},
		{"zero width is invalid", func(c *Config) { c.Chart.Width = 0 }, true},
		{"margins wider than svg", func(c *Config) { c.Chart.Margin.Left = 950 }, true},
		{"negative margin", func(c *Config) { c.Chart.Margin.Top = -5 }, true},
		{"zero radius", func(c *Config) { c.Chart.PointRadius = 0 }, true},
		{"zero font size", func(c *Config) { c.Chart.LabelFontSize = 0 }, true},
		{"inverted padding", func(c *Config) { c.Chart.Padding.Low = 1.5 }, true},
		{"zero tick count", func(c *Config) { c.Chart.TickCount = 0 }, true},
		{"y field on x axis", func(c *Config) { c.Selection.X = "obesity" }, true},
		{"unknown field", func(c *Config) { c.Selection.Y = "height" }, true},
		{"unknown theme", func(c *Config) { c.Log.Theme = "solarized" }, true},
		{"empty theme falls back", func(c *Config) { c.Log.Theme = "" }, false},
		{"empty data path is valid", func(c *Config) { c.Data.Path = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitialSelection_WrongAxis(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Selection.X = "smokes"
	_, err := cfg.InitialSelection()
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrWrongAxis))
	assert.NotEmpty(t, errors.GetAllHints(err))

	cfg.Selection.X = "weight"
	_, err = cfg.InitialSelection()
	assert.True(t, errors.Is(err, census.ErrUnknownField))
}

func TestGetters(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultDataPath, cfg.GetDataPath())
	assert.Equal(t, "everforest", cfg.GetLogTheme())

	cfg.Data.Path = "survey.csv"
	cfg.Log.Theme = "gruvbox"
	assert.Equal(t, "survey.csv", cfg.GetDataPath())
	assert.Equal(t, "gruvbox", cfg.GetLogTheme())
	assert.Contains(t, cfg.String(), "survey.csv")
}

func TestLoad_Precedence(t *testing.T) {
	home, project := isolate(t)

	userPath := filepath.Join(home, ".censusplot", ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0755))
	require.NoError(t, os.WriteFile(userPath, []byte("[chart]\nwidth = 1000\nheight = 700\n\n[log]\ntheme = \"gruvbox\"\n"), 0644))

	// Project config sits one level up from the working directory
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName), []byte("[chart]\nwidth = 1200\n"), 0644))
	nested := filepath.Join(project, "sub", "dir")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	t.Setenv("CENSUSPLOT_TRANSITION_DURATION_MS", "250")
	t.Setenv("CENSUSPLOT_DATA_FILE", "env.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1200.0, cfg.Chart.Width, "project overrides user")
	assert.Equal(t, 700.0, cfg.Chart.Height, "user overrides default")
	assert.Equal(t, "gruvbox", cfg.Log.Theme)
	assert.Equal(t, 250, cfg.Transition.DurationMS, "env overrides defaults")
	assert.Equal(t, "env.csv", cfg.Data.Path)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again, "cached until Reset")
}

func TestLoad_EnvOverridesProjectFile(t *testing.T) {
	_, project := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName), []byte("[selection]\nx = \"age\"\n"), 0644))
	t.Setenv("CENSUSPLOT_SELECTION_X", "income")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "income", cfg.Selection.X)
}

func TestLoad_DataFileEnvKeepsDataSection(t *testing.T) {
	_, project := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName),
		[]byte("[data]\npath = \"file.csv\"\nnarrative_file = \"notes.toml\"\n"), 0644))
	t.Setenv("CENSUSPLOT_DATA_FILE", "env.csv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.Data.Path)
	assert.Equal(t, "notes.toml", cfg.Data.NarrativeFile, "rest of [data] survives the override")
	assert.Equal(t, "env.csv", GetString("data.path"))

	byKey := settingsByKey(t)
	assert.Equal(t, SourceEnvironment, byKey["data.path"].Source)
	assert.Equal(t, "CENSUSPLOT_DATA_FILE", byKey["data.path"].SourcePath)
	assert.Equal(t, SourceProject, byKey["data.narrative_file"].Source)
}

func TestLoad_MalformedFile(t *testing.T) {
	_, project := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName), []byte("[chart\nwidth = "), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ConfigFileName)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[transition]\nduration_ms = 0\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Transition.DurationMS)
	assert.Equal(t, 960.0, cfg.Chart.Width, "defaults still apply")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestIntrospection_Sources(t *testing.T) {
	home, project := isolate(t)
	userPath := filepath.Join(home, ".censusplot", ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0755))
	require.NoError(t, os.WriteFile(userPath, []byte("[chart]\nheight = 500\n"), 0644))
	projectPath := filepath.Join(project, ConfigFileName)
	require.NoError(t, os.WriteFile(projectPath, []byte("[chart]\nwidth = 800\n"), 0644))
	t.Setenv("CENSUSPLOT_LOG_JSON", "true")

	info, err := GetConfigIntrospection()
	require.NoError(t, err)
	assert.Equal(t, projectPath, info.ConfigFile)

	byKey := map[string]SettingInfo{}
	for _, s := range info.Settings {
		byKey[s.Key] = s
	}
	assert.Equal(t, SourceProject, byKey["chart.width"].Source)
	assert.Equal(t, projectPath, byKey["chart.width"].SourcePath)
	assert.Equal(t, SourceUser, byKey["chart.height"].Source)
	assert.Equal(t, SourceDefault, byKey["chart.tick_count"].Source)
	assert.Equal(t, SourceEnvironment, byKey["log.json"].Source)
	assert.Equal(t, "CENSUSPLOT_LOG_JSON", byKey["log.json"].SourcePath)

	summary, err := GetConfigSummary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary[SourceProject])
	assert.Equal(t, 1, summary[SourceUser])
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := defaultConfig(t)

	require.NoError(t, WriteStarter(path, cfg, false))
	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = WriteStarter(path, cfg, false)
	assert.True(t, errors.Is(err, ErrConfigExists))

	cfg.Chart.Width = 1280
	require.NoError(t, WriteStarter(path, cfg, true))
	_, err = os.Stat(path + ".back1")
	assert.NoError(t, err, "previous file backed up")
	loaded, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1280.0, loaded.Chart.Width)
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	require.NoError(t, SetValue(path, "chart.width", "1100"))
	require.NoError(t, SetValue(path, "chart.padding.low", "0.9"))
	require.NoError(t, SetValue(path, "selection.x", "age"))
	require.NoError(t, SetValue(path, "log.json", "true"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, cfg.Chart.Width)
	assert.Equal(t, 0.9, cfg.Chart.Padding.Low)
	assert.Equal(t, "age", cfg.Selection.X)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 600.0, cfg.Chart.Height)

	err = SetValue(path, "chart.width.inner", "1")
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.True(t, errors.IsInvalidRequestError(SetValue(path, "", "1")))
}

func TestCreateBackup_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	for _, content := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, saveConfig(path, []byte(content)))
	}

	for suffix, want := range map[string]string{"": "e", ".back1": "d", ".back2": "c", ".back3": "b"} {
		data, err := os.ReadFile(path + suffix)
		require.NoError(t, err)
		assert.Equal(t, want, string(data), "file%s", suffix)
	}
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(data, []byte("id\n"), 0644))

	w, err := NewWatcher([]string{data, ""}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)
	t.Cleanup(func() { w.Stop() })

	var mu sync.Mutex
	var calls [][]string
	fired := make(chan struct{}, 10)
	w.OnReload(func(changed []string) error {
		mu.Lock()
		calls = append(calls, changed)
		mu.Unlock()
		fired <- struct{}{}
		return errors.New("callback errors are logged, not fatal")
	})
	w.Start()

	abs, err := filepath.Abs(data)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, w.Files())

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(data, []byte("id\n1\n"), 0644))
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire")
	}
	// Allow a straggling timer to fire if the writes straddled the debounce window
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, calls)
	for _, changed := range calls {
		assert.Equal(t, []string{abs}, changed)
	}
}

func TestNewWatcher_NoFiles(t *testing.T) {
	_, err := NewWatcher([]string{""}, nil)
	assert.True(t, errors.IsInvalidRequestError(err))
}
