package am

// Config represents the censusplot configuration
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Chart      ChartConfig      `mapstructure:"chart"`
	Selection  SelectionConfig  `mapstructure:"selection"`
	Transition TransitionConfig `mapstructure:"transition"`
	Output     OutputConfig     `mapstructure:"output"`
	Log        LogConfig        `mapstructure:"log"`
}

// DataConfig locates the survey CSV and optional narrative overrides
type DataConfig struct {
	Path          string `mapstructure:"path"`           // CSV with a header row (default: testdata/data.csv)
	NarrativeFile string `mapstructure:"narrative_file"` // TOML [[narrative]] overrides (empty = built-in text)
}

// ChartConfig is the SVG geometry
type ChartConfig struct {
	Width         float64       `mapstructure:"width"`  // default: 960
	Height        float64       `mapstructure:"height"` // default: 600
	Margin        MarginConfig  `mapstructure:"margin"`
	PointRadius   float64       `mapstructure:"point_radius"`    // default: 20
	LabelFontSize float64       `mapstructure:"label_font_size"` // default: 10
	Padding       PaddingConfig `mapstructure:"padding"`
	TickCount     int           `mapstructure:"tick_count"` // approximate ticks per axis (default: 10)
}

// MarginConfig is the space around the chart area; bottom and left hold the axis labels
type MarginConfig struct {
	Top    float64 `mapstructure:"top"`
	Right  float64 `mapstructure:"right"`
	Bottom float64 `mapstructure:"bottom"`
	Left   float64 `mapstructure:"left"`
}

// PaddingConfig widens scale domains to [min·low, max·high]
type PaddingConfig struct {
	Low  float64 `mapstructure:"low"`  // default: 0.8
	High float64 `mapstructure:"high"` // default: 1.2
}

// SelectionConfig is the selection shown first
type SelectionConfig struct {
	X string `mapstructure:"x"` // poverty, age or income
	Y string `mapstructure:"y"` // healthcare, smokes or obesity
}

// TransitionConfig controls animated steps
type TransitionConfig struct {
	DurationMS int `mapstructure:"duration_ms"` // 0 = no animation
}

// OutputConfig names where rendered artifacts go
type OutputConfig struct {
	Page   string `mapstructure:"page"`   // interactive HTML page
	Export string `mapstructure:"export"` // static chart, .svg or .png
}

// LogConfig controls terminal logging
type LogConfig struct {
	Theme string `mapstructure:"theme"` // gruvbox, everforest
	JSON  bool   `mapstructure:"json"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// EnvPrefix prefixes environment overrides, e.g. CENSUSPLOT_CHART_WIDTH
const EnvPrefix = "CENSUSPLOT"

// ConfigFileName is the file searched for in ~/.censusplot and the project tree
const ConfigFileName = "am.toml"
