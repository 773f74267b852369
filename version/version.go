package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/teranos/censusplot/census"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// SchemaVersion is bumped whenever the CSV columns or the frame JSON layout change.
// Pages written by a different schema version must be regenerated.
const SchemaVersion = 1

// plotModules are the rendering libraries whose versions are worth reporting
var plotModules = []string{"gonum.org/v1/plot", "gonum.org/v1/gonum"}

// Schema describes the data this binary reads and the frames it writes
type Schema struct {
	Version int            `json:"version"`
	Columns []string       `json:"columns"`
	XFields []census.Field `json:"x_fields"`
	YFields []census.Field `json:"y_fields"`
}

// Info contains version and build information
type Info struct {
	CommitHash string            `json:"commit_hash"`
	BuildTime  string            `json:"build_time"`
	Version    string            `json:"version"`
	GoVersion  string            `json:"go_version"`
	Platform   string            `json:"platform"`
	Schema     Schema            `json:"schema"`
	Modules    map[string]string `json:"modules,omitempty"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Schema: Schema{
			Version: SchemaVersion,
			Columns: census.RequiredColumns(),
			XFields: append([]census.Field(nil), census.XFields...),
			YFields: append([]census.Field(nil), census.YFields...),
		},
		Modules: moduleVersions(),
	}
}

// moduleVersions reads the plotting library versions from the embedded build info.
// Returns nil when the binary carries no module information.
func moduleVersions() map[string]string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	out := map[string]string{}
	for _, dep := range bi.Deps {
		for _, path := range plotModules {
			if dep.Path == path {
				out[path] = dep.Version
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// String returns a human-readable version string
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("censusplot %s (commit %s, built %s, schema v%d)", v, i.CommitHash, i.BuildTime, i.Schema.Version)
}

// Fields renders the selectable fields as "x: poverty, age, income; y: healthcare, smokes, obesity"
func (s Schema) Fields() string {
	join := func(fs []census.Field) string {
		names := make([]string, len(fs))
		for i, f := range fs {
			names[i] = string(f)
		}
		return strings.Join(names, ", ")
	}
	return "x: " + join(s.XFields) + "; y: " + join(s.YFields)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
