package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of every environment variable kiln reads, e.g. KILN_MANIFEST.
const EnvPrefix = "KILN"

// Setting keys. Cobra flags are bound under the same names with '_' spelled '-'.
const (
	KeyManifest   = "manifest"
	KeyJSON       = "json"
	KeyQuiet      = "quiet"
	KeyTrace      = "trace"
	KeyMetricsOut = "metrics_out"
	KeySequential = "sequential"
	KeyRebuild    = "rebuild"
)

// Settings are the resolved CLI settings.
type Settings struct {
	Manifest   string
	JSON       bool
	Quiet      bool
	Trace      bool
	MetricsOut string
	// Sequential forces every target to compile one source at a time.
	Sequential bool
	// Rebuild forces every target to recompile all of its sources.
	Rebuild bool
}

// LogLevel returns the slog level matching the quiet setting.
func (s Settings) LogLevel() slog.Level {
	if s.Quiet {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// NewViper returns a viper instance with kiln's defaults and KILN_* environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyManifest, domain.ManifestFileName)
	v.SetDefault(KeyJSON, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyTrace, false)
	v.SetDefault(KeyMetricsOut, "")
	v.SetDefault(KeySequential, false)
	v.SetDefault(KeyRebuild, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in set whose name matches a setting key.
func BindFlags(v *viper.Viper, set *pflag.FlagSet) error {
	var errs error
	set.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to bind flag"), "flag", f.Name))
		}
	})
	return errs
}

// Decode reads the resolved settings out of v.
func Decode(v *viper.Viper) Settings {
	return Settings{
		Manifest:   v.GetString(KeyManifest),
		JSON:       v.GetBool(KeyJSON),
		Quiet:      v.GetBool(KeyQuiet),
		Trace:      v.GetBool(KeyTrace),
		MetricsOut: v.GetString(KeyMetricsOut),
		Sequential: v.GetBool(KeySequential),
		Rebuild:    v.GetBool(KeyRebuild),
	}
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return zerr.With(zerr.Wrap(err, "failed to load .env file"), "path", path)
}
