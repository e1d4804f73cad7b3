package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"sheetc/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	DocumentConfig struct {
		OutputNameTemplate    string           `yaml:"output_name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
		Locale                string           `yaml:"locale" validate:"required,bcp47_language_tag"`
		ColumnBlockLimit      int              `yaml:"column_block_limit" validate:"gte=0"`
		ChunkMode             common.ChunkMode `yaml:"chunk_mode" validate:"oneof=none break spacer"`
		SpacerHeight          float64          `yaml:"spacer_height" validate:"gte=0"`
		MaxImageWidth         int              `yaml:"max_image_width" validate:"gte=0"`
	}

	PageConfig struct {
		ColumnWidth           float64 `yaml:"column_width" validate:"gt=0"`
		ColumnHeight          float64 `yaml:"column_height" validate:"gt=0"`
		FirstPageColumnHeight float64 `yaml:"first_page_column_height" validate:"gt=0,ltefield=ColumnHeight"`
		BlockGap              float64 `yaml:"block_gap" validate:"gte=0"`
	}

	MeasureConfig struct {
		FontFile   string  `yaml:"font_file" sanitize:"assure_file_access"`
		FontSizePt float64 `yaml:"font_size_pt" validate:"gt=0"`
		LineHeight float64 `yaml:"line_height" validate:"gte=1"`
		DPI        float64 `yaml:"dpi" validate:"gt=0"`
	}

	LayoutConfig struct {
		Page                   PageConfig    `yaml:"page"`
		Measure                MeasureConfig `yaml:"measure"`
		RebalanceMaxIterations int           `yaml:"rebalance_max_iterations" validate:"min=1"`
		RebalanceDelay         time.Duration `yaml:"rebalance_delay" validate:"gte=0"`
	}

	AutosaveConfig struct {
		Enable      bool   `yaml:"enable"`
		Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required_unless=Enable false"`
		Key         string `yaml:"key" validate:"required"`
		Keep        int    `yaml:"keep" validate:"min=1"`
	}

	HistoryConfig struct {
		Depth       int            `yaml:"depth" validate:"min=1"`
		Coalesce    time.Duration  `yaml:"coalesce" validate:"gte=0"`
		RecordDelay time.Duration  `yaml:"record_delay" validate:"gte=0"`
		Autosave    AutosaveConfig `yaml:"autosave"`
	}

	TypesetConfig struct {
		Enable    bool              `yaml:"enable"`
		Timeout   time.Duration     `yaml:"timeout" validate:"gt=0"`
		CacheSize int               `yaml:"cache_size" validate:"min=1"`
		Macros    map[string]string `yaml:"macros,omitempty"`
	}

	PreviewConfig struct {
		Listen string `yaml:"listen" validate:"required,hostname_port"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Layout    LayoutConfig   `yaml:"layout"`
		History   HistoryConfig  `yaml:"history"`
		Typeset   TypesetConfig  `yaml:"typeset"`
		Preview   PreviewConfig  `yaml:"preview"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields we defined are accepted, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
