package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sheetc/common"
	"sheetc/config"
	"sheetc/content"
	"sheetc/sheet"
	"sheetc/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	return &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func setupTestContentForPath(t *testing.T, format common.OutputFmt) *content.Content {
	t.Helper()
	return &content.Content{
		SrcName:      "worksheet.txt",
		OutputFormat: format,
		Doc: &sheet.Document{
			Meta: sheet.Meta{Title: "Test Sheet", Subtitle: "Unit 1"},
			Blocks: []*sheet.Block{
				{ID: "b1", Type: common.BlockTypeConcept, Label: "Limits"},
				{ID: "b2", Type: common.BlockTypeExample},
			},
		},
		Settings: &sheet.Settings{Locale: "en"},
	}
}

func TestBuildOutputPath_SimpleCase_NoDirs(t *testing.T) {
	c := setupTestContentForPath(t, common.OutputFmtXhtml)
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath(c, "math/unit1/worksheet.txt", "/output", env)
	expected := filepath.Join("/output", "worksheet.xhtml")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_SimpleCase_WithDirs(t *testing.T) {
	c := setupTestContentForPath(t, common.OutputFmtXhtml)
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := buildOutputPath(c, "math/unit1/worksheet.txt", "/output", env)
	expected := filepath.Join("/output", "math", "unit1", "worksheet.xhtml")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_DifferentFormats(t *testing.T) {
	tests := []struct {
		name   string
		format common.OutputFmt
		ext    string
	}{
		{"JSON", common.OutputFmtJson, ".json"},
		{"Markup", common.OutputFmtMarkup, ".txt"},
		{"XHTML", common.OutputFmtXhtml, ".xhtml"},
		{"Bundle", common.OutputFmtBundle, ".sheet.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupTestContentForPath(t, tt.format)
			env := setupTestEnvForOutputPath(t, true, false, "")

			result := buildOutputPath(c, "worksheet.txt", "/output", env)
			expected := filepath.Join("/output", "worksheet"+tt.ext)

			if result != expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, expected)
			}
		})
	}
}

func TestBuildOutputPath_BundleSource(t *testing.T) {
	c := setupTestContentForPath(t, common.OutputFmtJson)
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath(c, "worksheet.sheet.zip", "/output", env)
	expected := filepath.Join("/output", "worksheet.json")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	c := setupTestContentForPath(t, common.OutputFmtJson)
	env := setupTestEnvForOutputPath(t, true, true, "")

	result := buildOutputPath(c, "Книга.txt", "/output", env)
	expected := filepath.Join("/output", "kniga.json")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestDetermineOutputDir(t *testing.T) {
	tests := []struct {
		name   string
		noDirs bool
		want   string
	}{
		{"NoDirs", true, "/output"},
		{"WithDirs", false, filepath.Join("/output", "math", "unit1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, false, "")
			if got := determineOutputDir("math/unit1/worksheet.txt", "/output", env); got != tt.want {
				t.Errorf("determineOutputDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"Title", "{{ .Title }}", filepath.Join("/output", "Test Sheet.xhtml")},
		{"Subdirs", "{{ .Subtitle }}/{{ .SourceFile }}", filepath.Join("/output", "Unit 1", "worksheet.xhtml")},
		{"Sprig", "{{ .Title | lower | replace \" \" \"_\" }}", filepath.Join("/output", "test_sheet.xhtml")},
		{"Broken", "{{ .Title", filepath.Join("/output", "worksheet.xhtml")},
		{"Empty", "{{ .Footer }}", filepath.Join("/output", "worksheet.xhtml")},
		{"Blank", "{{ .Footer }} ", filepath.Join("/output", "_untitled_.xhtml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupTestContentForPath(t, common.OutputFmtXhtml)
			env := setupTestEnvForOutputPath(t, true, false, tt.template)
			if got := buildOutputPath(c, "worksheet.txt", "/output", env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	got := splitAndCleanPath(filepath.Join("a", "b", "c") + string(filepath.Separator))
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("splitAndCleanPath() = %v", got)
	}
	if got := splitAndCleanPath(""); len(got) != 0 {
		t.Errorf("splitAndCleanPath(\"\") = %v", got)
	}
}
