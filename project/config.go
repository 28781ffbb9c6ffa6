package project

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/interp"
	"github.com/AkiNeko11/MyCompiler/report"

	"github.com/pelletier/go-toml"
)

// Emit formats for the build command.
const (
	EmitPCode = iota
	EmitLLVM
)

// emitNames maps TOML emit name strings to enumerated format values.
var emitNames = map[string]int{
	"pcode": EmitPCode,
	"llvm":  EmitLLVM,
}

// Config is the validated project configuration driving a build.
type Config struct {
	Name  string
	Entry string

	Emit      int
	Output    string
	ShowPCode bool
	LogLevel  int

	StackSize int
}

// tomlConfigFile represents a pl0.toml file as it is encoded in TOML.
type tomlConfigFile struct {
	Project *tomlProject `toml:"project"`
	Build   *tomlBuild   `toml:"build"`
	VM      *tomlVM      `toml:"vm"`
}

type tomlProject struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry"`
}

type tomlBuild struct {
	Emit      string `toml:"emit"`
	Output    string `toml:"output"`
	ShowPCode bool   `toml:"show-pcode"`
	LogLevel  string `toml:"log-level"`
}

type tomlVM struct {
	StackSize int `toml:"stack-size"`
}

// Default returns the built-in configuration used when no pl0.toml exists.
func Default() *Config {
	return &Config{
		Emit:      EmitPCode,
		LogLevel:  report.LogLevelVerbose,
		StackSize: interp.DefaultStackLimit,
	}
}

// Load reads and validates the pl0.toml at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := applyConfig(cfg, tcf); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyConfig merges the decoded TOML sections over the defaults, validating
// every named value.
func applyConfig(cfg *Config, tcf *tomlConfigFile) error {
	if tcf.Project != nil {
		if tcf.Project.Name != "" && !isValidName(tcf.Project.Name) {
			return fmt.Errorf("project name `%s` must be a valid identifier", tcf.Project.Name)
		}

		cfg.Name = tcf.Project.Name
		cfg.Entry = tcf.Project.Entry
	}

	if tcf.Build != nil {
		if tcf.Build.Emit != "" {
			emitVal, ok := emitNames[tcf.Build.Emit]
			if !ok {
				return fmt.Errorf("%s is not a valid emit format", tcf.Build.Emit)
			}

			cfg.Emit = emitVal
		}

		if tcf.Build.LogLevel != "" {
			logLevel, err := report.ParseLogLevel(tcf.Build.LogLevel)
			if err != nil {
				return err
			}

			cfg.LogLevel = logLevel
		}

		cfg.Output = tcf.Build.Output
		cfg.ShowPCode = tcf.Build.ShowPCode
	}

	if tcf.VM != nil {
		if tcf.VM.StackSize <= 0 {
			return fmt.Errorf("vm stack-size must be positive, got %d", tcf.VM.StackSize)
		}

		cfg.StackSize = tcf.VM.StackSize
	}

	return nil
}

// FindAndLoad loads the pl0.toml in dir when one exists, falling back to the
// built-in defaults when it does not.
func FindAndLoad(dir string) (*Config, error) {
	path := filepath.Join(dir, common.ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}

		return nil, err
	}

	return Load(path)
}

// Init scaffolds a default pl0.toml for a new project in dir.  The project
// takes its name from the directory.
func Init(dir string) error {
	path := filepath.Join(dir, common.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists in %s", common.ConfigFileName, dir)
	}

	name := filepath.Base(dir)
	if !isValidName(name) {
		name = "main"
	}

	tcf := &tomlConfigFile{
		Project: &tomlProject{
			Name:  name,
			Entry: "main" + common.SrcFileExtension,
		},
		Build: &tomlBuild{
			Emit:     "pcode",
			LogLevel: "verbose",
		},
		VM: &tomlVM{
			StackSize: interp.DefaultStackLimit,
		},
	}

	buff, err := toml.Marshal(tcf)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, buff, 0644)
}

// isValidName checks that a project name reads as a PL/0 identifier.
func isValidName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// OutputPath derives the build artifact path for a source file: the
// configured output when set, otherwise the source path with the emit
// format's extension.
func (cfg *Config) OutputPath(srcPath string) string {
	if cfg.Output != "" {
		return cfg.Output
	}

	base := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	if cfg.Emit == EmitLLVM {
		return base + ".ll"
	}

	return base + ".pcode"
}
