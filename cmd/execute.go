package cmd

import (
	"fmt"
	"os"

	"github.com/AkiNeko11/MyCompiler/build"
	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/project"
	"github.com/AkiNeko11/MyCompiler/report"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `pl0` application.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("pl0", "pl0 is the PL/0 compiler and P-code runtime", true)

	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")
	cli.AddStringArg("config", "c", "the path to a pl0.toml project file", false)

	runCmd := cli.AddSubcommand("run", "compile and execute a source file", true)
	runCmd.AddPrimaryArg("file", "the source file to run", true)
	runCmd.AddFlag("show-pcode", "sp", "print the P-code listing before execution")

	buildCmd := cli.AddSubcommand("build", "compile a source file to an output artifact", true)
	buildCmd.AddPrimaryArg("file", "the source file to build", true)
	buildCmd.AddStringArg("emit", "e", "the output format: pcode or llvm", false)
	buildCmd.AddStringArg("out", "o", "the output path", false)

	lexCmd := cli.AddSubcommand("lex", "print the token stream of a source file", true)
	lexCmd.AddPrimaryArg("file", "the source file to tokenize", true)

	symCmd := cli.AddSubcommand("symbols", "compile a source file and print its symbol table", true)
	symCmd.AddPrimaryArg("file", "the source file to compile", true)

	initCmd := cli.AddSubcommand("init", "scaffold a pl0.toml in a directory", true)
	initCmd.AddPrimaryArg("dir", "the project directory", false)

	cli.AddSubcommand("version", "print the pl0 version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		return
	}

	logLevel, err := report.ParseLogLevel(result.Arguments["loglevel"].(string))
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		return
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "run":
		execCompileCommand(result, subResult, logLevel, func(c *build.Compiler, path string) error {
			return c.Run(path, subResult.HasFlag("show-pcode"))
		})
	case "build":
		execCompileCommand(result, subResult, logLevel, func(c *build.Compiler, path string) error {
			return c.Build(path)
		})
	case "lex":
		execCompileCommand(result, subResult, logLevel, func(c *build.Compiler, path string) error {
			return c.LexDump(path)
		})
	case "symbols":
		execCompileCommand(result, subResult, logLevel, func(c *build.Compiler, path string) error {
			return c.Symbols(path)
		})
	case "init":
		execInitCommand(subResult)
	case "version":
		report.PrintInfoMessage("PL/0 Version", common.PL0Version)
	}
}

// execCompileCommand loads the project configuration, applies the command
// line overrides, and hands the primary source file to the given compiler
// action.  It handles all errors related to these commands.
func execCompileCommand(result, subResult *olive.ArgParseResult, logLevel int, action func(c *build.Compiler, path string) error) {
	path, _ := subResult.PrimaryArg()

	cfg, err := loadConfig(result)
	if err != nil {
		report.PrintErrorMessage("Config Error", err)
		return
	}

	// the command line wins over the config file
	cfg.LogLevel = logLevel

	if emitArgVal, ok := subResult.Arguments["emit"]; ok {
		switch emitArgVal.(string) {
		case "pcode":
			cfg.Emit = project.EmitPCode
		case "llvm":
			cfg.Emit = project.EmitLLVM
		default:
			report.PrintErrorMessage("CLI Usage Error", fmt.Errorf("%s is not a valid emit format", emitArgVal.(string)))
			return
		}
	}

	if outArgVal, ok := subResult.Arguments["out"]; ok {
		cfg.Output = outArgVal.(string)
	}

	if err := action(build.NewCompiler(cfg), path); err != nil {
		report.PrintErrorMessage("Compile Error", err)
	}
}

// loadConfig resolves the project configuration: the --config path when
// given, else a pl0.toml in the working directory, else built-in defaults.
func loadConfig(result *olive.ArgParseResult) (*project.Config, error) {
	if cfgArgVal, ok := result.Arguments["config"]; ok {
		return project.Load(cfgArgVal.(string))
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return project.FindAndLoad(workDir)
}

// execInitCommand scaffolds a new project configuration.
func execInitCommand(subResult *olive.ArgParseResult) {
	dir, ok := subResult.PrimaryArg()
	if !ok {
		workDir, err := os.Getwd()
		if err != nil {
			report.PrintErrorMessage("Path Error", err)
			return
		}

		dir = workDir
	}

	if err := project.Init(dir); err != nil {
		report.PrintErrorMessage("Project Init Error", err)
		return
	}

	report.PrintInfoMessage("Project Init", "wrote "+common.ConfigFileName+" to "+dir)
}
